// Package document provides a generic tree value (object, array, string, number, bool or
// null), used to represent query strings, form bodies and JSON bodies. Documents are parsed
// and rendered by json-iterator in its standard-library compatible mode, so object keys are
// always rendered sorted and two equal documents always stringify identically.
package document

import (
	"reflect"
	"sort"

	json "github.com/json-iterator/go"
)

var codec = json.ConfigCompatibleWithStandardLibrary

type Kind uint8

const (
	Null Kind = iota
	Object
	Array
	String
	Number
	Bool
)

// Document is a thin wrapper over a decoded JSON value. The zero value is a null document.
// Objects and arrays are reference types, so copies of a Document share them.
type Document struct {
	value any
}

// New returns an empty object.
func New() Document {
	return Document{value: make(map[string]any)}
}

// Of wraps a plain value. Nested Documents are unwrapped.
func Of(value any) Document {
	if d, ok := value.(Document); ok {
		return d
	}

	return Document{value: value}
}

// Parse decodes the JSON text.
func Parse(text string) (Document, error) {
	return ParseBytes([]byte(text))
}

// ParseBytes decodes the JSON data.
func ParseBytes(data []byte) (Document, error) {
	var value any
	if err := codec.Unmarshal(data, &value); err != nil {
		return Document{}, err
	}

	return Document{value: value}, nil
}

// Kind returns the type of the underlying value.
func (d Document) Kind() Kind {
	switch d.value.(type) {
	case map[string]any:
		return Object
	case []any:
		return Array
	case string:
		return String
	case float64, float32, int, int64, uint64:
		return Number
	case bool:
		return Bool
	default:
		return Null
	}
}

// Get returns the object field by the key. A null document is returned if the document
// isn't an object or doesn't contain the key.
func (d Document) Get(key string) Document {
	obj, ok := d.value.(map[string]any)
	if !ok {
		return Document{}
	}

	return Document{value: obj[key]}
}

// Has tells whether the document is an object containing the key.
func (d Document) Has(key string) bool {
	obj, ok := d.value.(map[string]any)
	if !ok {
		return false
	}

	_, found := obj[key]
	return found
}

// Index returns the array element at i, or a null document if it is out of range or the
// document isn't an array.
func (d Document) Index(i int) Document {
	arr, ok := d.value.([]any)
	if !ok || i < 0 || i >= len(arr) {
		return Document{}
	}

	return Document{value: arr[i]}
}

// Set stores the value by the key. It returns false if the document isn't an object.
func (d Document) Set(key string, value any) bool {
	obj, ok := d.value.(map[string]any)
	if !ok {
		return false
	}

	obj[key] = Of(value).value
	return true
}

// Len returns the number of entries of an object or an array, the length of a string and
// zero for anything else.
func (d Document) Len() int {
	switch v := d.value.(type) {
	case map[string]any:
		return len(v)
	case []any:
		return len(v)
	case string:
		return len(v)
	default:
		return 0
	}
}

// Empty tells whether the document is null or holds no entries.
func (d Document) Empty() bool {
	switch d.Kind() {
	case Null:
		return true
	case Object, Array:
		return d.Len() == 0
	default:
		return false
	}
}

// Keys returns sorted keys of an object.
func (d Document) Keys() []string {
	obj, ok := d.value.(map[string]any)
	if !ok {
		return nil
	}

	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}

	sort.Strings(keys)
	return keys
}

// AsString returns the value if the document is a string.
func (d Document) AsString() (string, bool) {
	str, ok := d.value.(string)
	return str, ok
}

// AsNumber returns the value if the document is a number.
func (d Document) AsNumber() (float64, bool) {
	switch v := d.value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

// Value exposes the underlying value.
func (d Document) Value() any {
	return d.value
}

// Equal compares two documents structurally.
func (d Document) Equal(other Document) bool {
	return reflect.DeepEqual(d.value, other.value)
}

// String renders the document as a compact JSON text.
func (d Document) String() string {
	str, err := codec.MarshalToString(d.value)
	if err != nil {
		return "null"
	}

	return str
}

func (d Document) MarshalJSON() ([]byte, error) {
	return codec.Marshal(d.value)
}

func (d *Document) UnmarshalJSON(data []byte) error {
	parsed, err := ParseBytes(data)
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}
