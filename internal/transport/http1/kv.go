package http1

import (
	"strings"

	"github.com/corvid-web/corvid/http/document"
	"github.com/corvid-web/corvid/http/status"
	"github.com/corvid-web/corvid/internal/strutil"
)

// parseKV parses the flat urlencoded form, k1=v1&k2=v2, into an object document. Empty
// segments are skipped. A segment without the equality sign or with an empty key results
// in the malformed error, broken percent-encoding in status.ErrURLDecoding. Repeated keys
// override previous values.
func parseKV(data string, malformed error) (document.Document, error) {
	doc := document.New()

	for len(data) > 0 {
		var pair string
		pair, data, _ = strings.Cut(data, "&")
		if len(pair) == 0 {
			continue
		}

		key, value, found := strings.Cut(pair, "=")
		if !found || len(key) == 0 {
			return document.Document{}, malformed
		}

		key, ok := strutil.URLDecode(key)
		if !ok {
			return document.Document{}, status.ErrURLDecoding
		}

		value, ok = strutil.URLDecode(value)
		if !ok {
			return document.Document{}, status.ErrURLDecoding
		}

		doc.Set(key, value)
	}

	return doc, nil
}
