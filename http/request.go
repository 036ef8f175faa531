package http

import (
	"fmt"
	"net"
	"strings"

	"github.com/corvid-web/corvid/http/document"
	"github.com/corvid-web/corvid/http/method"
	"github.com/corvid-web/corvid/kv"
)

type (
	Headers = *kv.Storage
	Header  = kv.Pair
)

// Request represents a parsed HTTP request. It is built once by the parser and must not be
// modified afterwards: handlers receive it read-only.
type Request struct {
	// Method is the parsed request method. Unrecognized tokens are parsed as method.GET,
	// the original token is still available in RawMethod.
	Method method.Method
	// RawMethod is the method token exactly as it was received.
	RawMethod string
	// Path is the request target without the query.
	Path string
	// Query holds flat key-value pairs of the query string as an object document.
	Query document.Document
	// RawQuery is the query as it was received, without the leading question mark.
	RawQuery string
	// Proto is the protocol version token, e.g. "HTTP/1.1".
	Proto string
	// Headers holds a single value per header name. If a name repeats, the last one wins.
	Headers Headers
	// Body is never absent: a request without payload has an empty object document.
	Body Body
	// Remote is the address of the client. May be nil for requests not bound to a connection.
	Remote net.Addr
	// ID identifies the connection the request arrived on.
	ID string
}

// NewRequest returns an empty GET request to the root.
func NewRequest() *Request {
	return &Request{
		Method:    method.GET,
		RawMethod: method.GET.String(),
		Path:      "/",
		Query:     document.New(),
		Proto:     "HTTP/1.1",
		Headers:   kv.New(),
		Body:      NewBody(),
	}
}

// String renders the request in a human-readable multi-line form. Used for debugging.
func (r *Request) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Request Line:\n\t%s %s %s\n\tQuery: %s\n", r.Method, r.Path, r.Proto, r.Query)
	b.WriteString("Headers:\n")
	for key, value := range r.Headers.Pairs() {
		fmt.Fprintf(&b, "\t%s: %s\n", key, value)
	}
	fmt.Fprintf(&b, "Body:\n\t%s", r.Body.Doc)

	return b.String()
}
