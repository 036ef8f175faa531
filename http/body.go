package http

import (
	"github.com/corvid-web/corvid/http/document"
	"github.com/corvid-web/corvid/http/mime"
	"github.com/indigo-web/utils/uf"
)

// Body is the request payload, decoded according to its Content-Type.
type Body struct {
	// Doc is the decoded payload. Form bodies and JSON bodies are both represented as
	// documents; anything else results in an empty object.
	Doc document.Document
	// ContentType is the raw Content-Type header value, if any.
	ContentType string
	// Raw holds exactly Content-Length bytes of the payload.
	Raw []byte
}

func NewBody() Body {
	return Body{Doc: document.New()}
}

// String returns the raw payload.
func (b Body) String() string {
	return uf.B2S(b.Raw)
}

// IsJSON tells whether the body was declared as application/json.
func (b Body) IsJSON() bool {
	return mime.Complies(mime.JSON, b.ContentType)
}
