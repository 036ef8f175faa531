package response

import (
	"github.com/corvid-web/corvid/http/mime"
	"github.com/corvid-web/corvid/http/status"
	"github.com/corvid-web/corvid/kv"
)

const (
	DefaultProto       = "HTTP/1.1"
	DefaultContentType = mime.Plain
)

// Fields is everything a response builder collects. Body is nil when the response has
// no payload at all, which differs from an empty payload: only the latter carries
// Content-Type and Content-Length headers.
type Fields struct {
	Proto       string
	Code        status.Code
	ContentType string
	Headers     *kv.Storage
	Body        []byte
}

func (f *Fields) Clear() {
	f.Proto = DefaultProto
	f.Code = status.OK
	f.ContentType = DefaultContentType
	f.Headers.Clear()
	f.Body = nil
}
