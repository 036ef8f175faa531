package http1

import (
	"io"
	"strconv"

	"github.com/corvid-web/corvid/http"
	"github.com/corvid-web/corvid/http/status"
	"github.com/corvid-web/corvid/internal/response"
)

const (
	contentTypePrefix   = "Content-Type: "
	contentLengthPrefix = "Content-Length: "
)

// Serializer renders responses into their wire form. The internal buffer is reused
// between calls, so a Serializer must not be shared between goroutines.
type Serializer struct {
	buff []byte
}

func NewSerializer(buff []byte) *Serializer {
	return &Serializer{
		buff: buff[:0],
	}
}

// Serialize renders the response. The returned slice is valid until the next call.
func (s *Serializer) Serialize(resp *http.Response) []byte {
	s.buff = s.buff[:0]
	fields := resp.Reveal()

	s.renderResponseLine(fields)
	s.renderHeaders(fields)
	s.crlf()
	s.buff = append(s.buff, fields.Body...)

	return s.buff
}

// Write serializes the response and writes it at once.
func (s *Serializer) Write(resp *http.Response, w io.Writer) error {
	_, err := w.Write(s.Serialize(resp))
	return err
}

func (s *Serializer) renderResponseLine(fields *response.Fields) {
	proto := fields.Proto
	if len(proto) == 0 {
		proto = response.DefaultProto
	}

	code := status.Normalize(fields.Code)
	s.buff = append(s.buff, proto...)
	s.sp()
	s.buff = strconv.AppendUint(s.buff, uint64(code), 10)
	s.sp()
	s.buff = append(s.buff, status.Text(code)...)
	s.crlf()
}

func (s *Serializer) renderHeaders(fields *response.Fields) {
	for _, header := range fields.Headers.Expose() {
		s.renderHeader(header.Key, header.Value)
	}

	if fields.Body == nil {
		return
	}

	s.buff = append(s.buff, contentTypePrefix...)
	s.buff = append(s.buff, fields.ContentType...)
	s.crlf()
	s.buff = append(s.buff, contentLengthPrefix...)
	s.buff = strconv.AppendInt(s.buff, int64(len(fields.Body)), 10)
	s.crlf()
}

func (s *Serializer) renderHeader(key, value string) {
	s.buff = append(s.buff, key...)
	s.colonsp()
	s.buff = append(s.buff, value...)
	s.crlf()
}

func (s *Serializer) sp() {
	s.buff = append(s.buff, ' ')
}

func (s *Serializer) colonsp() {
	s.buff = append(s.buff, ':', ' ')
}

func (s *Serializer) crlf() {
	s.buff = append(s.buff, '\r', '\n')
}
