package http

import (
	"errors"
	"os"

	"github.com/corvid-web/corvid/http/mime"
	"github.com/corvid-web/corvid/http/status"
	"github.com/corvid-web/corvid/internal/response"
	"github.com/corvid-web/corvid/kv"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
	json "github.com/json-iterator/go"
)

// NotFoundBody is the fixed payload of every 404 response produced by the server itself.
const NotFoundBody = "<h1>404 NOT FOUND!</h1>"

// why 4? Content-Type and Content-Length are rendered separately, so most responses
// carry just a couple of custom headers, if any.
const preallocRespHeaders = 4

type Response struct {
	fields *response.Fields
}

// NewResponse returns a new instance of the Response object with status code set to 200 OK,
// no body and text/plain content-type.
func NewResponse() *Response {
	return &Response{
		&response.Fields{
			Proto:       response.DefaultProto,
			Code:        status.OK,
			ContentType: response.DefaultContentType,
			Headers:     kv.NewPrealloc(preallocRespHeaders),
		},
	}
}

// Code sets a Response code. Codes outside the supported set are rendered as
// 500 Internal Server Error.
func (r *Response) Code(code status.Code) *Response {
	r.fields.Code = status.Normalize(code)
	return r
}

// Proto overrides the protocol token of the status line.
func (r *Response) Proto(proto string) *Response {
	r.fields.Proto = proto
	return r
}

// ContentType sets a custom Content-Type header value.
func (r *Response) ContentType(value mime.MIME) *Response {
	r.fields.ContentType = value
	return r
}

// SetContentType is an alias to ContentType.
func (r *Response) SetContentType(value mime.MIME) *Response {
	return r.ContentType(value)
}

// Header sets the header value, overriding any previous one. Content-Length can't be set
// manually, as it is always computed from the actual payload.
func (r *Response) Header(key, value string) *Response {
	switch {
	case strcomp.EqualFold(key, "content-type"):
		return r.ContentType(value)
	case strcomp.EqualFold(key, "content-length"):
		return r
	}

	r.fields.Headers.Set(key, value)
	return r
}

// Headers merges passed headers into the Response.
func (r *Response) Headers(headers map[string]string) *Response {
	for k, v := range headers {
		r.Header(k, v)
	}

	return r
}

// String sets the response's body to the passed string
func (r *Response) String(body string) *Response {
	return r.Bytes(uf.S2B(body))
}

// Bytes sets the response's body to passed slice WITHOUT COPYING. Changing
// the passed slice later will affect the response by itself. Nil slice is
// replaced with an empty one, so the response still has a (zero-length) body.
func (r *Response) Bytes(body []byte) *Response {
	if body == nil {
		body = []byte{}
	}

	r.fields.Body = body
	return r
}

// Write implements io.Writer interface. It always returns n=len(b) and err=nil
func (r *Response) Write(b []byte) (n int, err error) {
	if r.fields.Body == nil {
		r.fields.Body = make([]byte, 0, len(b))
	}

	r.fields.Body = append(r.fields.Body, b...)
	return len(b), nil
}

// TryFile reads the whole file into memory and sets it as the body. Content-Type is
// inferred from the file extension. The returned error must be handled by the caller,
// most often by responding with 404.
func (r *Response) TryFile(path string) (*Response, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return r, err
	}

	return r.
		Code(status.OK).
		ContentType(mime.ByFilename(path)).
		Bytes(content), nil
}

// File does the same as TryFile does, except any error results in the 404 response.
func (r *Response) File(path string) *Response {
	resp, err := r.TryFile(path)
	if err != nil {
		return NotFound()
	}

	return resp
}

// TryJSON receives a model and renders it as the body with application/json content type.
func (r *Response) TryJSON(model any) (*Response, error) {
	// the previous body may point into a string, so it must never be written over
	r.fields.Body = nil
	stream := json.ConfigDefault.BorrowStream(r)
	stream.WriteVal(model)
	err := stream.Flush()
	json.ConfigDefault.ReturnStream(stream)

	return r.ContentType(mime.JSON), err
}

// JSON does the same as TryJSON does, except returned error is being implicitly wrapped
// by Error
func (r *Response) JSON(model any) *Response {
	resp, err := r.TryJSON(model)
	if err != nil {
		return r.Error(err)
	}

	return resp
}

// Error returns a response builder with an error set. If passed err is nil, nothing will happen.
// If an instance of status.HTTPError is passed, its code is used, os.ErrNotExist results in
// 404 Not Found. Otherwise, the code is 500 Internal Server Error
func (r *Response) Error(err error) *Response {
	if err == nil {
		return r
	}

	var httpErr status.HTTPError
	switch {
	case errors.As(err, &httpErr):
		if httpErr.Code == status.NotFound {
			return NotFound()
		}

		return r.Code(httpErr.Code).String(httpErr.Message)
	case errors.Is(err, os.ErrNotExist):
		return NotFound()
	default:
		return r.
			Code(status.InternalServerError).
			String(err.Error())
	}
}

// Reveal returns a struct with values, filled by builder. Used mostly in internal purposes
func (r *Response) Reveal() *response.Fields {
	return r.fields
}

// Clear discards everything was done with Response object before
func (r *Response) Clear() *Response {
	r.fields.Clear()
	return r
}

// SuccessBuilder produces 200 OK responses.
type SuccessBuilder struct{}

// Success returns a builder of successful responses.
func Success() SuccessBuilder {
	return SuccessBuilder{}
}

// File reads the file fully and responds with it. The error is returned if the file
// can't be read, so the caller decides what to answer (usually NotFound).
func (SuccessBuilder) File(path string) (*Response, error) {
	return NewResponse().TryFile(path)
}

// String responds with the text as text/plain. The content type can be changed
// afterwards via SetContentType.
func (SuccessBuilder) String(body string) *Response {
	return NewResponse().String(body)
}

// ClientErrorBuilder produces 4xx responses.
type ClientErrorBuilder struct{}

// ClientError returns a builder of client error responses.
func ClientError() ClientErrorBuilder {
	return ClientErrorBuilder{}
}

// NotFound returns the fixed HTML 404 response.
func (ClientErrorBuilder) NotFound() *Response {
	return NewResponse().
		Code(status.NotFound).
		ContentType(mime.HTML).
		String(NotFoundBody)
}

// BadRequest returns a 400 response with the reason as a text/plain body.
func (ClientErrorBuilder) BadRequest(reason string) *Response {
	return NewResponse().
		Code(status.BadRequest).
		String(reason)
}

// NotFound is a shortcut for ClientError().NotFound()
func NotFound() *Response {
	return ClientError().NotFound()
}

// BadRequest is a shortcut for ClientError().BadRequest(...)
func BadRequest(reason string) *Response {
	return ClientError().BadRequest(reason)
}

// Redirect returns a 302 Found (or 301 Moved Permanently, if permanent is set) response
// pointing to the target. Redirects carry no body.
func Redirect(target string, permanent bool) *Response {
	code := status.Found
	if permanent {
		code = status.MovedPermanently
	}

	return NewResponse().
		Code(code).
		Header("Location", target)
}

// InternalError returns a bare 500 response.
func InternalError() *Response {
	return NewResponse().
		Code(status.InternalServerError).
		String(string(status.Text(status.InternalServerError)))
}

// Unavailable returns a bare 503 response.
func Unavailable() *Response {
	return NewResponse().
		Code(status.ServiceUnavailable).
		String(string(status.Text(status.ServiceUnavailable)))
}

// Respond is a dummy handler answering with an empty 200 OK.
func Respond(*Request) *Response {
	return NewResponse()
}

// String is a predicate to NewResponse().String(...)
func String(_ *Request, str string) *Response {
	return NewResponse().String(str)
}

// File is a predicate to NewResponse().File(...)
func File(_ *Request, path string) *Response {
	return NewResponse().File(path)
}

// JSON is a predicate to NewResponse().JSON(...)
func JSON(_ *Request, model any) *Response {
	return NewResponse().JSON(model)
}

// Error is a predicate to NewResponse().Error(...)
func Error(_ *Request, err error) *Response {
	return NewResponse().Error(err)
}
