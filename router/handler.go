package router

import "github.com/corvid-web/corvid/http"

// Handler serves a single request. Handlers are invoked concurrently from different
// workers, so they must be safe to call simultaneously.
type Handler interface {
	Serve(request *http.Request) *http.Response
}

// HandlerFunc adapts an ordinary function (or a closure) into the Handler.
type HandlerFunc func(request *http.Request) *http.Response

func (h HandlerFunc) Serve(request *http.Request) *http.Response {
	return h(request)
}
