package router

import (
	"fmt"

	"github.com/corvid-web/corvid/http"
	"github.com/corvid-web/corvid/http/method"
)

// Redirect registers a route on origin that redirects to the target. The redirect is
// permanent (301) or temporary (302). Existing routes are never overridden this way.
func (t *Table) Redirect(m method.Method, origin, target string, permanent bool) error {
	origin = normalizePath(origin)

	handler := HandlerFunc(func(*http.Request) *http.Response {
		return http.Redirect(target, permanent)
	})

	if !t.add(m, origin, handler, false) {
		t.logger.Error("origin is already in route table", "method", m.String(), "origin", origin)
		return fmt.Errorf("%w: %s %s", ErrRouteExists, m, origin)
	}

	return nil
}
