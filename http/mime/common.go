package mime

import (
	"github.com/corvid-web/corvid/internal/strutil"
)

type MIME = string

const (
	Plain          MIME = "text/plain"
	HTML           MIME = "text/html"
	CSS            MIME = "text/css"
	JS             MIME = "text/javascript"
	JSON           MIME = "application/json"
	FormUrlencoded MIME = "application/x-www-form-urlencoded"
	JPEG           MIME = "image/jpeg"
	PNG            MIME = "image/png"
	ICO            MIME = "image/x-icon"
	SVG            MIME = "image/svg+xml"
)

// Complies returns whether two MIMEs are compatible. Parameters (everything after the
// first semicolon) are ignored.
func Complies(mime MIME, with string) bool {
	with, _ = strutil.CutHeader(with)
	return strutil.RStripWS(with) == mime
}

// Strip returns the MIME without parameters, e.g. "application/json; charset=utf8"
// becomes "application/json".
func Strip(value string) MIME {
	value, _ = strutil.CutHeader(value)
	return strutil.RStripWS(strutil.LStripWS(value))
}
