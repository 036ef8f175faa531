package status

import "strconv"

type (
	Code   uint16
	Status string
)

// The server speaks a deliberately small set of codes. Anything outside of it is
// rendered as InternalServerError.
const (
	OK                  Code = 200 // RFC 9110, 15.3.1
	MovedPermanently    Code = 301 // RFC 9110, 15.4.2
	Found               Code = 302 // RFC 9110, 15.4.3
	BadRequest          Code = 400 // RFC 9110, 15.5.1
	Unauthorized        Code = 401 // RFC 9110, 15.5.2
	Forbidden           Code = 403 // RFC 9110, 15.5.4
	NotFound            Code = 404 // RFC 9110, 15.5.5
	InternalServerError Code = 500 // RFC 9110, 15.6.1
	ServiceUnavailable  Code = 503 // RFC 9110, 15.6.4
)

// List contains every supported code in ascending order.
var List = []Code{
	OK, MovedPermanently, Found, BadRequest, Unauthorized, Forbidden, NotFound,
	InternalServerError, ServiceUnavailable,
}

// Text returns the reason phrase for the code. Unknown codes are reported as
// "Internal Server Error", matching Normalize.
func Text(code Code) Status {
	switch code {
	case OK:
		return "OK"
	case MovedPermanently:
		return "Moved Permanently"
	case Found:
		return "Found"
	case BadRequest:
		return "Bad Request"
	case Unauthorized:
		return "Unauthorized"
	case Forbidden:
		return "Forbidden"
	case NotFound:
		return "Not Found"
	case ServiceUnavailable:
		return "Service Unavailable"
	default:
		return "Internal Server Error"
	}
}

// Known reports whether the code belongs to the supported set.
func Known(code Code) bool {
	for _, c := range List {
		if c == code {
			return true
		}
	}

	return false
}

// Normalize maps every unsupported code to InternalServerError.
func Normalize(code Code) Code {
	if Known(code) {
		return code
	}

	return InternalServerError
}

// Parse reads a status code from the beginning of the text, e.g. "404 Not Found" or
// just "404". Unparsable or unsupported codes result in InternalServerError.
func Parse(text string) Code {
	end := 0
	for end < len(text) && text[end] >= '0' && text[end] <= '9' {
		end++
	}

	code, err := strconv.ParseUint(text[:end], 10, 16)
	if err != nil {
		return InternalServerError
	}

	return Normalize(Code(code))
}
