package status

type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

var (
	ErrBadRequest          = NewError(BadRequest, "bad request")
	ErrBadQuery            = NewError(BadRequest, "malformed query key-value pair")
	ErrBadBody             = NewError(BadRequest, "malformed form body key-value pair")
	ErrURLDecoding         = NewError(BadRequest, "invalid urlencoded sequence")
	ErrUnauthorized        = NewError(Unauthorized, "unauthorized")
	ErrForbidden           = NewError(Forbidden, "forbidden")
	ErrNotFound            = NewError(NotFound, "not found")
	ErrInternalServerError = NewError(InternalServerError, "internal server error")
	ErrServiceUnavailable  = NewError(ServiceUnavailable, "service unavailable")
)
