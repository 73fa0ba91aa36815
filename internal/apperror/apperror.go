// server/internal/apperror/apperror.go
package apperror

import "fmt"

// Error is an application error carrying the HTTP status the client
// should see. Handlers attach it to the gin context and the error
// middleware formats the final response.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

func New(statusCode int, format string, args ...interface{}) *Error {
	return &Error{StatusCode: statusCode, Message: fmt.Sprintf(format, args...)}
}

func BadRequest(format string, args ...interface{}) *Error {
	return New(400, format, args...)
}

func Unauthorized(format string, args ...interface{}) *Error {
	return New(401, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return New(403, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return New(404, format, args...)
}

func ServerError(format string, args ...interface{}) *Error {
	return New(500, format, args...)
}
