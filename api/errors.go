package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrConnect marks calls that never got a response from the service.
var ErrConnect = errors.New("could not connect to the download service")

// StatusError is returned for every non-2xx answer. Error bodies are not parsed.
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, http.StatusText(e.Code))
}

// Message converts err into the short text shown to the user.
// Connectivity problems get their own message, everything else becomes fallback.
func Message(err error, fallback string) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConnect):
		return "Could not connect to the download service"
	default:
		return fallback
	}
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
