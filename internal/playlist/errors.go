package playlist

import "net/http"

// opError carries the HTTP status a rejected operation maps to, plus an
// optional detail string for the {error, message} response shape.
type opError struct {
	status int
	msg    string
	detail string
}

func (e *opError) Error() string {
	return e.msg
}

func errNotFound(msg, detail string) *opError {
	return &opError{status: http.StatusNotFound, msg: msg, detail: detail}
}

func errBadRequest(msg string) *opError {
	return &opError{status: http.StatusBadRequest, msg: msg}
}

func errConflict(msg string) *opError {
	return &opError{status: http.StatusConflict, msg: msg}
}

func errForbidden(msg string) *opError {
	return &opError{status: http.StatusForbidden, msg: msg}
}
