package client

import "errors"

var (
	ErrUnavailable = errors.New("server unavailable")
)

// remoteError keeps the server's message while matching a local sentinel
// with errors.Is.
type remoteError struct {
	msg  string
	kind error
}

func (e *remoteError) Error() string { return e.msg }
func (e *remoteError) Unwrap() error { return e.kind }
