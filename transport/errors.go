package transport

import (
	"github.com/pkg/errors"
)

var (
	// ErrConnectFailure is returned when the connection couldn't be established: refused,
	// timed out or the host couldn't be resolved.
	ErrConnectFailure = errors.New("failed to connect")
	// ErrBindFailure is returned when the listening socket couldn't be created.
	ErrBindFailure = errors.New("failed to bind")
	// ErrNotReady is returned by operations requiring an open connection.
	ErrNotReady = errors.New("connection isn't open")
	// ErrHeadTooLarge is returned when no empty line was met within the head size limit.
	ErrHeadTooLarge = errors.New("message head is too large")
	// ErrBodyTooLarge is returned when the declared Content-Length exceeds the body size limit.
	ErrBodyTooLarge = errors.New("message body is too large")
)

// IsFraming reports whether the error is caused by a message which couldn't be framed. The
// connection stays open in this case, so the peer can be notified.
func IsFraming(err error) bool {
	return errors.Is(err, ErrHeadTooLarge) || errors.Is(err, ErrBodyTooLarge)
}
