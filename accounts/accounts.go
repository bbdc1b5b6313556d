// Package accounts is a minimal credentials store backing the registration and login
// endpoints. The server treats it as an opaque collaborator: any Store implementation
// will do.
package accounts

import (
	"fmt"
	"time"

	"github.com/indigo-web/tinyhttp/http/status"
)

var (
	ErrMissingField   = fmt.Errorf("%w: username and password are required", status.ErrBadRequest)
	ErrUserExists     = fmt.Errorf("%w: user already exists", status.ErrConflict)
	ErrBadCredentials = fmt.Errorf("%w: invalid username or password", status.ErrUnauthorized)
)

// Session is issued on successful login.
type Session struct {
	ID       string
	Username string
	Expires  time.Time
}

type Store interface {
	// Register creates a new user. ErrUserExists is returned if the name is taken.
	Register(username, password string) error
	// Login checks the credentials and opens a new session.
	Login(username, password string) (Session, error)
	// Lookup returns an active session by its ID.
	Lookup(id string) (Session, bool)
}
