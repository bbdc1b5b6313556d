package inbuilt

import (
	"fmt"
	"net/url"

	"github.com/indigo-web/tinyhttp/accounts"
	"github.com/indigo-web/tinyhttp/http"
	"github.com/indigo-web/tinyhttp/http/encoding"
	"github.com/indigo-web/tinyhttp/http/headers"
	"github.com/indigo-web/tinyhttp/http/method"
	"github.com/indigo-web/tinyhttp/http/status"
)

type registered struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

type loggedIn struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
	Expires   string `json:"expires"`
}

// Accounts routes /register and /login to the store. Both expect a POST request with
// username and password passed as a form body.
func (r *Router) Accounts(store accounts.Store) *Router {
	return r.
		Route("/register", Register(store)).
		Route("/login", Login(store))
}

func Register(store accounts.Store) Handler {
	return func(request *http.Request) (*http.Response, error) {
		username, password, err := credentials(request)
		if err != nil {
			return nil, err
		}

		if err = store.Register(username, password); err != nil {
			return nil, err
		}

		return http.NewResponseBuilder().
			JSON(registered{
				Message:  "user registered",
				Username: username,
			}).
			Build()
	}
}

func Login(store accounts.Store) Handler {
	return func(request *http.Request) (*http.Response, error) {
		username, password, err := credentials(request)
		if err != nil {
			return nil, err
		}

		session, err := store.Login(username, password)
		if err != nil {
			return nil, err
		}

		return http.NewResponseBuilder().
			JSON(loggedIn{
				Message:   "logged in",
				SessionID: session.ID,
				Expires:   headers.FormatDate(session.Expires),
			}).
			Build()
	}
}

// credentials extracts the username and the password out of the url-encoded form.
func credentials(request *http.Request) (username, password string, err error) {
	if request.Method() != method.POST {
		return "", "", fmt.Errorf("%w: %s", status.ErrMethodNotAllowed, request.Method())
	}

	form, err := url.ParseQuery(encoding.DecodeText(request.Body()))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", status.ErrBadRequest, err)
	}

	return form.Get("username"), form.Get("password"), nil
}
