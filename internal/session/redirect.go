package session

import (
	"net/url"

	"issuepilot/internal/model"
)

// DefaultAuthError is shown when an OAuth redirect carries no message of its own.
const DefaultAuthError = "Authentication failed"

// FromRedirect builds a session from OAuth callback parameters. It needs both
// token and email; name is optional. When either is missing it returns false
// and the error message to show on the login screen.
func FromRedirect(q url.Values) (model.Session, string, bool) {
	token := q.Get("token")
	email := q.Get("email")
	if token == "" || email == "" {
		msg := q.Get("message")
		if msg == "" {
			msg = DefaultAuthError
		}
		return model.Session{}, msg, false
	}
	return model.Session{
		Token: token,
		User:  model.User{Email: email, Name: q.Get("name")},
	}, "", true
}
