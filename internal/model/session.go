package model

// User is the profile projection kept alongside the token.
type User struct {
	ID    int64  `json:"id,omitempty"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"` // set by the profile editor, may be empty
}

// FirstName returns the first word of the user's name, or the email when
// no name is known (OAuth callbacks may omit it).
func (u User) FirstName() string {
	for i, r := range u.Name {
		if r == ' ' {
			return u.Name[:i]
		}
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Session represents the authenticated identity held by the client.
type Session struct {
	Token string
	User  User
}

// LoginResponse mirrors the body of POST /auth/login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ProfileUpdate is both the request and the echoed response of PUT /profile/update.
type ProfileUpdate struct {
	Name string `json:"name"`
	Role string `json:"role"`
}
