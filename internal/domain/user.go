// Package domain contains the core types shared across the application.
package domain

// User is one entry in the users file.
//
// Password holds either a bcrypt hash or, for legacy fixture files, the
// plaintext value. Verification lives in the service package; the rest of
// the application only ever sees Profile.
type User struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// Profile is the client-visible projection of a User.
type Profile struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

// Profile returns the client-visible view of the user.
func (u User) Profile() Profile {
	return Profile{
		Username: u.Username,
		FullName: u.FullName,
	}
}
