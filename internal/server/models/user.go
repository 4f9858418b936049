package models

import "time"

// User is an account record. PasswordHash holds the bcrypt hash and must
// never leave the server.
type User struct {
	ID           int64
	Email        string
	UserName     string
	PasswordHash string
	Admin        bool
	FirstName    string
	LastName     string
	DateOfBirth  string
	CreatedAt    time.Time
}

// Profile is the client-visible subset of a User.
type Profile struct {
	Email       string `json:"email"`
	UserName    string `json:"username"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth"`
}

// UserAttribute names a profile field that /update-user may change. It is a
// closed set: each value maps to a fixed UPDATE statement, so a
// client-supplied attribute name is never spliced into SQL.
type UserAttribute string

const (
	AttrUserName    UserAttribute = "username"
	AttrFirstName   UserAttribute = "firstName"
	AttrLastName    UserAttribute = "lastName"
	AttrDateOfBirth UserAttribute = "dateOfBirth"
)

// ParseUserAttribute validates a client-supplied attribute name.
func ParseUserAttribute(s string) (UserAttribute, bool) {
	switch UserAttribute(s) {
	case AttrUserName, AttrFirstName, AttrLastName, AttrDateOfBirth:
		return UserAttribute(s), true
	}
	return "", false
}
