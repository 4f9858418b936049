package models

import "time"

// RefreshToken is a server-stored credential that can be exchanged for a new
// access token until it expires or is revoked.
type RefreshToken struct {
	UserID  int64
	Token   string
	Expires time.Time
}
