package models

import (
	"fmt"

	"github.com/dmitrijs2005/bookworm/internal/common"
)

// ListKind selects one of the three saved-book lists. The wire values match
// the table names the original clients send, but the SQL table name is
// always taken from the fixed tableNames map, never from client input.
type ListKind string

const (
	ListFavorites ListKind = "favorite"
	ListWishlist  ListKind = "wishlist"
	ListFinished  ListKind = "finished_reading"
)

var tableNames = map[ListKind]string{
	ListFavorites: "favorite",
	ListWishlist:  "wishlist",
	ListFinished:  "finished_reading",
}

// ParseListKind validates a client-supplied list selector against the closed
// enumeration. Anything outside the three known kinds is rejected.
func ParseListKind(s string) (ListKind, error) {
	k := ListKind(s)
	if _, ok := tableNames[k]; !ok {
		return "", fmt.Errorf("%w: %q", common.ErrInvalidListKind, s)
	}
	return k, nil
}

// Table returns the trusted table name for the kind. It panics on a zero or
// unknown kind, which can only happen if ParseListKind was bypassed.
func (k ListKind) Table() string {
	t, ok := tableNames[k]
	if !ok {
		panic(fmt.Sprintf("unknown list kind %q", string(k)))
	}
	return t
}
