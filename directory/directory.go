// Package directory binds the external user directory the sync service
// pulls recipients from. Only the listing contract matters to the rest
// of the system; the LDAP specifics stay behind the Client interface.
package directory

import (
	"context"
)

// User is one directory record. Mail is always present; entries without
// a mail attribute are dropped at the boundary.
type User struct {
	DN        string `json:"dn"`
	CN        string `json:"cn"`
	SN        string `json:"sn"`
	Mail      string `json:"mail"`
	UID       string `json:"uid,omitempty"`
	GivenName string `json:"givenName,omitempty"`
}

// Client is the user-directory capability.
type Client interface {
	// TestConnection verifies the directory is reachable and the
	// service account can bind.
	TestConnection(ctx context.Context) error

	// ListUsers returns every user visible under the configured search
	// base, in directory listing order.
	ListUsers(ctx context.Context) ([]User, error)
}

// FirstName picks the best available given-name attribute, the way the
// sync summary reports it.
func (u User) FirstName() string {
	if u.GivenName != "" {
		return u.GivenName
	}
	if u.CN != "" {
		return u.CN
	}
	return "Unknown"
}

// LastName falls back to "Unknown" when the directory has no surname.
func (u User) LastName() string {
	if u.SN != "" {
		return u.SN
	}
	return "Unknown"
}
