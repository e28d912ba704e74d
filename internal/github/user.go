package github

import (
	"context"
	"fmt"
)

// User wraps a remote user id together with an authenticated API client
type User struct {
	id    int64
	api   APIClient
	login string
}

// NewUser creates a user wrapper
func NewUser(id int64, api APIClient) *User {
	return &User{id: id, api: api}
}

// ID returns the remote user id
func (u *User) ID() int64 {
	return u.id
}

// Login resolves and returns the user's login
func (u *User) Login(ctx context.Context) (string, error) {
	if u.login != "" {
		return u.login, nil
	}
	user, err := u.api.GetUser(ctx, u.id)
	if err != nil {
		return "", err
	}
	u.login = user.Login
	return u.login, nil
}

// Field returns a read-only attribute of the remote user representation by
// name
func (u *User) Field(ctx context.Context, name string) (interface{}, error) {
	return fetchField(ctx, u.api, fmt.Sprintf("user/%d", u.id), name)
}

// HasField reports whether the named attribute exists on the remote user
// representation
func (u *User) HasField(ctx context.Context, name string) (bool, error) {
	return probeField(ctx, u.api, fmt.Sprintf("user/%d", u.id), name)
}
