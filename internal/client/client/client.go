package client

import "context"

// User is the public profile returned by the server.
type User struct {
	ID        int64   `json:"id"`
	Activate  bool    `json:"activate"`
	FirstName string  `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     string  `json:"email"`
}

// Registration holds the fields of a new account. A nil LastName is omitted.
type Registration struct {
	FirstName string
	LastName  *string
	Email     string
	Password  string
}

type Client interface {
	Ping(ctx context.Context) error
	Register(ctx context.Context, reg Registration) (*User, error)
	Login(ctx context.Context, email, password string) error
	Logout()
	LoggedIn() bool
	Me(ctx context.Context) (*User, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) (*User, error)
	ChangeFirstName(ctx context.Context, firstName string) (*User, error)
	ChangeLastName(ctx context.Context, lastName *string) (*User, error)
}
