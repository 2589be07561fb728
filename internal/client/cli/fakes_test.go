package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/dmitrijs2005/gophident/internal/client/client"
	"github.com/dmitrijs2005/gophident/internal/client/config"
)

type fakeClient struct {
	token string
	user  client.User

	pingErr     error
	registerErr error
	loginErr    error
	meErr       error
	changeErr   error

	gotReg      client.Registration
	gotEmail    string
	gotPassword string
	gotCurrent  string
	gotNew      string
	gotFirst    string
	gotLast     *string
	calls       []string
}

func (f *fakeClient) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeClient) Register(ctx context.Context, reg client.Registration) (*client.User, error) {
	f.calls = append(f.calls, "register")
	f.gotReg = reg
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	f.token = "tok"
	u := client.User{ID: 1, Activate: true, FirstName: reg.FirstName, LastName: reg.LastName, Email: reg.Email}
	f.user = u
	return &u, nil
}

func (f *fakeClient) Login(ctx context.Context, email, password string) error {
	f.calls = append(f.calls, "login")
	f.gotEmail, f.gotPassword = email, password
	if f.loginErr != nil {
		return f.loginErr
	}
	f.token = "tok"
	return nil
}

func (f *fakeClient) Logout()        { f.token = "" }
func (f *fakeClient) LoggedIn() bool { return f.token != "" }

func (f *fakeClient) Me(ctx context.Context) (*client.User, error) {
	f.calls = append(f.calls, "me")
	if f.meErr != nil {
		return nil, f.meErr
	}
	u := f.user
	return &u, nil
}

func (f *fakeClient) ChangePassword(ctx context.Context, current, next string) (*client.User, error) {
	f.calls = append(f.calls, "passwd")
	f.gotCurrent, f.gotNew = current, next
	if f.changeErr != nil {
		return nil, f.changeErr
	}
	u := f.user
	return &u, nil
}

func (f *fakeClient) ChangeFirstName(ctx context.Context, name string) (*client.User, error) {
	f.calls = append(f.calls, "firstname")
	f.gotFirst = name
	if f.changeErr != nil {
		return nil, f.changeErr
	}
	f.user.FirstName = name
	u := f.user
	return &u, nil
}

func (f *fakeClient) ChangeLastName(ctx context.Context, name *string) (*client.User, error) {
	f.calls = append(f.calls, "lastname")
	f.gotLast = name
	if f.changeErr != nil {
		return nil, f.changeErr
	}
	f.user.LastName = name
	u := f.user
	return &u, nil
}

// newTestApp returns an App reading lines from input. Passwords are served
// from passwords in order.
func newTestApp(t *testing.T, fc *fakeClient, input string, passwords ...string) (*App, *bytes.Buffer) {
	t.Helper()

	queue := append([]string(nil), passwords...)
	orig := readPassword
	readPassword = func(int) ([]byte, error) {
		if len(queue) == 0 {
			t.Fatal("unexpected password prompt")
		}
		pw := queue[0]
		queue = queue[1:]
		return []byte(pw), nil
	}
	t.Cleanup(func() { readPassword = orig })

	var out bytes.Buffer
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return &App{config: cfg, client: fc, reader: rdr(input), out: &out}, &out
}
