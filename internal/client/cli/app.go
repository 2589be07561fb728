package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dmitrijs2005/gophident/internal/client/client"
	"github.com/dmitrijs2005/gophident/internal/client/config"
)

type App struct {
	config *config.Config
	client client.Client
	reader *bufio.Reader
	out    io.Writer
	email  string
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	if err != nil {
		return nil, err
	}
	return &App{config: c, client: apiClient, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to gophident CLI (type 'help' for commands)")

	if err := a.client.Ping(ctx); err != nil {
		log.Printf("Server %s is not reachable: %v", a.config.ServerURL, err)
	}

	runREPL(ctx, a, a.status, a.reader, a.out)
}

func (a *App) isLoggedIn() bool {
	return a.client.LoggedIn()
}

func (a *App) status() string {
	if a.email == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.email)
}

// report prints a command failure in user terms. A rejected token ends the
// local session.
func (a *App) report(err error) {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrNotLoggedIn):
		fmt.Fprintln(a.out, "Please login first")
	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintln(a.out, "Server unavailable, try again later")
	case errors.Is(err, client.ErrUnauthorized) && a.isLoggedIn():
		a.client.Logout()
		a.email = ""
		fmt.Fprintln(a.out, "Session expired, please login again")
	case errors.As(err, &apiErr):
		fmt.Fprintln(a.out, "Error:", apiErr.Error())
	default:
		fmt.Fprintln(a.out, "Error:", err.Error())
	}
}
