// Package cli provides the interactive gophident command-line client.
//
// It wires configuration and the HTTP API client into a REPL that covers the
// account lifecycle: register, login, show the profile, change the password
// and names, logout. Passwords are read from the terminal without echo.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
