package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophident/internal/client/client"
	"github.com/dmitrijs2005/gophident/internal/common"
)

// getSimpleText, getOptionalText and getPassword are indirections used to
// facilitate testing.
var errPasswordMismatch = errors.New("passwords do not match")

var (
	getSimpleText   = GetSimpleText
	getOptionalText = GetOptionalText
	getPassword     = GetPassword
)

// Register asks for the profile fields and a password (twice) and creates
// the account. The server answers with a token, so the user ends up logged in.
func (a *App) Register(ctx context.Context) error {
	firstName, err := getSimpleText(a.reader, "Enter first name", a.out)
	if err != nil {
		return err
	}
	lastName, err := getOptionalText(a.reader, "Enter last name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := a.newPassword("Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.client.Register(ctx, client.Registration{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  string(password),
	})
	if err != nil {
		a.report(err)
		return err
	}

	a.email = u.Email
	fmt.Fprintln(a.out, "Success!")
	return nil
}

// newPassword reads a password and its confirmation.
func (a *App) newPassword(prompt string) ([]byte, error) {
	password, err := getPassword(prompt, a.out)
	if err != nil {
		return nil, err
	}
	confirm, err := getPassword("Repeat password", a.out)
	if err != nil {
		common.WipeByteArray(password)
		return nil, err
	}
	defer common.WipeByteArray(confirm)

	if string(password) != string(confirm) {
		common.WipeByteArray(password)
		fmt.Fprintln(a.out, "Passwords do not match")
		return nil, errPasswordMismatch
	}
	return password, nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.client.Login(ctx, email, string(password)); err != nil {
		a.report(err)
		return err
	}

	a.email = email
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout drops the access token. There is no server-side session to end.
func (a *App) Logout(ctx context.Context) error {
	a.client.Logout()
	a.email = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
