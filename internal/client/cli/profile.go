package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophident/internal/client/client"
	"github.com/dmitrijs2005/gophident/internal/common"
)

func (a *App) printUser(u *client.User) {
	last := "-"
	if u.LastName != nil {
		last = *u.LastName
	}
	fmt.Fprintf(a.out, "ID:         %d\n", u.ID)
	fmt.Fprintf(a.out, "Email:      %s\n", u.Email)
	fmt.Fprintf(a.out, "First name: %s\n", u.FirstName)
	fmt.Fprintf(a.out, "Last name:  %s\n", last)
	fmt.Fprintf(a.out, "Active:     %t\n", u.Activate)
}

func (a *App) Me(ctx context.Context) error {
	u, err := a.client.Me(ctx)
	if err != nil {
		a.report(err)
		return err
	}
	a.printUser(u)
	return nil
}

func (a *App) ChangePassword(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.report(client.ErrNotLoggedIn)
		return client.ErrNotLoggedIn
	}

	current, err := getPassword("Enter current password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)

	next, err := a.newPassword("Enter new password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(next)

	if _, err := a.client.ChangePassword(ctx, string(current), string(next)); err != nil {
		a.report(err)
		return err
	}
	fmt.Fprintln(a.out, "Password changed")
	return nil
}

func (a *App) ChangeFirstName(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter new first name", a.out)
	if err != nil {
		return err
	}

	u, err := a.client.ChangeFirstName(ctx, name)
	if err != nil {
		a.report(err)
		return err
	}
	a.printUser(u)
	return nil
}

// ChangeLastName clears the last name on an empty answer.
func (a *App) ChangeLastName(ctx context.Context) error {
	name, err := getOptionalText(a.reader, "Enter new last name", a.out)
	if err != nil {
		return err
	}

	u, err := a.client.ChangeLastName(ctx, name)
	if err != nil {
		a.report(err)
		return err
	}
	a.printUser(u)
	return nil
}
