package cli

import (
	"context"
	"errors"
)

var (
	ErrAlreadySetUp     = errors.New("a password is already set up")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// RunSetup creates the first-run password. There is no change-password
// path; a set-up store can only be cleared with RunReset.
func (app *App) RunSetup(ctx context.Context) error {
	if app.credentials.IsAppInitialized(ctx) {
		app.console.Println("A password is already set up. Use `lunalog reset` to start over.")
		return ErrAlreadySetUp
	}

	password, err := app.console.AskPassword("Choose a password (at least 4 characters)")
	if err != nil {
		return err
	}
	confirmation, err := app.console.AskPassword("Repeat the password")
	if err != nil {
		return err
	}
	if password != confirmation {
		app.console.Println("Passwords do not match.")
		return ErrPasswordMismatch
	}

	if err := app.credentials.SetupPassword(ctx, password); err != nil {
		app.reportError(err)
		return err
	}
	app.console.Println("Password saved. Run `lunalog shell` to start logging.")
	return nil
}
