package cli

import (
	"context"
	"errors"
)

const resetConfirmationWord = "DELETE"

var ErrResetAborted = errors.New("reset aborted")

// RunReset wipes every log, cycle and symptom link and removes the password.
// Unless assumeYes is set the user has to type the confirmation word.
func (app *App) RunReset(ctx context.Context, assumeYes bool) error {
	if !assumeYes {
		app.console.Println("This permanently deletes all logs, cycles and the password.")
		answer, err := app.console.Ask("Type " + resetConfirmationWord + " to continue")
		if err != nil {
			return err
		}
		if answer != resetConfirmationWord {
			app.console.Println("Reset cancelled.")
			return ErrResetAborted
		}
	}

	if err := app.reset.FactoryReset(ctx); err != nil {
		app.reportError(err)
		return err
	}
	app.token = ""
	app.console.Println("All data deleted. Run `lunalog setup` to choose a new password.")
	return nil
}
