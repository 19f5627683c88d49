package cli

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/terraincognita07/lunalog/internal/services"
	"go.uber.org/zap"
)

const shellHelp = `Commands:
  log DATE FLOW             record a day (flow 1-5), asks for mood and notes
  show DATE                 show one day with its symptoms
  month YYYY-MM             list a month, newest first
  range START END           list days between two dates, newest first
  delete DATE               delete a day and its symptoms
  symptoms                  list the symptom catalog
  tag DATE SYMPTOM [SEV]    add a symptom to a day, optional severity
  untag DATE SYMPTOM        remove a symptom from a day
  pick DATE [SYMPTOM...]    set exactly these symptoms for a day
  cycles                    list inferred cycles
  export csv|html|xlsx      write an export file to the export directory
  wipe                      delete all logs and cycles
  lock                      lock the session
  help                      show this help
  quit                      leave`

// RunShell unlocks the store and runs the command loop until quit or end of
// input.
func (app *App) RunShell(ctx context.Context) error {
	if !app.credentials.IsAppInitialized(ctx) {
		app.console.Println("No password is set up yet. Run `lunalog setup` first.")
		return nil
	}
	if err := app.unlock(ctx); err != nil {
		return err
	}
	app.console.Println("Unlocked. Type `help` for commands.")
	return app.runREPL(ctx)
}

func (app *App) runREPL(ctx context.Context) error {
	for {
		line, err := app.console.ReadCommand("lunalog>")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		command, args := strings.ToLower(fields[0]), fields[1:]

		switch command {
		case "quit", "exit":
			app.console.Println("Bye!")
			return nil
		case "help":
			app.console.Println(shellHelp)
			continue
		}

		if err := app.ensureUnlocked(ctx); err != nil {
			return err
		}
		if err := app.dispatch(ctx, command, args); err != nil {
			app.reportError(err)
		}
	}
}

func (app *App) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "log":
		return app.logDay(args)
	case "show":
		return app.showDay(args)
	case "month":
		return app.listMonth(args)
	case "range":
		return app.listRange(args)
	case "delete":
		return app.deleteDay(args)
	case "symptoms":
		return app.listSymptoms()
	case "tag":
		return app.tagSymptom(args)
	case "untag":
		return app.untagSymptom(args)
	case "pick":
		return app.pickSymptoms(args)
	case "cycles":
		return app.listCycles()
	case "export":
		return app.export(args)
	case "wipe":
		return app.wipe()
	case "lock":
		return app.lock()
	default:
		app.console.Println("Unknown command:", command)
		return nil
	}
}

// reportError shows input problems verbatim and everything else as a
// generic notice; details go to the log.
func (app *App) reportError(err error) {
	var usage usageError
	switch {
	case errors.As(err, &usage):
		app.console.Println("Usage:", usage.usage)
	case errors.Is(err, services.ErrValidation):
		app.console.Println("Invalid input:", strings.TrimPrefix(err.Error(), services.ErrValidation.Error()+": "))
	case errors.Is(err, services.ErrCredentialUnavailable):
		app.console.Println("The system credential store is not available. Please try again.")
	default:
		app.logger.Error("command failed", zap.Error(err))
		app.console.Println("Something went wrong. Please try again.")
	}
}

type usageError struct {
	usage string
}

func (err usageError) Error() string {
	return "usage: " + err.usage
}
