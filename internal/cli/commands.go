package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/terraincognita07/lunalog/internal/models"
	"github.com/terraincognita07/lunalog/internal/services"
)

const (
	exportRangeStart = "0000-01-01"
	exportRangeEnd   = "9999-12-31"
)

func (app *App) logDay(args []string) error {
	if len(args) != 2 {
		return usageError{usage: "log DATE FLOW"}
	}
	date := args[0]
	flowRate, err := strconv.Atoi(args[1])
	if err != nil {
		flowRate = 0
	}

	mood, err := app.console.Ask("Mood (optional)")
	if err != nil {
		return err
	}
	notes, err := app.console.Ask("Notes (optional)")
	if err != nil {
		return err
	}

	input := services.DayLogInput{Date: date, FlowRate: flowRate, Notes: notes, Mood: mood}
	if err := services.ValidateDayLogInput(input); err != nil {
		return err
	}

	entry, err := app.tracker.LogPeriodDay(date, flowRate, services.OptionalText(notes), services.OptionalText(mood))
	if err != nil {
		return err
	}
	app.console.Printf("Saved %s (flow %d, cycle %s).\n", entry.Date, entry.FlowRate, optionalID(entry.CycleID))
	return nil
}

func (app *App) showDay(args []string) error {
	if len(args) != 1 {
		return usageError{usage: "show DATE"}
	}
	entry, found := app.tracker.GetLogForDate(args[0])
	if !found {
		app.console.Printf("Nothing logged for %s.\n", args[0])
		return nil
	}

	app.console.Printf("Date:    %s\n", entry.Date)
	app.console.Printf("Flow:    %d\n", entry.FlowRate)
	app.console.Printf("Cycle:   %s\n", optionalID(entry.CycleID))
	app.console.Printf("Mood:    %s\n", textOrDash(entry.Mood))
	app.console.Printf("Notes:   %s\n", textOrDash(entry.Notes))

	links := app.tracker.GetSymptomsForLog(entry.ID)
	if len(links) == 0 {
		app.console.Println("Symptoms: none")
		return nil
	}
	names := app.symptomNames()
	app.console.Println("Symptoms:")
	for _, link := range links {
		name, ok := names[link.SymptomID]
		if !ok {
			name = "#" + strconv.FormatUint(uint64(link.SymptomID), 10)
		}
		if link.Severity != nil {
			app.console.Printf("  - %s (severity %d)\n", name, *link.Severity)
			continue
		}
		app.console.Printf("  - %s\n", name)
	}
	return nil
}

func (app *App) listMonth(args []string) error {
	if len(args) != 1 {
		return usageError{usage: "month YYYY-MM"}
	}
	month, err := time.Parse("2006-01", args[0])
	if err != nil {
		return usageError{usage: "month YYYY-MM"}
	}
	app.printLogs(app.tracker.GetLogsForMonth(month.Year(), int(month.Month())))
	return nil
}

func (app *App) listRange(args []string) error {
	if len(args) != 2 {
		return usageError{usage: "range START END"}
	}
	for _, raw := range args {
		if _, err := services.ParseLogDate(raw); err != nil {
			return usageError{usage: "range START END (dates as YYYY-MM-DD)"}
		}
	}
	app.printLogs(app.tracker.GetLogsForDateRange(args[0], args[1]))
	return nil
}

func (app *App) deleteDay(args []string) error {
	if len(args) != 1 {
		return usageError{usage: "delete DATE"}
	}
	entry, found := app.tracker.GetLogForDate(args[0])
	if !found {
		app.console.Printf("Nothing logged for %s.\n", args[0])
		return nil
	}
	if err := app.tracker.DeleteDailyLog(entry.ID); err != nil {
		return err
	}
	app.console.Printf("Deleted %s.\n", entry.Date)
	return nil
}

func (app *App) listSymptoms() error {
	writer := tabwriter.NewWriter(app.console.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tCATEGORY\tNAME")
	for _, symptom := range app.tracker.GetAllSymptoms() {
		fmt.Fprintf(writer, "%d\t%s\t%s\n", symptom.ID, symptom.Category, symptom.Name)
	}
	return writer.Flush()
}

func (app *App) tagSymptom(args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return usageError{usage: "tag DATE SYMPTOM [SEVERITY]"}
	}
	entry, ok := app.requireLog(args[0])
	if !ok {
		return nil
	}
	symptomID, err := parseID(args[1])
	if err != nil {
		return usageError{usage: "tag DATE SYMPTOM [SEVERITY]"}
	}

	var severity *int
	if len(args) == 3 {
		value, err := strconv.Atoi(args[2])
		if err != nil {
			return usageError{usage: "tag DATE SYMPTOM [SEVERITY]"}
		}
		severity = &value
	}

	if _, err := app.tracker.AddSymptomToLog(entry.ID, symptomID, severity); err != nil {
		return err
	}
	app.console.Printf("Tagged %s.\n", entry.Date)
	return nil
}

func (app *App) untagSymptom(args []string) error {
	if len(args) != 2 {
		return usageError{usage: "untag DATE SYMPTOM"}
	}
	entry, ok := app.requireLog(args[0])
	if !ok {
		return nil
	}
	symptomID, err := parseID(args[1])
	if err != nil {
		return usageError{usage: "untag DATE SYMPTOM"}
	}
	if err := app.tracker.RemoveSymptomFromLog(entry.ID, symptomID); err != nil {
		return err
	}
	app.console.Printf("Untagged %s.\n", entry.Date)
	return nil
}

func (app *App) pickSymptoms(args []string) error {
	if len(args) < 1 {
		return usageError{usage: "pick DATE [SYMPTOM...]"}
	}
	entry, ok := app.requireLog(args[0])
	if !ok {
		return nil
	}

	symptomIDs := make([]uint, 0, len(args)-1)
	for _, raw := range args[1:] {
		symptomID, err := parseID(raw)
		if err != nil {
			return usageError{usage: "pick DATE [SYMPTOM...]"}
		}
		symptomIDs = append(symptomIDs, symptomID)
	}

	if err := app.tracker.SyncSymptomsForLog(entry.ID, symptomIDs); err != nil {
		return err
	}
	app.console.Printf("Symptoms updated for %s.\n", entry.Date)
	return nil
}

func (app *App) listCycles() error {
	cycles := app.tracker.GetCycles()
	if len(cycles) == 0 {
		app.console.Println("No cycles yet.")
		return nil
	}
	writer := tabwriter.NewWriter(app.console.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tSTART\tEND")
	for _, cycle := range cycles {
		fmt.Fprintf(writer, "%d\t%s\t%s\n", cycle.ID, cycle.StartDate, textOrDash(cycle.EndDate))
	}
	return writer.Flush()
}

func (app *App) export(args []string) error {
	if len(args) != 1 {
		return usageError{usage: "export csv|html|xlsx"}
	}
	kind := strings.ToLower(args[0])
	now := app.now()
	fileName, err := services.ExportFileName(kind, now)
	if err != nil {
		return err
	}

	logs := app.tracker.GetLogsForDateRange(exportRangeStart, exportRangeEnd)
	path, err := writeExportFile(app.exportDir, fileName, func(w io.Writer) error {
		switch kind {
		case services.ExportKindCSV:
			return app.exporter.WriteCSV(w, logs)
		case services.ExportKindHTML:
			return app.exporter.WriteHTMLReport(w, logs, now)
		default:
			return app.exporter.WriteWorkbook(w, logs)
		}
	})
	if err != nil {
		return err
	}

	app.console.Printf("Exported %d days to %s\n", len(logs), path)
	return nil
}

// writeExportFile renders into a temp file next to the target and renames it
// into place, so a failed render never leaves a partial export behind.
func writeExportFile(dir string, fileName string, render func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	temp, err := os.CreateTemp(dir, "."+fileName+".*")
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	tempPath := temp.Name()
	defer os.Remove(tempPath)

	if err := temp.Chmod(0o600); err != nil {
		_ = temp.Close()
		return "", fmt.Errorf("create export file: %w", err)
	}
	if err := render(temp); err != nil {
		_ = temp.Close()
		return "", fmt.Errorf("write export: %w", err)
	}
	if err := temp.Close(); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}

	path := filepath.Join(dir, fileName)
	if err := os.Rename(tempPath, path); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

func (app *App) wipe() error {
	answer, err := app.console.Ask("Type " + resetConfirmationWord + " to delete all logs and cycles")
	if err != nil {
		return err
	}
	if answer != resetConfirmationWord {
		app.console.Println("Nothing deleted.")
		return nil
	}
	if err := app.tracker.DeleteAllUserData(); err != nil {
		return err
	}
	app.console.Println("All logs and cycles deleted.")
	return nil
}

func (app *App) lock() error {
	if err := app.gate.Lock(); err != nil {
		return err
	}
	app.token = ""
	app.console.Println("Locked.")
	return nil
}

func (app *App) printLogs(logs []models.DailyLog) {
	if len(logs) == 0 {
		app.console.Println("No days logged.")
		return
	}
	writer := tabwriter.NewWriter(app.console.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "DATE\tFLOW\tCYCLE\tMOOD\tNOTES")
	for _, entry := range logs {
		fmt.Fprintf(writer, "%s\t%d\t%s\t%s\t%s\n",
			entry.Date,
			entry.FlowRate,
			optionalID(entry.CycleID),
			textOrDash(entry.Mood),
			textOrDash(entry.Notes),
		)
	}
	_ = writer.Flush()
}

func (app *App) requireLog(date string) (models.DailyLog, bool) {
	entry, found := app.tracker.GetLogForDate(date)
	if !found {
		app.console.Printf("Nothing logged for %s. Log the day first.\n", date)
	}
	return entry, found
}

func (app *App) symptomNames() map[uint]string {
	symptoms := app.tracker.GetAllSymptoms()
	names := make(map[uint]string, len(symptoms))
	for _, symptom := range symptoms {
		names[symptom.ID] = symptom.Name
	}
	return names
}

func parseID(raw string) (uint, error) {
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(value), nil
}

func optionalID(id *uint) string {
	if id == nil {
		return "-"
	}
	return strconv.FormatUint(uint64(*id), 10)
}

func textOrDash(value *string) string {
	if value == nil || *value == "" {
		return "-"
	}
	return *value
}
