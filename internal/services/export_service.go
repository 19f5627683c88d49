package services

import (
	"bufio"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/terraincognita07/lunalog/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	ExportKindCSV  = "csv"
	ExportKindHTML = "html"
	ExportKindXLSX = "xlsx"

	reportNotesPreviewLength = 50
	reportEmptyCell          = "-"
)

var ExportCSVHeaders = []string{"Date", "Flow Rate", "Notes", "Mood"}

//go:embed templates/report.html.tmpl
var reportTemplateFS embed.FS

var reportTemplate = template.Must(
	template.New("report.html.tmpl").
		Funcs(template.FuncMap{"barHeight": reportBarHeight}).
		ParseFS(reportTemplateFS, "templates/report.html.tmpl"),
)

// ExportService renders logs into share-once files. It never reads the
// store itself; callers pass the logs they want exported.
type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

type reportRow struct {
	Date     string
	FlowRate int
	Mood     string
	Notes    string
}

type reportView struct {
	GeneratedOn string
	Stats       ReportStats
	Rows        []reportRow
}

// WriteCSV writes one line per log. Notes and mood are always quoted with
// inner quotes doubled, and NULL becomes an empty field.
func (service *ExportService) WriteCSV(w io.Writer, logs []models.DailyLog) error {
	buffered := bufio.NewWriter(w)
	if _, err := buffered.WriteString(strings.Join(ExportCSVHeaders, ",") + "\n"); err != nil {
		return err
	}
	for _, entry := range logs {
		line := fmt.Sprintf("%s,%d,%s,%s\n",
			entry.Date,
			entry.FlowRate,
			quoteCSVField(derefText(entry.Notes)),
			quoteCSVField(derefText(entry.Mood)),
		)
		if _, err := buffered.WriteString(line); err != nil {
			return err
		}
	}
	return buffered.Flush()
}

func (service *ExportService) WriteHTMLReport(w io.Writer, logs []models.DailyLog, generatedAt time.Time) error {
	view := reportView{
		GeneratedOn: generatedAt.Format("January 2, 2006"),
		Stats:       BuildReportStats(logs),
		Rows:        make([]reportRow, 0, len(logs)),
	}
	for _, entry := range logs {
		view.Rows = append(view.Rows, reportRow{
			Date:     entry.Date,
			FlowRate: entry.FlowRate,
			Mood:     textOrPlaceholder(entry.Mood),
			Notes:    notesPreview(entry.Notes),
		})
	}
	return reportTemplate.Execute(w, view)
}

// WriteWorkbook writes an XLSX file with a "Logs" sheet and a "Summary"
// sheet holding the report aggregates.
func (service *ExportService) WriteWorkbook(w io.Writer, logs []models.DailyLog) error {
	workbook := excelize.NewFile()
	defer workbook.Close()

	const logsSheet = "Logs"
	const summarySheet = "Summary"

	if err := workbook.SetSheetName("Sheet1", logsSheet); err != nil {
		return err
	}
	if err := workbook.SetSheetRow(logsSheet, "A1", &[]any{"Date", "Flow Rate", "Notes", "Mood"}); err != nil {
		return err
	}
	for index, entry := range logs {
		cell, err := excelize.CoordinatesToCellName(1, index+2)
		if err != nil {
			return err
		}
		row := []any{entry.Date, entry.FlowRate, derefText(entry.Notes), derefText(entry.Mood)}
		if err := workbook.SetSheetRow(logsSheet, cell, &row); err != nil {
			return err
		}
	}
	if err := workbook.SetColWidth(logsSheet, "A", "B", 12); err != nil {
		return err
	}
	if err := workbook.SetColWidth(logsSheet, "C", "C", 40); err != nil {
		return err
	}
	if err := workbook.SetColWidth(logsSheet, "D", "D", 16); err != nil {
		return err
	}

	if _, err := workbook.NewSheet(summarySheet); err != nil {
		return err
	}
	stats := BuildReportStats(logs)
	summary := [][]any{
		{"Total Logged Days", stats.TotalDays},
		{"Average Flow Rate", stats.AverageFlowLabel()},
		{"Heavy Days (4-5)", stats.HeavyDays},
	}
	for _, level := range stats.Levels() {
		summary = append(summary, []any{"Level " + strconv.Itoa(level.Level), level.Count})
	}
	for index, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, index+1)
		if err != nil {
			return err
		}
		if err := workbook.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	if err := workbook.SetColWidth(summarySheet, "A", "A", 20); err != nil {
		return err
	}

	_, err := workbook.WriteTo(w)
	return err
}

// ExportFileName names an export after the UTC day it was produced.
func ExportFileName(kind string, now time.Time) (string, error) {
	day := now.UTC().Format(LogDateLayout)
	switch kind {
	case ExportKindCSV:
		return "period-tracker-" + day + ".csv", nil
	case ExportKindHTML:
		return "period-report-" + day + ".html", nil
	case ExportKindXLSX:
		return "period-tracker-" + day + ".xlsx", nil
	default:
		return "", validationError(fmt.Sprintf("unknown export kind %q", kind))
	}
}

func quoteCSVField(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

func derefText(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func textOrPlaceholder(value *string) string {
	if value == nil || *value == "" {
		return reportEmptyCell
	}
	return *value
}

func notesPreview(notes *string) string {
	if notes == nil || *notes == "" {
		return reportEmptyCell
	}
	runes := []rune(*notes)
	if len(runes) <= reportNotesPreviewLength {
		return *notes
	}
	return string(runes[:reportNotesPreviewLength]) + "..."
}

func reportBarHeight(count int) int {
	return max(30, count*30)
}
