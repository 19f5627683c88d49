package services

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/terraincognita07/lunalog/internal/db"
	"github.com/terraincognita07/lunalog/internal/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTrackerServiceForTest(t *testing.T) (*TrackerService, *db.Repositories, *observer.ObservedLogs) {
	t.Helper()

	repos, err := db.Open(filepath.Join(t.TempDir(), "lunalog-tracker.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("open repositories: %v", err)
	}
	t.Cleanup(func() {
		_ = repos.Close()
	})

	core, logs := observer.New(zapcore.ErrorLevel)
	service := NewTrackerService(repos, zap.New(core))
	service.now = func() time.Time {
		return time.Date(2026, 2, 21, 9, 15, 0, 0, time.UTC)
	}
	return service, repos, logs
}

func stringPtr(value string) *string {
	return &value
}

func intPtr(value int) *int {
	return &value
}

func logDates(logs []models.DailyLog) []string {
	dates := make([]string, 0, len(logs))
	for _, entry := range logs {
		dates = append(dates, entry.Date)
	}
	return dates
}

func mustLogPeriodDay(t *testing.T, service *TrackerService, date string, flowRate int) models.DailyLog {
	t.Helper()

	entry, err := service.LogPeriodDay(date, flowRate, nil, nil)
	if err != nil {
		t.Fatalf("LogPeriodDay(%s) unexpected error: %v", date, err)
	}
	return entry
}

func TestLogPeriodDayInfersCyclesAcrossMonth(t *testing.T) {
	service, _, _ := newTrackerServiceForTest(t)

	first := mustLogPeriodDay(t, service, "2026-02-01", 3)
	second := mustLogPeriodDay(t, service, "2026-02-03", 2)
	third := mustLogPeriodDay(t, service, "2026-02-20", 4)

	if first.CycleID == nil || second.CycleID == nil || third.CycleID == nil {
		t.Fatalf("expected every log to get a cycle: %+v %+v %+v", first, second, third)
	}
	if *second.CycleID != *first.CycleID {
		t.Fatalf("expected 2026-02-03 to join cycle %d, got %d", *first.CycleID, *second.CycleID)
	}
	if *third.CycleID == *first.CycleID {
		t.Fatalf("expected 2026-02-20 to start a new cycle, got %d", *third.CycleID)
	}

	if diff := cmp.Diff([]string{"2026-02-20", "2026-02-03", "2026-02-01"}, logDates(service.GetLogsForMonth(2026, 2))); diff != "" {
		t.Fatalf("GetLogsForMonth() mismatch (-want +got):\n%s", diff)
	}

	cycles := service.GetCycles()
	if len(cycles) != 2 {
		t.Fatalf("expected 2 cycles, got %d", len(cycles))
	}
	if cycles[0].StartDate != "2026-02-20" || cycles[1].StartDate != "2026-02-01" {
		t.Fatalf("unexpected cycle order: %+v", cycles)
	}
	if cycles[0].CreatedAt != "2026-02-21T09:15:00.000Z" {
		t.Fatalf("unexpected cycle created_at %q", cycles[0].CreatedAt)
	}
}

func TestLogPeriodDayUpdatesExistingEntryInPlace(t *testing.T) {
	service, _, _ := newTrackerServiceForTest(t)

	created := mustLogPeriodDay(t, service, "2026-02-01", 3)
	if created.UpdatedAt != nil {
		t.Fatalf("expected new entry to have no updated_at, got %q", *created.UpdatedAt)
	}

	service.now = func() time.Time {
		return time.Date(2026, 2, 22, 18, 0, 0, 0, time.UTC)
	}
	updated, err := service.LogPeriodDay("2026-02-01", 5, stringPtr("worse"), stringPtr("tired"))
	if err != nil {
		t.Fatalf("LogPeriodDay() update unexpected error: %v", err)
	}

	if updated.ID != created.ID || updated.CreatedAt != created.CreatedAt {
		t.Fatalf("expected id and created_at to be kept: created=%+v updated=%+v", created, updated)
	}
	if updated.CycleID == nil || *updated.CycleID != *created.CycleID {
		t.Fatalf("expected cycle to be kept: created=%v updated=%v", created.CycleID, updated.CycleID)
	}

	stored, found := service.GetLogForDate("2026-02-01")
	if !found {
		t.Fatal("expected stored entry")
	}
	if stored.FlowRate != 5 || *stored.Notes != "worse" || *stored.Mood != "tired" {
		t.Fatalf("unexpected stored fields: %+v", stored)
	}
	if stored.UpdatedAt == nil || *stored.UpdatedAt != "2026-02-22T18:00:00.000Z" {
		t.Fatalf("unexpected updated_at: %v", stored.UpdatedAt)
	}
	if got := len(service.GetLogsForDateRange("2026-01-01", "2026-12-31")); got != 1 {
		t.Fatalf("expected one row for the date, got %d", got)
	}
	if got := len(service.GetCycles()); got != 1 {
		t.Fatalf("expected updates to leave cycles alone, got %d cycles", got)
	}
}

func TestLogPeriodDayStoresFlowRateAsGiven(t *testing.T) {
	service, _, _ := newTrackerServiceForTest(t)

	entry := mustLogPeriodDay(t, service, "2026-02-01", 9)
	if entry.FlowRate != 9 {
		t.Fatalf("expected flow rate to be stored unchanged, got %d", entry.FlowRate)
	}
}

func TestLogPeriodDayOutOfOrderJoinsLatestCycle(t *testing.T) {
	service, _, _ := newTrackerServiceForTest(t)

	latest := mustLogPeriodDay(t, service, "2026-02-20", 3)
	past := mustLogPeriodDay(t, service, "2026-01-02", 2)

	if past.CycleID == nil || *past.CycleID != *latest.CycleID {
		t.Fatalf("expected out-of-order entry to join cycle %d, got %v", *latest.CycleID, past.CycleID)
	}
}

func TestGetLogForDateMissing(t *testing.T) {
	service, _, logs := newTrackerServiceForTest(t)

	if _, found := service.GetLogForDate("2026-02-01"); found {
		t.Fatal("expected no entry")
	}
	if logs.Len() != 0 {
		t.Fatalf("expected no fault to be logged, got %d entries", logs.Len())
	}
}

func TestDeleteDailyLogCascadesAndIgnoresUnknownIDs(t *testing.T) {
	service, _, _ := newTrackerServiceForTest(t)
	entry := mustLogPeriodDay(t, service, "2026-02-01", 3)
	symptoms := service.GetAllSymptoms()
	if _, err := service.AddSymptomToLog(entry.ID, symptoms[0].ID, intPtr(2)); err != nil {
		t.Fatalf("AddSymptomToLog() unexpected error: %v", err)
	}

	if err := service.DeleteDailyLog(entry.ID); err != nil {
		t.Fatalf("DeleteDailyLog() unexpected error: %v", err)
	}
	if _, found := service.GetLogForDate("2026-02-01"); found {
		t.Fatal("expected entry to be deleted")
	}
	if links := service.GetSymptomsForLog(entry.ID); len(links) != 0 {
		t.Fatalf("expected links to be deleted, got %d", len(links))
	}
	if err := service.DeleteDailyLog(9999); err != nil {
		t.Fatalf("DeleteDailyLog() on unknown id unexpected error: %v", err)
	}
}

func TestDeleteDailyLogKeepsCycleAndSiblingLogs(t *testing.T) {
	service, _, _ := newTrackerServiceForTest(t)
	first := mustLogPeriodDay(t, service, "2026-02-01", 3)
	second := mustLogPeriodDay(t, service, "2026-02-02", 2)
	if first.CycleID == nil || second.CycleID == nil || *first.CycleID != *second.CycleID {
		t.Fatalf("expected both days in one cycle, got %v and %v", first.CycleID, second.CycleID)
	}

	if err := service.DeleteDailyLog(first.ID); err != nil {
		t.Fatalf("DeleteDailyLog() unexpected error: %v", err)
	}

	cycles := service.GetCycles()
	if len(cycles) != 1 || cycles[0].ID != *first.CycleID {
		t.Fatalf("expected cycle %d to survive, got %+v", *first.CycleID, cycles)
	}
	sibling, found := service.GetLogForDate("2026-02-02")
	if !found {
		t.Fatal("expected 2026-02-02 to survive")
	}
	if sibling.ID != second.ID || sibling.CycleID == nil || *sibling.CycleID != *second.CycleID {
		t.Fatalf("expected sibling to keep id %d and cycle %d, got %+v", second.ID, *second.CycleID, sibling)
	}
}

func TestLogPeriodDayStoresCanonicalDateKey(t *testing.T) {
	service, _, _ := newTrackerServiceForTest(t)
	first := mustLogPeriodDay(t, service, "2026-02-01", 3)

	padded, err := service.LogPeriodDay(" 2026-02-01 ", 4, nil, nil)
	if err != nil {
		t.Fatalf("LogPeriodDay() unexpected error: %v", err)
	}
	if padded.ID != first.ID || padded.Date != "2026-02-01" || padded.FlowRate != 4 {
		t.Fatalf("expected padded date to update entry %d in place, got %+v", first.ID, padded)
	}

	logs := service.GetLogsForDateRange("2026-01-01", "2026-12-31")
	if len(logs) != 1 {
		t.Fatalf("expected a single row for the day, got %v", logDates(logs))
	}
	if entry, found := service.GetLogForDate(" 2026-02-01"); !found || entry.ID != first.ID {
		t.Fatalf("expected padded lookup to find entry %d, got %+v found=%v", first.ID, entry, found)
	}
}

func TestAddSymptomToLogIsIdempotentPerPair(t *testing.T) {
	service, _, _ := newTrackerServiceForTest(t)
	entry := mustLogPeriodDay(t, service, "2026-02-01", 3)
	symptoms := service.GetAllSymptoms()

	if _, err := service.AddSymptomToLog(entry.ID, symptoms[0].ID, intPtr(1)); err != nil {
		t.Fatalf("AddSymptomToLog() unexpected error: %v", err)
	}
	if _, err := service.AddSymptomToLog(entry.ID, symptoms[1].ID, nil); err != nil {
		t.Fatalf("AddSymptomToLog() unexpected error: %v", err)
	}
	replaced, err := service.AddSymptomToLog(entry.ID, symptoms[0].ID, intPtr(3))
	if err != nil {
		t.Fatalf("AddSymptomToLog() repeat unexpected error: %v", err)
	}
	if replaced.Severity == nil || *replaced.Severity != 3 {
		t.Fatalf("expected severity to be replaced, got %v", replaced.Severity)
	}

	links := service.GetSymptomsForLog(entry.ID)
	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(links))
	}
	if links[0].ID >= links[1].ID {
		t.Fatalf("expected links ordered by id ascending, got %+v", links)
	}

	if err := service.RemoveSymptomFromLog(entry.ID, symptoms[1].ID); err != nil {
		t.Fatalf("RemoveSymptomFromLog() unexpected error: %v", err)
	}
	if err := service.RemoveSymptomFromLog(entry.ID, symptoms[1].ID); err != nil {
		t.Fatalf("RemoveSymptomFromLog() on absent link unexpected error: %v", err)
	}
	if got := len(service.GetSymptomsForLog(entry.ID)); got != 1 {
		t.Fatalf("expected 1 link after removal, got %d", got)
	}
}

func TestSyncSymptomsForLogKeepsUnchangedLinks(t *testing.T) {
	service, _, _ := newTrackerServiceForTest(t)
	entry := mustLogPeriodDay(t, service, "2026-02-01", 3)
	symptoms := service.GetAllSymptoms()
	a, b, c := symptoms[0].ID, symptoms[1].ID, symptoms[2].ID

	kept, err := service.AddSymptomToLog(entry.ID, a, intPtr(4))
	if err != nil {
		t.Fatalf("AddSymptomToLog() unexpected error: %v", err)
	}
	if _, err := service.AddSymptomToLog(entry.ID, b, nil); err != nil {
		t.Fatalf("AddSymptomToLog() unexpected error: %v", err)
	}

	if err := service.SyncSymptomsForLog(entry.ID, []uint{a, c, c}); err != nil {
		t.Fatalf("SyncSymptomsForLog() unexpected error: %v", err)
	}

	links := service.GetSymptomsForLog(entry.ID)
	if len(links) != 2 {
		t.Fatalf("expected 2 links after sync, got %+v", links)
	}
	if links[0].ID != kept.ID || links[0].SymptomID != a || links[0].Severity == nil || *links[0].Severity != 4 {
		t.Fatalf("expected unchanged link to keep id and severity, got %+v", links[0])
	}
	if links[1].SymptomID != c || links[1].Severity != nil {
		t.Fatalf("expected new link without severity, got %+v", links[1])
	}
}

func TestDeleteAllUserDataKeepsCatalog(t *testing.T) {
	service, _, _ := newTrackerServiceForTest(t)
	entry := mustLogPeriodDay(t, service, "2026-02-01", 3)
	mustLogPeriodDay(t, service, "2026-03-01", 2)
	if _, err := service.AddSymptomToLog(entry.ID, service.GetAllSymptoms()[0].ID, nil); err != nil {
		t.Fatalf("AddSymptomToLog() unexpected error: %v", err)
	}

	if err := service.DeleteAllUserData(); err != nil {
		t.Fatalf("DeleteAllUserData() unexpected error: %v", err)
	}

	if got := len(service.GetLogsForDateRange("0000-01-01", "9999-12-31")); got != 0 {
		t.Fatalf("expected no logs, got %d", got)
	}
	if got := len(service.GetCycles()); got != 0 {
		t.Fatalf("expected no cycles, got %d", got)
	}
	if got := len(service.GetAllSymptoms()); got != 10 {
		t.Fatalf("expected catalog to survive, got %d", got)
	}
}

func TestTrackerReadsDegradeToEmptyOnStorageFault(t *testing.T) {
	service, repos, logs := newTrackerServiceForTest(t)
	mustLogPeriodDay(t, service, "2026-02-01", 3)
	if err := repos.Close(); err != nil {
		t.Fatalf("close repositories: %v", err)
	}

	if _, found := service.GetLogForDate("2026-02-01"); found {
		t.Fatal("expected absent result on fault")
	}
	if got := service.GetLogsForMonth(2026, 2); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice on fault, got %v", got)
	}
	if got := service.GetSymptomsForLog(1); len(got) != 0 {
		t.Fatalf("expected no links on fault, got %d", len(got))
	}
	if got := service.GetAllSymptoms(); len(got) != 0 {
		t.Fatalf("expected no symptoms on fault, got %d", len(got))
	}
	if got := service.GetCycles(); len(got) != 0 {
		t.Fatalf("expected no cycles on fault, got %d", len(got))
	}

	if logs.Len() != 5 {
		t.Fatalf("expected 5 logged read faults, got %d", logs.Len())
	}
	for _, entry := range logs.All() {
		if entry.Message != "storage read failed" {
			t.Fatalf("unexpected log message %q", entry.Message)
		}
		if _, ok := entry.ContextMap()["operation"]; !ok {
			t.Fatalf("expected operation field in %+v", entry.ContextMap())
		}
	}
}

func TestTrackerWritesReturnStorageFault(t *testing.T) {
	service, repos, logs := newTrackerServiceForTest(t)
	if err := repos.Close(); err != nil {
		t.Fatalf("close repositories: %v", err)
	}

	writes := map[string]func() error{
		"log period day": func() error {
			_, err := service.LogPeriodDay("2026-02-01", 3, nil, nil)
			return err
		},
		"delete daily log": func() error { return service.DeleteDailyLog(1) },
		"add symptom to log": func() error {
			_, err := service.AddSymptomToLog(1, 1, nil)
			return err
		},
		"remove symptom from log": func() error { return service.RemoveSymptomFromLog(1, 1) },
		"sync symptoms for log":   func() error { return service.SyncSymptomsForLog(1, []uint{1}) },
		"delete all user data":    service.DeleteAllUserData,
	}

	for name, write := range writes {
		err := write()
		if !errors.Is(err, ErrStorageFault) {
			t.Fatalf("%s: expected ErrStorageFault, got %v", name, err)
		}
	}
	if got := logs.FilterMessage("storage write failed").Len(); got != len(writes) {
		t.Fatalf("expected %d logged write faults, got %d", len(writes), got)
	}
}

func TestLogPeriodDayRejectsUnparseableDateAsWriteFault(t *testing.T) {
	service, _, logs := newTrackerServiceForTest(t)

	if _, err := service.LogPeriodDay("Feb 1", 3, nil, nil); !errors.Is(err, ErrStorageFault) {
		t.Fatalf("expected ErrStorageFault, got %v", err)
	}
	if logs.Len() != 1 {
		t.Fatalf("expected fault to be logged, got %d entries", logs.Len())
	}
	if got := len(service.GetCycles()); got != 0 {
		t.Fatalf("expected no cycle to be created, got %d", got)
	}
}
