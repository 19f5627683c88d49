package services

import (
	"time"

	"github.com/terraincognita07/lunalog/internal/db"
	"github.com/terraincognita07/lunalog/internal/models"
	"go.uber.org/zap"
)

// TrackerService is the persistence boundary used by front-ends. Reads that
// hit a storage fault are logged and degrade to empty results; writes are
// logged and return an error wrapping ErrStorageFault.
type TrackerService struct {
	repos  *db.Repositories
	logger *zap.Logger
	now    func() time.Time
}

func NewTrackerService(repos *db.Repositories, logger *zap.Logger) *TrackerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrackerService{
		repos:  repos,
		logger: logger.Named("tracker"),
		now:    time.Now,
	}
}

// LogPeriodDay upserts the entry for date. An existing entry keeps its id,
// cycle and created_at. A new entry is attached to a cycle by InferCycle.
// flowRate is stored as given.
func (service *TrackerService) LogPeriodDay(date string, flowRate int, notes *string, mood *string) (models.DailyLog, error) {
	key, err := CanonicalLogDate(date)
	if err != nil {
		return models.DailyLog{}, service.writeFault("log period day", err, zap.String("date", date))
	}
	date = key
	now := FormatTimestamp(service.now())

	var stored models.DailyLog
	err = service.repos.Transaction(func(tx *db.Repositories) error {
		existing, found, err := tx.DailyLogs.FindByDate(date)
		if err != nil {
			return err
		}
		if found {
			if err := tx.DailyLogs.UpdateEntryFields(existing.ID, flowRate, notes, mood, now); err != nil {
				return err
			}
			existing.FlowRate = flowRate
			existing.Notes = notes
			existing.Mood = mood
			existing.UpdatedAt = &now
			stored = existing
			return nil
		}

		cycleID, err := resolveCycleForNewLog(tx, date, now)
		if err != nil {
			return err
		}
		entry := models.DailyLog{
			Date:      date,
			CycleID:   cycleID,
			FlowRate:  flowRate,
			Notes:     notes,
			Mood:      mood,
			CreatedAt: now,
		}
		if err := tx.DailyLogs.Create(&entry); err != nil {
			return err
		}
		stored = entry
		return nil
	})
	if err != nil {
		return models.DailyLog{}, service.writeFault("log period day", err, zap.String("date", date))
	}
	return stored, nil
}

func resolveCycleForNewLog(tx *db.Repositories, date string, now string) (*uint, error) {
	var latest *models.DailyLog
	entry, found, err := tx.DailyLogs.FindLatest()
	if err != nil {
		return nil, err
	}
	if found {
		latest = &entry
	}

	decision, err := InferCycle(latest, date)
	if err != nil {
		return nil, err
	}
	if !decision.StartNew {
		return decision.CycleID, nil
	}

	cycle := models.Cycle{StartDate: decision.StartDate, CreatedAt: now}
	if err := tx.Cycles.Create(&cycle); err != nil {
		return nil, err
	}
	return &cycle.ID, nil
}

func (service *TrackerService) GetLogForDate(date string) (models.DailyLog, bool) {
	if key, err := CanonicalLogDate(date); err == nil {
		date = key
	}
	entry, found, err := service.repos.DailyLogs.FindByDate(date)
	if err != nil {
		service.readFault("get log for date", err, zap.String("date", date))
		return models.DailyLog{}, false
	}
	return entry, found
}

// GetLogsForDateRange returns logs with start <= date <= end, newest first.
func (service *TrackerService) GetLogsForDateRange(start string, end string) []models.DailyLog {
	logs, err := service.repos.DailyLogs.ListByDateRange(start, end)
	if err != nil {
		service.readFault("get logs for date range", err, zap.String("start", start), zap.String("end", end))
		return []models.DailyLog{}
	}
	return logs
}

// GetLogsForMonth takes a 1-indexed month.
func (service *TrackerService) GetLogsForMonth(year int, month int) []models.DailyLog {
	first, last := MonthBounds(year, month)
	return service.GetLogsForDateRange(first, last)
}

// DeleteDailyLog removes the entry and its symptom links. Unknown ids are a
// no-op.
func (service *TrackerService) DeleteDailyLog(logID uint) error {
	if err := service.repos.DailyLogs.DeleteByID(logID); err != nil {
		return service.writeFault("delete daily log", err, zap.Uint("log_id", logID))
	}
	return nil
}

func (service *TrackerService) AddSymptomToLog(logID uint, symptomID uint, severity *int) (models.DailySymptom, error) {
	link, err := service.repos.DailySymptoms.Upsert(logID, symptomID, severity)
	if err != nil {
		return models.DailySymptom{}, service.writeFault("add symptom to log", err,
			zap.Uint("log_id", logID),
			zap.Uint("symptom_id", symptomID),
		)
	}
	return link, nil
}

func (service *TrackerService) RemoveSymptomFromLog(logID uint, symptomID uint) error {
	if err := service.repos.DailySymptoms.Delete(logID, symptomID); err != nil {
		return service.writeFault("remove symptom from log", err,
			zap.Uint("log_id", logID),
			zap.Uint("symptom_id", symptomID),
		)
	}
	return nil
}

// SyncSymptomsForLog makes the log's links match symptomIDs. Links that stay
// selected keep their row and severity.
func (service *TrackerService) SyncSymptomsForLog(logID uint, symptomIDs []uint) error {
	err := service.repos.Transaction(func(tx *db.Repositories) error {
		current, err := tx.DailySymptoms.ListByLog(logID)
		if err != nil {
			return err
		}

		pending := append([]uint(nil), symptomIDs...)
		for _, link := range current {
			if containsUint(symptomIDs, link.SymptomID) {
				pending = RemoveUint(pending, link.SymptomID)
				continue
			}
			if err := tx.DailySymptoms.Delete(logID, link.SymptomID); err != nil {
				return err
			}
		}

		added := make([]uint, 0, len(pending))
		for _, symptomID := range pending {
			if containsUint(added, symptomID) {
				continue
			}
			if _, err := tx.DailySymptoms.Upsert(logID, symptomID, nil); err != nil {
				return err
			}
			added = append(added, symptomID)
		}
		return nil
	})
	if err != nil {
		return service.writeFault("sync symptoms for log", err, zap.Uint("log_id", logID))
	}
	return nil
}

func (service *TrackerService) GetSymptomsForLog(logID uint) []models.DailySymptom {
	links, err := service.repos.DailySymptoms.ListByLog(logID)
	if err != nil {
		service.readFault("get symptoms for log", err, zap.Uint("log_id", logID))
		return []models.DailySymptom{}
	}
	return links
}

func (service *TrackerService) GetAllSymptoms() []models.Symptom {
	symptoms, err := service.repos.Symptoms.ListActive()
	if err != nil {
		service.readFault("get all symptoms", err)
		return []models.Symptom{}
	}
	return symptoms
}

func (service *TrackerService) GetCycles() []models.Cycle {
	cycles, err := service.repos.Cycles.ListByStartDesc()
	if err != nil {
		service.readFault("get cycles", err)
		return []models.Cycle{}
	}
	return cycles
}

// DeleteAllUserData irreversibly removes links, logs and cycles. The symptom
// catalog and the credential are untouched.
func (service *TrackerService) DeleteAllUserData() error {
	if err := service.repos.DeleteAllUserData(); err != nil {
		return service.writeFault("delete all user data", err)
	}
	service.logger.Info("user data deleted")
	return nil
}

func (service *TrackerService) readFault(operation string, err error, fields ...zap.Field) {
	fields = append(fields, zap.String("operation", operation), zap.Error(err))
	service.logger.Error("storage read failed", fields...)
}

func (service *TrackerService) writeFault(operation string, err error, fields ...zap.Field) error {
	fields = append(fields, zap.String("operation", operation), zap.Error(err))
	service.logger.Error("storage write failed", fields...)
	return storageFault(operation, err)
}
