package db

import (
	"fmt"

	"gorm.io/gorm"
)

// Repositories bundles every repository over one store handle. It is the
// explicit handle passed to services in place of a process-wide global.
type Repositories struct {
	database      *gorm.DB
	Settings      *SettingsRepository
	Cycles        *CycleRepository
	DailyLogs     *DailyLogRepository
	Symptoms      *SymptomRepository
	DailySymptoms *DailySymptomRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		database:      database,
		Settings:      NewSettingsRepository(database),
		Cycles:        NewCycleRepository(database),
		DailyLogs:     NewDailyLogRepository(database),
		Symptoms:      NewSymptomRepository(database),
		DailySymptoms: NewDailySymptomRepository(database),
	}
}

// Transaction runs fn with repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (repos *Repositories) Transaction(fn func(tx *Repositories) error) error {
	return repos.database.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// DeleteAllUserData removes links, then logs, then cycles. The symptom
// catalog and app settings are left alone.
func (repos *Repositories) DeleteAllUserData() error {
	return repos.database.Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"daily_symptoms", "daily_logs", "cycles"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}

func (repos *Repositories) Close() error {
	sqlDB, err := repos.database.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
