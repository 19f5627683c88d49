package db

import (
	"github.com/terraincognita07/lunalog/internal/models"
	"gorm.io/gorm"
)

type DailyLogRepository struct {
	database *gorm.DB
}

func NewDailyLogRepository(database *gorm.DB) *DailyLogRepository {
	return &DailyLogRepository{database: database}
}

func (repo *DailyLogRepository) FindByDate(date string) (models.DailyLog, bool, error) {
	entry := models.DailyLog{}
	result := repo.database.Where("date = ?", date).Limit(1).Find(&entry)
	if result.Error != nil {
		return models.DailyLog{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.DailyLog{}, false, nil
	}
	return entry, true, nil
}

// FindLatest returns the log with the greatest date, regardless of when it
// was inserted.
func (repo *DailyLogRepository) FindLatest() (models.DailyLog, bool, error) {
	entry := models.DailyLog{}
	result := repo.database.Order("date DESC").Limit(1).Find(&entry)
	if result.Error != nil {
		return models.DailyLog{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.DailyLog{}, false, nil
	}
	return entry, true, nil
}

// ListByDateRange returns logs with start <= date <= end, newest first.
func (repo *DailyLogRepository) ListByDateRange(start string, end string) ([]models.DailyLog, error) {
	logs := make([]models.DailyLog, 0)
	if err := repo.database.
		Where("date BETWEEN ? AND ?", start, end).
		Order("date DESC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (repo *DailyLogRepository) Create(entry *models.DailyLog) error {
	return repo.database.Create(entry).Error
}

// UpdateEntryFields rewrites the editable fields in place. id, date,
// cycle_id and created_at are never touched.
func (repo *DailyLogRepository) UpdateEntryFields(logID uint, flowRate int, notes *string, mood *string, updatedAt string) error {
	return repo.database.Model(&models.DailyLog{}).Where("id = ?", logID).Updates(map[string]any{
		"flow_rate":  flowRate,
		"notes":      notes,
		"mood":       mood,
		"updated_at": updatedAt,
	}).Error
}

func (repo *DailyLogRepository) DeleteByID(logID uint) error {
	return repo.database.Delete(&models.DailyLog{}, logID).Error
}
