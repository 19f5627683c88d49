package db

import (
	"github.com/terraincognita07/lunalog/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DailySymptomRepository struct {
	database *gorm.DB
}

func NewDailySymptomRepository(database *gorm.DB) *DailySymptomRepository {
	return &DailySymptomRepository{database: database}
}

// Upsert stores the link, replacing the severity of an existing pair, and
// returns the persisted row.
func (repo *DailySymptomRepository) Upsert(logID uint, symptomID uint, severity *int) (models.DailySymptom, error) {
	stored := models.DailySymptom{}
	err := repo.database.Transaction(func(tx *gorm.DB) error {
		link := models.DailySymptom{DailyLogID: logID, SymptomID: symptomID, Severity: severity}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "daily_log_id"}, {Name: "symptom_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"severity"}),
		}).Create(&link).Error; err != nil {
			return err
		}
		return tx.Where("daily_log_id = ? AND symptom_id = ?", logID, symptomID).First(&stored).Error
	})
	if err != nil {
		return models.DailySymptom{}, err
	}
	return stored, nil
}

func (repo *DailySymptomRepository) Delete(logID uint, symptomID uint) error {
	return repo.database.
		Where("daily_log_id = ? AND symptom_id = ?", logID, symptomID).
		Delete(&models.DailySymptom{}).Error
}

func (repo *DailySymptomRepository) ListByLog(logID uint) ([]models.DailySymptom, error) {
	links := make([]models.DailySymptom, 0)
	if err := repo.database.
		Where("daily_log_id = ?", logID).
		Order("id ASC").
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}
