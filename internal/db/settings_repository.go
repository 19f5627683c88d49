package db

import (
	"github.com/terraincognita07/lunalog/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsRepository struct {
	database *gorm.DB
}

func NewSettingsRepository(database *gorm.DB) *SettingsRepository {
	return &SettingsRepository{database: database}
}

func (repo *SettingsRepository) Get(key string) (string, bool, error) {
	setting := models.AppSetting{}
	result := repo.database.Where("key = ?", key).Limit(1).Find(&setting)
	if result.Error != nil {
		return "", false, result.Error
	}
	if result.RowsAffected == 0 {
		return "", false, nil
	}
	if setting.Value == nil {
		return "", true, nil
	}
	return *setting.Value, true, nil
}

func (repo *SettingsRepository) Set(key string, value string) error {
	setting := models.AppSetting{Key: key, Value: &value}
	return repo.database.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&setting).Error
}

func (repo *SettingsRepository) Delete(key string) error {
	return repo.database.Where("key = ?", key).Delete(&models.AppSetting{}).Error
}
