package db

import (
	"github.com/terraincognita07/lunalog/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SymptomRepository struct {
	database *gorm.DB
}

func NewSymptomRepository(database *gorm.DB) *SymptomRepository {
	return &SymptomRepository{database: database}
}

func (repo *SymptomRepository) ListActive() ([]models.Symptom, error) {
	symptoms := make([]models.Symptom, 0)
	if err := repo.database.
		Where("is_active = ?", true).
		Order("category ASC, name ASC").
		Find(&symptoms).Error; err != nil {
		return nil, err
	}
	return symptoms, nil
}

// SeedCatalog inserts each catalog entry whose name is not present yet.
// Existing rows are never overwritten.
func (repo *SymptomRepository) SeedCatalog(catalog []models.CatalogSymptom) error {
	for _, entry := range catalog {
		symptom := models.Symptom{Name: entry.Name, Category: entry.Category, IsActive: true}
		if err := repo.database.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&symptom).Error; err != nil {
			return err
		}
	}
	return nil
}
