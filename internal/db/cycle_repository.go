package db

import (
	"github.com/terraincognita07/lunalog/internal/models"
	"gorm.io/gorm"
)

type CycleRepository struct {
	database *gorm.DB
}

func NewCycleRepository(database *gorm.DB) *CycleRepository {
	return &CycleRepository{database: database}
}

func (repo *CycleRepository) Create(cycle *models.Cycle) error {
	return repo.database.Create(cycle).Error
}

func (repo *CycleRepository) ListByStartDesc() ([]models.Cycle, error) {
	cycles := make([]models.Cycle, 0)
	if err := repo.database.Order("start_date DESC, id DESC").Find(&cycles).Error; err != nil {
		return nil, err
	}
	return cycles, nil
}

func (repo *CycleRepository) Delete(cycleID uint) error {
	return repo.database.Delete(&models.Cycle{}, cycleID).Error
}
