package db

import (
	"github.com/terraincognita07/lunalog/internal/models"
	"gorm.io/gorm"
)

func seedSymptomCatalog(database *gorm.DB) error {
	return NewSymptomRepository(database).SeedCatalog(models.DefaultSymptomCatalog())
}
