package models

type Cycle struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	StartDate string  `gorm:"column:start_date;not null" json:"start_date"`
	EndDate   *string `gorm:"column:end_date" json:"end_date"`
	CreatedAt string  `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt *string `gorm:"column:updated_at" json:"updated_at"`
}

func (Cycle) TableName() string {
	return "cycles"
}
