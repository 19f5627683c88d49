package models

const (
	MinFlowRate = 1
	MaxFlowRate = 5
)

// DailyLog is one calendar date's entry. Date is the natural key.
type DailyLog struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	Date      string  `gorm:"column:date;not null;uniqueIndex" json:"date"`
	CycleID   *uint   `gorm:"column:cycle_id" json:"cycle_id"`
	FlowRate  int     `gorm:"column:flow_rate;not null" json:"flow_rate"`
	Notes     *string `gorm:"column:notes" json:"notes"`
	Mood      *string `gorm:"column:mood" json:"mood"`
	CreatedAt string  `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt *string `gorm:"column:updated_at" json:"updated_at"`
}

func (DailyLog) TableName() string {
	return "daily_logs"
}
