package services

import "github.com/terraincognita07/lunalog/internal/models"

const (
	MaxDayNotesLength = 2000
	MaxDayMoodLength  = 100
)

// DayLogInput is a day entry as typed by a user, before it is stored.
type DayLogInput struct {
	Date     string `validate:"required,datetime=2006-01-02"`
	FlowRate int    `validate:"min=1,max=5"`
	Notes    string `validate:"max=2000"`
	Mood     string `validate:"max=100"`
}

// ValidateDayLogInput checks what TrackerService.LogPeriodDay accepts
// unchecked. Front-ends call it before writing.
func ValidateDayLogInput(input DayLogInput) error {
	return validateInput(input)
}

func IsValidFlowRate(flowRate int) bool {
	return flowRate >= models.MinFlowRate && flowRate <= models.MaxFlowRate
}

// OptionalText maps blank input to nil so it is stored as NULL.
func OptionalText(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
