package services

import (
	"fmt"

	"github.com/terraincognita07/lunalog/internal/models"
)

// CycleGapDays is the largest gap, in whole days, over which a new log still
// joins the latest log's cycle.
const CycleGapDays = 7

// CycleDecision is the outcome of InferCycle: either reuse CycleID or start a
// new cycle beginning on StartDate.
type CycleDecision struct {
	CycleID   *uint
	StartNew  bool
	StartDate string
}

// InferCycle decides which cycle a newly logged date joins. latest is the
// log with the greatest date currently stored, which may be later than date
// when days are entered out of order; a negative gap still joins its cycle.
func InferCycle(latest *models.DailyLog, date string) (CycleDecision, error) {
	newDay, err := ParseLogDate(date)
	if err != nil {
		return CycleDecision{}, fmt.Errorf("parse log date %q: %w", date, err)
	}
	startNew := CycleDecision{StartNew: true, StartDate: FormatLogDate(newDay)}

	if latest == nil {
		return startNew, nil
	}

	latestDay, err := ParseLogDate(latest.Date)
	if err != nil {
		return CycleDecision{}, fmt.Errorf("parse latest log date %q: %w", latest.Date, err)
	}

	if DaysBetween(latestDay, newDay) <= CycleGapDays && latest.CycleID != nil {
		cycleID := *latest.CycleID
		return CycleDecision{CycleID: &cycleID}, nil
	}
	return startNew, nil
}
