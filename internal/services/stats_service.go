package services

import (
	"strconv"

	"github.com/terraincognita07/lunalog/internal/models"
)

const HeavyFlowThreshold = 4

// ReportStats are the aggregates shown at the top of an export. Distribution
// is indexed by flow rate minus one; out-of-range rates are not counted.
type ReportStats struct {
	TotalDays    int
	AverageFlow  float64
	HeavyDays    int
	Distribution [models.MaxFlowRate]int
}

func BuildReportStats(logs []models.DailyLog) ReportStats {
	stats := ReportStats{TotalDays: len(logs)}
	if len(logs) == 0 {
		return stats
	}

	sum := 0
	for _, entry := range logs {
		sum += entry.FlowRate
		if IsValidFlowRate(entry.FlowRate) {
			stats.Distribution[entry.FlowRate-1]++
		}
		if entry.FlowRate >= HeavyFlowThreshold && entry.FlowRate <= models.MaxFlowRate {
			stats.HeavyDays++
		}
	}
	stats.AverageFlow = float64(sum) / float64(len(logs))
	return stats
}

// AverageFlowLabel renders the mean with one decimal, or "0" without data.
func (stats ReportStats) AverageFlowLabel() string {
	if stats.TotalDays == 0 {
		return "0"
	}
	return strconv.FormatFloat(stats.AverageFlow, 'f', 1, 64)
}

type FlowLevelCount struct {
	Level int
	Count int
}

func (stats ReportStats) Levels() []FlowLevelCount {
	levels := make([]FlowLevelCount, 0, len(stats.Distribution))
	for index, count := range stats.Distribution {
		levels = append(levels, FlowLevelCount{Level: index + 1, Count: count})
	}
	return levels
}
