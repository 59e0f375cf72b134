package stats

import (
	"context"

	"github.com/verte-zerg/tango/internal/model"
)

// HistorySource lists answer records.
type HistorySource interface {
	ListHistory(ctx context.Context, filter model.HistoryFilter) ([]model.AnswerRecord, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Filter  model.HistoryFilter
	Records []model.AnswerRecord
	Summary Summary
	Types   []TypeStat
	Days    []DayPoint
	Weak    []WordStat
	Top     []WordStat
}

// DefaultWeakTop is the number of weak words listed in a report.
const DefaultWeakTop = 10

// BuildReport loads records matching filter and aggregates them. Records
// are kept newest first.
func BuildReport(ctx context.Context, src HistorySource, filter model.HistoryFilter) (Report, error) {
	records, err := src.ListHistory(ctx, filter)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Filter:  filter,
		Records: records,
		Summary: Summarize(records),
		Types:   TypeBreakdown(records),
		Days:    DailyAccuracy(records),
		Weak:    SelectWeakWords(records, DefaultWeakTop),
		Top:     MostPracticed(records, 5),
	}, nil
}
