package sales

import (
	"time"

	"exec-dashboard/internal/models"
)

// HighlightTier classifies an order month label against the reference date:
// the reference month is current, the calendar month before it is previous
// (December of the prior year for a January reference), anything else or an
// unparseable label is neutral.
func HighlightTier(monthLabel string, ref time.Time) models.HighlightTier {
	t, err := time.Parse(monthLabelLayout, monthLabel)
	if err != nil {
		return models.TierNeutral
	}
	return TierForMonth(MonthKey(t), ref)
}

// TierForMonth is HighlightTier keyed by YYYYMM.
func TierForMonth(monthKey int, ref time.Time) models.HighlightTier {
	current := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	switch monthKey {
	case MonthKey(current):
		return models.TierCurrent
	case MonthKey(current.AddDate(0, -1, 0)):
		return models.TierPrevious
	default:
		return models.TierNeutral
	}
}
