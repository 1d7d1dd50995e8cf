package funding

import "time"

// WeeklyRecap mirrors the weekly_recaps table. Amounts are in cents.
type WeeklyRecap struct {
	ID              string
	WeekStart       time.Time
	DealsFunded     int
	TotalFunded     int64
	TotalCommission int64
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// WeekStart normalizes t to midnight UTC on the Monday of its week.
// All recap rows key on this value, so two timestamps in the same week
// always map to the same row.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	day := t.AddDate(0, 0, -(weekday - 1))
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
}
