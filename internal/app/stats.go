package app

import (
	"math"
	"time"

	"glicosmart/internal/domain"
)

// Filter selects readings by calendar-day range and period. From and To are
// inclusive whole days in Location (time.Local when nil). An empty Period or
// "all" matches every period.
type Filter struct {
	From     *time.Time
	To       *time.Time
	Period   string
	Location *time.Location
}

// Apply returns the matching readings, preserving order.
func (f Filter) Apply(readings []domain.Reading) []domain.Reading {
	loc := f.Location
	if loc == nil {
		loc = time.Local
	}
	var start, end time.Time
	if f.From != nil {
		start = startOfDay(*f.From, loc)
	}
	if f.To != nil {
		end = startOfDay(*f.To, loc).AddDate(0, 0, 1)
	}

	out := make([]domain.Reading, 0, len(readings))
	for _, r := range readings {
		if f.Period != "" && f.Period != "all" && string(r.Period) != f.Period {
			continue
		}
		if f.From != nil && r.Timestamp.Before(start) {
			continue
		}
		if f.To != nil && !r.Timestamp.Before(end) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Stats summarises a set of readings. Low, Normal and High count readings
// below 70, up to 144 and above 144 mg/dL.
type Stats struct {
	Count         int             `json:"count"`
	Average       int             `json:"average"`
	Min           int             `json:"min"`
	Max           int             `json:"max"`
	Low           int             `json:"low"`
	Normal        int             `json:"normal"`
	High          int             `json:"high"`
	AverageStatus domain.Status   `json:"averageStatus,omitempty"`
	AverageAdvice string          `json:"averageAdvice,omitempty"`
	Latest        *domain.Reading `json:"latest"`
}

// Summarize computes Stats over readings ordered newest first.
func Summarize(readings []domain.Reading) Stats {
	var st Stats
	if len(readings) == 0 {
		return st
	}
	sum := 0
	st.Min, st.Max = readings[0].Value, readings[0].Value
	for _, r := range readings {
		sum += r.Value
		st.Min = min(st.Min, r.Value)
		st.Max = max(st.Max, r.Value)
		switch {
		case r.Value < domain.HypoBelow:
			st.Low++
		case r.Value <= domain.NormalMax:
			st.Normal++
		default:
			st.High++
		}
	}
	st.Count = len(readings)
	st.Average = int(math.Round(float64(sum) / float64(st.Count)))
	c := domain.Classify(float64(st.Average))
	st.AverageStatus, st.AverageAdvice = c.Status, c.Message
	latest := readings[0]
	st.Latest = &latest
	return st
}
