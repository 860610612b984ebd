package app

import (
	"errors"
	"math"
	"slices"
	"time"

	"glicosmart/internal/domain"
)

// ReadingSource supplies the active account's readings, newest first.
type ReadingSource interface {
	Readings() []domain.Reading
}

// ChartsService builds chart series from the active account's readings.
type ChartsService struct {
	src ReadingSource
	loc *time.Location
	now func() time.Time
}

// NewChartsService creates a ChartsService reading from src. Days are cut in
// loc (time.Local when nil).
func NewChartsService(src ReadingSource, loc *time.Location) *ChartsService {
	if loc == nil {
		loc = time.Local
	}
	return &ChartsService{src: src, loc: loc, now: time.Now}
}

// DayPoint aggregates one calendar day. Value fields are nil on days without
// readings.
type DayPoint struct {
	Day     string        `json:"day"`
	Count   int           `json:"count"`
	Average *float64      `json:"average"`
	Min     *float64      `json:"min"`
	Max     *float64      `json:"max"`
	Status  domain.Status `json:"status,omitempty"`
}

// TimelinePoint is one reading on the history line chart.
type TimelinePoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// GetDaily returns per-day aggregates for the last days days, oldest first,
// with values converted to unit.
func (s *ChartsService) GetDaily(days int, unit domain.Unit) ([]DayPoint, error) {
	if unit != domain.UnitMgDL && unit != domain.UnitMmolL {
		return nil, errors.New("unit must be \"mg/dL\" or \"mmol/L\"")
	}
	if days <= 0 {
		return nil, errors.New("days must be > 0")
	}
	if days > 366 {
		days = 366
	}

	byDay := make(map[string][]int)
	for _, r := range s.src.Readings() {
		day := r.Timestamp.In(s.loc).Format(time.DateOnly)
		byDay[day] = append(byDay[day], r.Value)
	}

	today := s.now().In(s.loc)
	points := make([]DayPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i).Format(time.DateOnly)
		values := byDay[day]
		p := DayPoint{Day: day, Count: len(values)}
		if len(values) > 0 {
			sum := 0
			for _, v := range values {
				sum += v
			}
			avg := float64(sum) / float64(len(values))
			p.Status = domain.Classify(avg).Status
			p.Average = convertPtr(avg, unit)
			p.Min = convertPtr(float64(slices.Min(values)), unit)
			p.Max = convertPtr(float64(slices.Max(values)), unit)
		}
		points = append(points, p)
	}
	return points, nil
}

// Timeline returns up to limit of the most recent readings matching f,
// oldest first, labelled "02/01 15:04".
func (s *ChartsService) Timeline(limit int, f Filter, unit domain.Unit) []TimelinePoint {
	readings := f.Apply(s.src.Readings())
	if limit > 0 && len(readings) > limit {
		readings = readings[:limit]
	}
	out := make([]TimelinePoint, 0, len(readings))
	for i := len(readings) - 1; i >= 0; i-- {
		r := readings[i]
		out = append(out, TimelinePoint{
			Label: r.Timestamp.In(s.loc).Format("02/01 15:04"),
			Value: *convertPtr(float64(r.Value), unit),
		})
	}
	return out
}

func convertPtr(v float64, unit domain.Unit) *float64 {
	c := math.Round(domain.ConvertGlucose(v, domain.UnitMgDL, unit)*10) / 10
	return &c
}
