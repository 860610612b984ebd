package app

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"glicosmart/internal/domain"
)

// ReadingForm is the raw reading form as typed by the user. Notes is a
// pointer so an edit can tell a cleared note from an absent one.
type ReadingForm struct {
	Value  string  `json:"value"`
	Period string  `json:"period"`
	Notes  *string `json:"notes"`
	Date   string  `json:"date"`
	Time   string  `json:"time"`
}

// NewReading coerces the form into AddReading input. Date and time are
// interpreted in loc and must be given together; when both are empty the
// store clock is used.
func (f ReadingForm) NewReading(loc *time.Location) (NewReading, error) {
	value, err := domain.ParseValue(f.Value)
	if err != nil {
		return NewReading{}, err
	}
	period, err := domain.ParsePeriod(f.Period)
	if err != nil {
		return NewReading{}, err
	}
	ts, err := f.timestamp(loc)
	if err != nil {
		return NewReading{}, err
	}
	var notes string
	if f.Notes != nil {
		notes = strings.TrimSpace(*f.Notes)
	}
	return NewReading{Value: value, Period: period, Notes: notes, Timestamp: ts}, nil
}

// Patch coerces the form into an UpdateReading patch. Blank fields are left
// untouched, except notes: a present but blank note clears it.
func (f ReadingForm) Patch(loc *time.Location) (ReadingPatch, error) {
	var p ReadingPatch
	if strings.TrimSpace(f.Value) != "" {
		v, err := domain.ParseValue(f.Value)
		if err != nil {
			return ReadingPatch{}, err
		}
		p.Value = &v
	}
	if strings.TrimSpace(f.Period) != "" {
		period, err := domain.ParsePeriod(f.Period)
		if err != nil {
			return ReadingPatch{}, err
		}
		p.Period = &period
	}
	ts, err := f.timestamp(loc)
	if err != nil {
		return ReadingPatch{}, err
	}
	p.Timestamp = ts
	if f.Notes != nil {
		notes := strings.TrimSpace(*f.Notes)
		p.Notes = &notes
	}
	return p, nil
}

func (f ReadingForm) timestamp(loc *time.Location) (*time.Time, error) {
	date, clock := strings.TrimSpace(f.Date), strings.TrimSpace(f.Time)
	if date == "" && clock == "" {
		return nil, nil
	}
	if date == "" || clock == "" {
		return nil, fmt.Errorf("%w: date and time must be given together", domain.ErrInvalidReading)
	}
	ts, err := CombineDateTime(date, clock, loc)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

// CombineDateTime joins a "2006-01-02" date and a "15:04" clock time into an
// instant in loc (time.Local when nil).
func CombineDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	layout := "2006-01-02T15:04"
	if strings.Count(clock, ":") == 2 {
		layout = "2006-01-02T15:04:05"
	}
	ts, err := time.ParseInLocation(layout, date+"T"+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date/time %q %q", domain.ErrInvalidReading, date, clock)
	}
	return ts, nil
}

var errNotNumber = errors.New("not a number")

// ParseOptionalNumber validates an optional non-negative numeric string such
// as age or weight. It returns the trimmed value with a dot decimal separator.
func ParseOptionalNumber(s string) (string, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return "", nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return "", fmt.Errorf("%q: %w", s, errNotNumber)
	}
	return s, nil
}
