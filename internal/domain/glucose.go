package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Period tags the moment of the day a reading was taken.
type Period string

const (
	PeriodFasting   Period = "fasting"
	PeriodPostLunch Period = "post-lunch"
	PeriodEvening   Period = "evening"
	PeriodRandom    Period = "random"
)

// Periods lists every valid period in display order.
var Periods = []Period{PeriodFasting, PeriodPostLunch, PeriodEvening, PeriodRandom}

// Valid reports whether p is one of the known periods.
func (p Period) Valid() bool {
	switch p {
	case PeriodFasting, PeriodPostLunch, PeriodEvening, PeriodRandom:
		return true
	}
	return false
}

// ParsePeriod maps form input to a Period. Empty input means PeriodRandom.
func ParsePeriod(s string) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PeriodRandom, nil
	}
	p := Period(s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: unknown period %q", ErrInvalidReading, s)
	}
	return p, nil
}

// Reading is a single blood-glucose measurement in mg/dL.
type Reading struct {
	ID        string    `json:"id"`
	Value     int       `json:"value"`
	Period    Period    `json:"period"`
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes,omitempty"`
}

// Status is the severity band a value falls in.
type Status string

const (
	StatusUnknown       Status = ""
	StatusHypoglycemia  Status = "Hipoglicemia"
	StatusNormal        Status = "Normal"
	StatusAlert         Status = "Alerta"
	StatusHyperglycemia Status = "Hiperglicemia"
)

// Tone is the presentation hint attached to a band.
type Tone string

const (
	ToneOK      Tone = "ok"
	ToneWarning Tone = "warning"
	ToneDanger  Tone = "danger"
)

// Band limits in mg/dL. A value v is Normal when HypoBelow <= v <= NormalMax,
// Alerta when NormalMax < v <= AlertMax.
const (
	HypoBelow = 70
	NormalMax = 144
	AlertMax  = 200
)

// Classification is the outcome of Classify.
type Classification struct {
	Status   Status `json:"status"`
	Severity int    `json:"severity"`
	Tone     Tone   `json:"tone"`
	Message  string `json:"message"`
}

var (
	hypoglycemia = Classification{
		Status:   StatusHypoglycemia,
		Severity: 3,
		Tone:     ToneDanger,
		Message:  "Atenção: Seu nível de açúcar está muito baixo! Coma algo doce imediatamente.",
	}
	normal = Classification{
		Status:   StatusNormal,
		Severity: 0,
		Tone:     ToneOK,
		Message:  "Ótimo! Sua glicemia está dentro do esperado.",
	}
	alert = Classification{
		Status:   StatusAlert,
		Severity: 1,
		Tone:     ToneWarning,
		Message:  "Cuidado: Nível um pouco alto. Beba água e evite doces.",
	}
	hyperglycemia = Classification{
		Status:   StatusHyperglycemia,
		Severity: 2,
		Tone:     ToneDanger,
		Message:  "Perigo: Glicemia muito alta. Recomendado consultar um médico.",
	}
)

// Classify maps a glucose value in mg/dL to its severity band.
// NaN yields the zero Classification.
func Classify(v float64) Classification {
	switch {
	case math.IsNaN(v):
		return Classification{}
	case v < HypoBelow:
		return hypoglycemia
	case v <= NormalMax:
		return normal
	case v <= AlertMax:
		return alert
	default:
		return hyperglycemia
	}
}

// ClassifyString parses raw input and classifies it.
func ClassifyString(s string) (Classification, error) {
	v, err := ParseValue(s)
	if err != nil {
		return Classification{}, err
	}
	return Classify(float64(v)), nil
}

// ParseValue converts form input into an integer mg/dL value. A comma is
// accepted as decimal separator and fractions are rounded half away from zero.
func ParseValue(s string) (int, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, fmt.Errorf("%w: value is required", ErrInvalidReading)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidReading, s)
	}
	if math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidReading, s)
	}
	return int(math.Round(f)), nil
}
