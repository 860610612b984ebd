package app

import (
	"bytes"
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"time"

	"glicosmart/internal/domain"
)

// Persisted data is untrusted: it may have been written by an older build,
// another browser tab or edited by hand. It is decoded into the loose shapes
// below and then validated into the domain model. Only entries that cannot be
// recovered at all are skipped, and skipping alone never triggers a save.

type rawAccount struct {
	Profile  json.RawMessage `json:"profile"`
	Readings json.RawMessage `json:"readings"`
}

type rawProfile struct {
	Name   looseString     `json:"name"`
	Age    looseString     `json:"age"`
	Weight looseString     `json:"weight"`
	Photo  json.RawMessage `json:"photo"`
	Email  looseString     `json:"email"`
}

type rawReading struct {
	ID        looseString     `json:"id"`
	Value     json.RawMessage `json:"value"`
	Period    looseString     `json:"period"`
	Timestamp looseString     `json:"timestamp"`
	Notes     looseString     `json:"notes"`
}

// looseString accepts strings, numbers, booleans and null. Objects and arrays
// decode as the empty string.
type looseString string

func (l *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*l = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = looseString(s)
	case b[0] == '{' || b[0] == '[':
		*l = ""
	default:
		*l = looseString(b)
	}
	return nil
}

// Zoneless timestamps are read in the store's location.
var localTimestampLayouts = []string{"2006-01-02T15:04:05", "2006-01-02T15:04", time.DateOnly}

func parseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, true
	}
	for _, layout := range localTimestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// decoded is the outcome of decodeRoot.
type decoded struct {
	root domain.StoreRoot
	// repaired is set when ids, periods, values or ordering were fixed and
	// the healed root should be written back.
	repaired bool
	// skipped counts accounts and readings that could not be recovered.
	skipped int
}

// decodeRoot parses slot content. An empty slot yields an empty root.
func decodeRoot(data []byte, newID func() string, loc *time.Location) (decoded, error) {
	out := decoded{root: domain.StoreRoot{}}
	if len(bytes.TrimSpace(data)) == 0 {
		return out, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return decoded{}, err
	}

	for id, msg := range raw {
		acc, fixed, skipped, ok := decodeAccount(msg, newID, loc)
		if !ok {
			out.skipped++
			continue
		}
		out.repaired = out.repaired || fixed
		out.skipped += skipped
		out.root[id] = acc
	}
	return out, nil
}

func decodeAccount(msg json.RawMessage, newID func() string, loc *time.Location) (acc domain.Account, fixed bool, skipped int, ok bool) {
	var raw rawAccount
	if err := json.Unmarshal(msg, &raw); err != nil || bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
		return domain.Account{}, false, 0, false
	}

	var profile rawProfile
	_ = json.Unmarshal(raw.Profile, &profile)
	acc.Profile = domain.Profile{
		Name:      string(profile.Name),
		Age:       string(profile.Age),
		Weight:    string(profile.Weight),
		AccountID: string(profile.Email),
	}
	var photo string
	if len(profile.Photo) > 0 && json.Unmarshal(profile.Photo, &photo) == nil && photo != "" {
		acc.Profile.Photo = &photo
	}

	var items []json.RawMessage
	readings := bytes.TrimSpace(raw.Readings)
	switch {
	case len(readings) == 0 || bytes.Equal(readings, []byte("null")):
		fixed = true
	case json.Unmarshal(readings, &items) != nil:
		skipped++
	}
	acc.Readings = make([]domain.Reading, 0, len(items))

	for _, m := range items {
		r, readingFixed, ok := decodeReading(m, loc)
		if !ok {
			skipped++
			continue
		}
		fixed = fixed || readingFixed
		acc.Readings = append(acc.Readings, r)
	}

	var idsFixed bool
	acc.Readings, idsFixed = RepairIDs(acc.Readings, newID)
	if !slices.IsSortedFunc(acc.Readings, newestFirst) {
		sortReadings(acc.Readings)
		fixed = true
	}
	return acc, fixed || idsFixed, skipped, true
}

func decodeReading(msg json.RawMessage, loc *time.Location) (domain.Reading, bool, bool) {
	var raw rawReading
	if err := json.Unmarshal(msg, &raw); err != nil {
		return domain.Reading{}, false, false
	}

	value, exact, ok := decodeValue(raw.Value)
	if !ok {
		return domain.Reading{}, false, false
	}
	ts, ok := parseTimestamp(string(raw.Timestamp), loc)
	if !ok {
		return domain.Reading{}, false, false
	}

	fixed := !exact
	period := domain.Period(raw.Period)
	if !period.Valid() {
		period = domain.PeriodRandom
		fixed = true
	}
	return domain.Reading{
		ID:        string(raw.ID),
		Value:     value,
		Period:    period,
		Timestamp: ts.UTC(),
		Notes:     string(raw.Notes),
	}, fixed, true
}
// decodeValue accepts a JSON number or a numeric string. exact is false when
// the stored form differs from the integer that will be written back.
func decodeValue(msg json.RawMessage) (value int, exact, ok bool) {
	msg = bytes.TrimSpace(msg)
	if len(msg) == 0 {
		return 0, false, false
	}
	if msg[0] == '"' {
		var s string
		if json.Unmarshal(msg, &s) != nil {
			return 0, false, false
		}
		v, err := domain.ParseValue(s)
		return v, false, err == nil
	}
	f, err := strconv.ParseFloat(string(msg), 64)
	if err != nil || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0, false, false
	}
	return int(math.Round(f)), f == math.Round(f), true
}
