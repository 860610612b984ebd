package domain_test

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glicosmart/internal/domain"
)

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		value float64
		want  domain.Status
	}{
		{-5, domain.StatusHypoglycemia},
		{0, domain.StatusHypoglycemia},
		{69, domain.StatusHypoglycemia},
		{69.99, domain.StatusHypoglycemia},
		{70, domain.StatusNormal},
		{144, domain.StatusNormal},
		{144.5, domain.StatusAlert},
		{145, domain.StatusAlert},
		{200, domain.StatusAlert},
		{200.01, domain.StatusHyperglycemia},
		{201, domain.StatusHyperglycemia},
		{600, domain.StatusHyperglycemia},
		{math.Inf(-1), domain.StatusHypoglycemia},
		{math.Inf(1), domain.StatusHyperglycemia},
	}
	for _, tc := range tests {
		got := domain.Classify(tc.value)
		assert.Equal(t, tc.want, got.Status, "Classify(%v)", tc.value)
		assert.NotEmpty(t, got.Message, "Classify(%v) message", tc.value)
	}
}

func TestClassify_ScenarioA(t *testing.T) {
	want := map[float64]string{65: "Hipoglicemia", 100: "Normal", 160: "Alerta", 250: "Hiperglicemia"}
	for v, status := range want {
		assert.Equal(t, status, string(domain.Classify(v).Status))
	}
}

func TestClassify_PartitionsLine(t *testing.T) {
	seen := map[domain.Status]bool{}
	for v := -50.0; v <= 700; v += 0.25 {
		c := domain.Classify(v)
		require.NotEqual(t, domain.StatusUnknown, c.Status, "value %v", v)
		seen[c.Status] = true

		var want domain.Status
		switch {
		case v < 70:
			want = domain.StatusHypoglycemia
		case v >= 70 && v <= 144:
			want = domain.StatusNormal
		case v > 144 && v <= 200:
			want = domain.StatusAlert
		case v > 200:
			want = domain.StatusHyperglycemia
		}
		require.Equal(t, want, c.Status, "value %v", v)
	}
	assert.Len(t, seen, 4)
}

func TestClassify_NaN(t *testing.T) {
	assert.Equal(t, domain.Classification{}, domain.Classify(math.NaN()))
}

func TestClassify_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for v := range 300 {
				_ = domain.Classify(float64(v + i))
			}
		}()
	}
	wg.Wait()
}

func TestClassify_SeverityRanks(t *testing.T) {
	assert.Equal(t, 0, domain.Classify(100).Severity)
	assert.Equal(t, 1, domain.Classify(160).Severity)
	assert.Equal(t, 2, domain.Classify(250).Severity)
	assert.Equal(t, 3, domain.Classify(50).Severity)
}

func TestClassifyString(t *testing.T) {
	c, err := domain.ClassifyString(" 160 ")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAlert, c.Status)

	for _, in := range []string{"", "abc", "NaN", "Inf", "12a"} {
		_, err := domain.ClassifyString(in)
		assert.True(t, errors.Is(err, domain.ErrInvalidReading), "input %q", in)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"120", 120},
		{" 98 ", 98},
		{"99,6", 100},
		{"143.4", 143},
		{"144.5", 145},
	}
	for _, tc := range tests {
		got, err := domain.ParseValue(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, err := domain.ParseValue("1e20")
	assert.ErrorIs(t, err, domain.ErrInvalidReading)
}

func TestParsePeriod(t *testing.T) {
	p, err := domain.ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, domain.PeriodRandom, p)

	p, err = domain.ParsePeriod("Post-Lunch")
	require.NoError(t, err)
	assert.Equal(t, domain.PeriodPostLunch, p)

	_, err = domain.ParsePeriod("brunch")
	assert.ErrorIs(t, err, domain.ErrInvalidReading)
}

func TestStoreRootClone(t *testing.T) {
	photo := "data:image/jpeg;base64,AAAA"
	root := domain.StoreRoot{
		"b": {Profile: domain.Profile{Name: "Bia", Photo: &photo}, Readings: []domain.Reading{{ID: "1", Value: 90}}},
		"a": {Profile: domain.Profile{Name: "Ana"}},
	}
	c := root.Clone()
	c["b"].Readings[0].Value = 300
	*c["b"].Profile.Photo = "changed"

	assert.Equal(t, 90, root["b"].Readings[0].Value)
	assert.Equal(t, "data:image/jpeg;base64,AAAA", *root["b"].Profile.Photo)
	assert.NotNil(t, c["a"].Readings)
	assert.Equal(t, []string{"a", "b"}, root.IDs())
}
