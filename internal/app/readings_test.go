package app_test

import (
	"context"
	"testing"
	"time"

	"glicosmart/internal/app"
	"glicosmart/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddReading_ClassifiesEachBand(t *testing.T) {
	s := openWithAccount(t, &mockSlot{})
	want := map[int]domain.Status{
		65:  domain.StatusHypoglycemia,
		100: domain.StatusNormal,
		160: domain.StatusAlert,
		250: domain.StatusHyperglycemia,
	}
	for _, v := range []int{65, 100, 160, 250} {
		r, err := s.AddReading(context.Background(), app.NewReading{Value: v})
		require.NoError(t, err)
		assert.Equal(t, want[v], domain.Classify(float64(r.Value)).Status)
	}
	assert.Len(t, s.Readings(), 4)
}

func TestAddReading_DefaultsAndOrdering(t *testing.T) {
	ctx := context.Background()
	s := openWithAccount(t, &mockSlot{})

	first, err := s.AddReading(ctx, app.NewReading{Value: 100})
	require.NoError(t, err)
	assert.Equal(t, domain.PeriodRandom, first.Period)
	assert.True(t, first.Timestamp.Equal(baseTime))

	earlier := baseTime.Add(-48 * time.Hour)
	_, err = s.AddReading(ctx, app.NewReading{Value: 90, Period: domain.PeriodFasting, Timestamp: &earlier})
	require.NoError(t, err)

	second, err := s.AddReading(ctx, app.NewReading{Value: 130, Period: domain.PeriodEvening})
	require.NoError(t, err)

	got := s.Readings()
	require.Len(t, got, 3)
	// Same timestamp: the newest insertion comes first.
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
	assert.Equal(t, 90, got[2].Value)
}

func TestAddReading_InvalidPeriod(t *testing.T) {
	slot := &mockSlot{}
	s := openWithAccount(t, slot)
	before := slot.writeCount()

	_, err := s.AddReading(context.Background(), app.NewReading{Value: 100, Period: "brunch"})
	require.ErrorIs(t, err, domain.ErrInvalidReading)
	assert.Empty(t, s.Readings())
	assert.Equal(t, before, slot.writeCount())
}

func TestAddReading_DistinctIDsWithinSameInstant(t *testing.T) {
	tests := []struct {
		name string
		opts []app.Option
	}{
		{"uuid generator", nil},
		{"repeating generator", []app.Option{app.WithIDFunc(func() string { return "same" })}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts := append(tc.opts, app.WithClock(func() time.Time { return baseTime }))
			s, err := app.Open(context.Background(), &mockSlot{}, opts...)
			require.NoError(t, err)
			_, err = s.CreateAccount(context.Background(), app.ProfileInput{Name: "Ana"})
			require.NoError(t, err)

			a, err := s.AddReading(context.Background(), app.NewReading{Value: 100})
			require.NoError(t, err)
			b, err := s.AddReading(context.Background(), app.NewReading{Value: 101})
			require.NoError(t, err)
			assert.NotEqual(t, a.ID, b.ID)
			assert.NotEmpty(t, a.ID)
			assert.NotEmpty(t, b.ID)
		})
	}
}

func TestUpdateReading(t *testing.T) {
	ctx := context.Background()
	s := openWithAccount(t, &mockSlot{})
	r, err := s.AddReading(ctx, app.NewReading{Value: 100, Notes: "jejum"})
	require.NoError(t, err)

	v := 180
	p := domain.PeriodPostLunch
	c, err := s.UpdateReading(ctx, r.ID, app.ReadingPatch{Value: &v, Period: &p})
	require.NoError(t, err)
	require.Equal(t, app.ChangeApplied, c)

	got := s.Readings()[0]
	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, 180, got.Value)
	assert.Equal(t, domain.PeriodPostLunch, got.Period)
	assert.Equal(t, "jejum", got.Notes)
	assert.True(t, got.Timestamp.Equal(r.Timestamp))

	c, err = s.UpdateReading(ctx, "missing", app.ReadingPatch{Value: &v})
	require.NoError(t, err)
	assert.Equal(t, app.ChangeNotFound, c)

	empty := ""
	c, err = s.UpdateReading(ctx, r.ID, app.ReadingPatch{Notes: &empty})
	require.NoError(t, err)
	require.Equal(t, app.ChangeApplied, c)
	assert.Empty(t, s.Readings()[0].Notes)

	bad := domain.Period("brunch")
	_, err = s.UpdateReading(ctx, r.ID, app.ReadingPatch{Period: &bad})
	require.ErrorIs(t, err, domain.ErrInvalidReading)
}

func TestUpdateReading_ResortsOnTimestampChange(t *testing.T) {
	ctx := context.Background()
	s := openWithAccount(t, &mockSlot{})
	old, err := s.AddReading(ctx, app.NewReading{Value: 100})
	require.NoError(t, err)
	later := baseTime.Add(time.Hour)
	_, err = s.AddReading(ctx, app.NewReading{Value: 110, Timestamp: &later})
	require.NoError(t, err)

	newest := baseTime.Add(2 * time.Hour)
	c, err := s.UpdateReading(ctx, old.ID, app.ReadingPatch{Timestamp: &newest})
	require.NoError(t, err)
	require.Equal(t, app.ChangeApplied, c)
	assert.Equal(t, old.ID, s.Readings()[0].ID)
}

func TestDeleteReading(t *testing.T) {
	ctx := context.Background()
	slot := &mockSlot{}
	s := openWithAccount(t, slot)
	r, err := s.AddReading(ctx, app.NewReading{Value: 100})
	require.NoError(t, err)

	before := slot.writeCount()
	assert.Equal(t, app.ChangeNotFound, s.DeleteReading(ctx, "missing"))
	assert.Equal(t, before, slot.writeCount())

	assert.Equal(t, app.ChangeApplied, s.DeleteReading(ctx, r.ID))
	assert.Empty(t, s.Readings())
	assert.Equal(t, before+1, slot.writeCount())
}

func TestReadingOps_WithoutActiveAccount(t *testing.T) {
	ctx := context.Background()
	slot := &mockSlot{}
	s := openWithAccount(t, slot)
	r, err := s.AddReading(ctx, app.NewReading{Value: 100})
	require.NoError(t, err)
	s.Logout()
	before := slot.writeCount()

	got, err := s.AddReading(ctx, app.NewReading{Value: 120})
	require.NoError(t, err)
	assert.Zero(t, got)

	v := 130
	c, err := s.UpdateReading(ctx, r.ID, app.ReadingPatch{Value: &v})
	require.NoError(t, err)
	assert.Equal(t, app.ChangeNoSession, c)
	assert.Equal(t, app.ChangeNoSession, s.DeleteReading(ctx, r.ID))
	assert.Empty(t, s.Readings())
	assert.Equal(t, before, slot.writeCount())

	require.NoError(t, s.SetActive(domain.DefaultAccountID))
	require.Len(t, s.Readings(), 1)
	assert.Equal(t, 100, s.Readings()[0].Value)
}

func TestRepairIDs(t *testing.T) {
	in := []domain.Reading{{ID: "1"}, {ID: "1"}, {ID: ""}, {ID: "r1"}}
	out, changed := app.RepairIDs(in, seqIDs())
	require.True(t, changed)

	seen := map[string]bool{}
	for _, r := range out {
		require.NotEmpty(t, r.ID)
		require.False(t, seen[r.ID], "duplicate %s", r.ID)
		seen[r.ID] = true
	}
	assert.Equal(t, "1", out[0].ID)
	assert.Equal(t, "r1", out[3].ID)
	assert.Equal(t, "1", in[1].ID, "input must not be modified")

	again, changed := app.RepairIDs(out, seqIDs())
	assert.False(t, changed)
	assert.Equal(t, out, again)
}
