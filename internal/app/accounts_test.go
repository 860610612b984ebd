package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"glicosmart/internal/app"
	"glicosmart/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCreateAccount(t *testing.T) {
	slot := &mockSlot{}
	s := openStore(t, slot)

	p, err := s.CreateAccount(context.Background(), app.ProfileInput{Name: "  Ana ", Age: "30", Weight: "60,5"})
	require.NoError(t, err)
	assert.Equal(t, domain.Profile{Name: "Ana", Age: "30", Weight: "60.5", AccountID: domain.DefaultAccountID}, p)
	assert.Equal(t, domain.DefaultAccountID, s.ActiveAccountID())
	assert.Equal(t, 1, slot.writeCount())
	assert.Contains(t, string(slot.data), `"default_user"`)
}

func TestCreateAccount_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   app.ProfileInput
	}{
		{"empty name", app.ProfileInput{Name: "  "}},
		{"negative age", app.ProfileInput{Name: "Ana", Age: "-1"}},
		{"weight not a number", app.ProfileInput{Name: "Ana", Weight: "sessenta"}},
		{"photo too large", app.ProfileInput{Name: "Ana", Photo: strPtr(strings.Repeat("x", 10<<20+1))}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			slot := &mockSlot{}
			s := openStore(t, slot)
			_, err := s.CreateAccount(context.Background(), tc.in)
			require.ErrorIs(t, err, domain.ErrInvalidProfile)
			assert.True(t, app.IsUserError(err))
			assert.Empty(t, s.ActiveAccountID())
			assert.Zero(t, slot.writeCount())
		})
	}
}

func TestCreateAccount_ReplacesExisting(t *testing.T) {
	ctx := context.Background()
	s := openWithAccount(t, &mockSlot{})
	_, err := s.AddReading(ctx, app.NewReading{Value: 100})
	require.NoError(t, err)

	p, err := s.CreateAccount(ctx, app.ProfileInput{Name: "Bia"})
	require.NoError(t, err)
	assert.Equal(t, "Bia", p.Name)
	assert.Empty(t, s.Readings())
	assert.Len(t, s.Root(), 1)
}

func TestUpdateProfile_MergesFields(t *testing.T) {
	s := openWithAccount(t, &mockSlot{})

	p, err := s.UpdateProfile(context.Background(), app.ProfilePatch{Weight: strPtr("65")})
	require.NoError(t, err)
	assert.Equal(t, "65", p.Weight)
	assert.Equal(t, "Ana", p.Name)
	assert.Equal(t, "30", p.Age)
	assert.Equal(t, p, *s.Snapshot().Profile)
}

func TestUpdateProfile_Photo(t *testing.T) {
	ctx := context.Background()
	s := openWithAccount(t, &mockSlot{})

	p, err := s.UpdateProfile(ctx, app.ProfilePatch{Photo: strPtr("data:image/png;base64,AAAA")})
	require.NoError(t, err)
	require.NotNil(t, p.Photo)

	p, err = s.UpdateProfile(ctx, app.ProfilePatch{Photo: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, p.Photo)
}

func TestUpdateProfile_Invalid(t *testing.T) {
	slot := &mockSlot{}
	s := openWithAccount(t, slot)
	before := slot.writeCount()

	_, err := s.UpdateProfile(context.Background(), app.ProfilePatch{Name: strPtr(""), Weight: strPtr("70")})
	require.ErrorIs(t, err, domain.ErrInvalidProfile)
	assert.Equal(t, "60", s.Snapshot().Profile.Weight)
	assert.Equal(t, before, slot.writeCount())
}

func TestUpdateProfile_WithoutActiveAccount(t *testing.T) {
	s := openStore(t, &mockSlot{})
	p, err := s.UpdateProfile(context.Background(), app.ProfilePatch{Name: strPtr("Ana")})
	require.NoError(t, err)
	assert.Zero(t, p)
}

func TestResetReadings(t *testing.T) {
	ctx := context.Background()
	slot := &mockSlot{}
	s := openStore(t, slot)
	_, err := s.CreateAccount(ctx, app.ProfileInput{Name: "Ana", Age: "30", Weight: "60", Photo: strPtr("data:image/png;base64,AAAA")})
	require.NoError(t, err)
	for v := 100; v < 105; v++ {
		_, err := s.AddReading(ctx, app.NewReading{Value: v})
		require.NoError(t, err)
	}
	require.Len(t, s.Readings(), 5)

	s.ResetReadings(ctx)

	snap := s.Snapshot()
	assert.Empty(t, snap.Readings)
	assert.Nil(t, snap.Profile.Photo)
	assert.Equal(t, "Ana", snap.Profile.Name)
	assert.Equal(t, "30", snap.Profile.Age)
	assert.Equal(t, "60", snap.Profile.Weight)

	reloaded := openStore(t, slot)
	assert.Empty(t, reloaded.Readings())
	assert.Nil(t, reloaded.Snapshot().Profile.Photo)
}

func TestSessionSwitching(t *testing.T) {
	s := openWithAccount(t, &mockSlot{})

	s.Logout()
	assert.False(t, s.Snapshot().LoggedIn())
	assert.Len(t, s.Root(), 1, "logout keeps stored data")

	err := s.SetActive("nobody")
	require.ErrorIs(t, err, domain.ErrUnknownAccount)
	assert.Empty(t, s.ActiveAccountID())

	require.NoError(t, s.SetActive(domain.DefaultAccountID))
	assert.True(t, s.Snapshot().LoggedIn())
}

func TestWipeAll(t *testing.T) {
	ctx := context.Background()
	slot := &mockSlot{}
	s := openWithAccount(t, slot)

	require.NoError(t, s.WipeAll(ctx))
	assert.Empty(t, s.Root())
	assert.False(t, s.Snapshot().LoggedIn())
	assert.Equal(t, 1, slot.clears)
	assert.Nil(t, slot.data)

	reloaded := openStore(t, slot)
	assert.Empty(t, reloaded.Root())
}

func TestWipeAll_ClearFailure(t *testing.T) {
	slot := &mockSlot{}
	s := openWithAccount(t, slot)
	slot.clearFn = func(context.Context) error { return errors.New("locked") }

	err := s.WipeAll(context.Background())
	require.ErrorIs(t, err, domain.ErrStorageWriteFailed)
	assert.Empty(t, s.Root())
	assert.True(t, s.Snapshot().Unsaved)
}
