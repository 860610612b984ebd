package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"glicosmart/internal/domain"

	"go.uber.org/zap"
)

// maxPhotoLen bounds the data-URL of a profile photo.
const maxPhotoLen = 10 << 20

// ProfileInput is the raw onboarding form.
type ProfileInput struct {
	Name   string
	Age    string
	Weight string
	Photo  *string
}

// ProfilePatch lists the profile fields UpdateProfile changes. A Photo
// pointing at an empty string removes the photo.
type ProfilePatch struct {
	Name   *string
	Age    *string
	Weight *string
	Photo  *string
}

// CreateAccount creates the local account under domain.DefaultAccountID,
// replacing any account already stored under that id, and makes it active.
func (s *Store) CreateAccount(ctx context.Context, in ProfileInput) (domain.Profile, error) {
	name, err := validateName(in.Name)
	if err != nil {
		return domain.Profile{}, err
	}
	age, err := ParseOptionalNumber(in.Age)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("%w: age: %w", domain.ErrInvalidProfile, err)
	}
	weight, err := ParseOptionalNumber(in.Weight)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("%w: weight: %w", domain.ErrInvalidProfile, err)
	}
	photo, err := validatePhoto(in.Photo)
	if err != nil {
		return domain.Profile{}, err
	}

	id := domain.DefaultAccountID
	profile := domain.Profile{Name: name, Age: age, Weight: weight, Photo: photo, AccountID: id}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.root[id]; exists {
		s.log.Info("replacing existing local account", zap.String("account", id))
	}
	s.root[id] = domain.Account{Profile: profile, Readings: []domain.Reading{}}
	s.active = id
	_ = s.save(ctx)
	return profile, nil
}

// SetActive switches the session to an existing account. It never touches
// durable storage.
func (s *Store) SetActive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.root[id]; !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownAccount, id)
	}
	s.active = id
	return nil
}

// Logout clears the session pointer. Stored data is kept.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = ""
}

// ActiveAccountID returns the active account id, or "" when logged out.
func (s *Store) ActiveAccountID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// UpdateProfile merges patch into the active profile. Without an active
// account it does nothing and returns the zero Profile.
func (s *Store) UpdateProfile(ctx context.Context, patch ProfilePatch) (domain.Profile, error) {
	var err error
	var name, age, weight string
	if patch.Name != nil {
		if name, err = validateName(*patch.Name); err != nil {
			return domain.Profile{}, err
		}
	}
	if patch.Age != nil {
		if age, err = ParseOptionalNumber(*patch.Age); err != nil {
			return domain.Profile{}, fmt.Errorf("%w: age: %w", domain.ErrInvalidProfile, err)
		}
	}
	if patch.Weight != nil {
		if weight, err = ParseOptionalNumber(*patch.Weight); err != nil {
			return domain.Profile{}, fmt.Errorf("%w: weight: %w", domain.ErrInvalidProfile, err)
		}
	}
	photo, err := validatePhoto(patch.Photo)
	if err != nil {
		return domain.Profile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.activeAccount()
	if !ok {
		s.log.Debug("profile update ignored", zap.Error(domain.ErrNoActiveAccount))
		return domain.Profile{}, nil
	}
	if patch.Name != nil {
		acc.Profile.Name = name
	}
	if patch.Age != nil {
		acc.Profile.Age = age
	}
	if patch.Weight != nil {
		acc.Profile.Weight = weight
	}
	if patch.Photo != nil {
		acc.Profile.Photo = photo
	}
	s.root[s.active] = acc
	_ = s.save(ctx)
	return acc.Clone().Profile, nil
}

// ResetReadings empties the active account's history and removes its photo,
// keeping the other profile fields.
func (s *Store) ResetReadings(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.activeAccount()
	if !ok {
		s.log.Debug("reset ignored", zap.Error(domain.ErrNoActiveAccount))
		return
	}
	acc.Readings = []domain.Reading{}
	acc.Profile.Photo = nil
	s.root[s.active] = acc
	_ = s.save(ctx)
}

// WipeAll deletes every account, clears the durable slot and logs out. The
// in-memory wipe happens even when clearing the slot fails.
func (s *Store) WipeAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.root = domain.StoreRoot{}
	s.active = ""
	if err := s.slot.Clear(ctx); err != nil {
		s.unsaved = true
		err = fmt.Errorf("%w: clear slot: %w", domain.ErrStorageWriteFailed, err)
		s.log.Error("wipe could not clear storage", zap.Error(err))
		return err
	}
	s.unsaved = false
	s.log.Info("all local data wiped")
	return nil
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", domain.ErrInvalidProfile)
	}
	return name, nil
}

func validatePhoto(photo *string) (*string, error) {
	if photo == nil || *photo == "" {
		return nil, nil
	}
	if len(*photo) > maxPhotoLen {
		return nil, fmt.Errorf("%w: photo exceeds %d bytes", domain.ErrInvalidProfile, maxPhotoLen)
	}
	p := *photo
	return &p, nil
}

// IsUserError reports whether err is a validation failure to show the user.
func IsUserError(err error) bool {
	return errors.Is(err, domain.ErrInvalidReading) || errors.Is(err, domain.ErrInvalidProfile)
}
