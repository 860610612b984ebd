// Package domain contains the core entities, the glucose classifier and the
// storage port.
package domain

import (
	"context"
	"maps"
	"slices"
)

// DefaultAccountID is the fixed identifier of the single local account.
const DefaultAccountID = "default_user"

// SlotKey names the durable slot holding the Store Root.
const SlotKey = "glicosmart_users"

// Profile is the user-editable part of an account.
type Profile struct {
	Name      string  `json:"name"`
	Age       string  `json:"age"`
	Weight    string  `json:"weight"`
	Photo     *string `json:"photo"`
	AccountID string  `json:"email"`
}

// Account owns a profile and its reading history.
type Account struct {
	Profile  Profile   `json:"profile"`
	Readings []Reading `json:"readings"`
}

// StoreRoot maps account ids to accounts. It is the unit of persistence.
type StoreRoot map[string]Account

// Clone returns a deep copy of r.
func (r StoreRoot) Clone() StoreRoot {
	out := make(StoreRoot, len(r))
	for id, acc := range r {
		out[id] = acc.Clone()
	}
	return out
}

// IDs returns the account ids in ascending order.
func (r StoreRoot) IDs() []string {
	return slices.Sorted(maps.Keys(r))
}

// Clone returns a deep copy of a.
func (a Account) Clone() Account {
	c := Account{Profile: a.Profile, Readings: slices.Clone(a.Readings)}
	if a.Profile.Photo != nil {
		p := *a.Profile.Photo
		c.Profile.Photo = &p
	}
	if c.Readings == nil {
		c.Readings = []Reading{}
	}
	return c
}

// Slot is the port for the single durable key-value slot holding the
// serialised Store Root.
type Slot interface {
	// Read returns the slot content, or nil with a nil error when the slot is empty.
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Clear(ctx context.Context) error
}
