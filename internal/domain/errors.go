package domain

import "errors"

var (
	// ErrInvalidReading indicates a missing or non-numeric reading field.
	ErrInvalidReading = errors.New("invalid reading")
	// ErrInvalidProfile indicates profile input that failed validation.
	ErrInvalidProfile = errors.New("invalid profile")
	// ErrNoActiveAccount indicates a call that needs a logged-in session.
	ErrNoActiveAccount = errors.New("no active account")
	// ErrUnknownAccount indicates an account id that is not in the store.
	ErrUnknownAccount = errors.New("unknown account")
	// ErrStorageReadCorrupt indicates persisted data that could not be decoded.
	ErrStorageReadCorrupt = errors.New("storage data corrupt")
	// ErrStorageWriteFailed indicates a save that did not reach durable storage.
	ErrStorageWriteFailed = errors.New("storage write failed")
)
