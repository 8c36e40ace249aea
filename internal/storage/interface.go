// Package storage defines the persistence boundary for the user aggregate.
//
// Every backend stores exactly one user. SaveUser replaces the whole
// aggregate, so the last writer wins.
package storage

import (
	"errors"

	"github.com/vistara-apps/energyflow/internal/models"
)

// ErrNotInitialized is returned by Load when the backend has never been set up.
var ErrNotInitialized = errors.New("storage not initialized, run 'energyflow init' first")

// ErrUnreadable is returned by LoadUser when the stored data exists but
// cannot be decoded. Load still succeeds so the next SaveUser can replace it.
var ErrUnreadable = errors.New("saved data could not be read")

type Provider interface {
	// Lifecycle. Init is safe to call on an initialized store.
	Init() error
	Load() error
	Close() error

	// LoadUser returns nil and no error when no user has been saved yet.
	LoadUser() (*models.User, error)
	SaveUser(models.User) error
	// Clear removes the saved user and all of its history.
	Clear() error

	// GetConfigPath returns a non-sensitive identifier of where data lives.
	GetConfigPath() string
}
