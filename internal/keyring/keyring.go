// Package keyring keeps energyflow's secrets in the OS keyring: the OpenAI
// API key used for generated suggestions and the PostgreSQL connection string.
package keyring

import (
	"errors"
	"fmt"

	"github.com/vistara-apps/energyflow/internal/constants"
	"github.com/zalando/go-keyring"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Secret names one entry stored under the energyflow service.
type Secret string

const (
	ConnectionString Secret = constants.DefaultKeyringUser
	APIKey           Secret = constants.APIKeyKeyringUser
)

// Get retrieves a secret. Returns ErrNotFound if nothing is stored.
func Get(s Secret) (string, error) {
	value, err := keyring.Get(constants.AppName, string(s))
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", ErrNotFound
		}
		// Wrap other keyring errors as unavailable
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return value, nil
}

// Set stores a secret, replacing any previous value.
func Set(s Secret, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", s.label())
	}
	if err := keyring.Set(constants.AppName, string(s), value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", s.label(), err)
	}
	return nil
}

// Delete removes a secret. Returns ErrNotFound if nothing was stored.
func Delete(s Secret) error {
	err := keyring.Delete(constants.AppName, string(s))
	if err != nil {
		if err == keyring.ErrNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", s.label(), err)
	}
	return nil
}

func (s Secret) label() string {
	switch s {
	case ConnectionString:
		return "connection string"
	case APIKey:
		return "API key"
	default:
		return string(s)
	}
}

// GetConnectionString retrieves the database connection string from the OS keyring.
func GetConnectionString() (string, error) {
	return Get(ConnectionString)
}

// SetConnectionString stores the database connection string in the OS keyring.
func SetConnectionString(connStr string) error {
	return Set(ConnectionString, connStr)
}

// DeleteConnectionString removes the database connection string from the OS keyring.
func DeleteConnectionString() error {
	return Delete(ConnectionString)
}

// GetAPIKey retrieves the OpenAI API key from the OS keyring.
func GetAPIKey() (string, error) {
	return Get(APIKey)
}

// SetAPIKey stores the OpenAI API key in the OS keyring.
func SetAPIKey(key string) error {
	return Set(APIKey, key)
}

// DeleteAPIKey removes the OpenAI API key from the OS keyring.
func DeleteAPIKey() error {
	return Delete(APIKey)
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	// ErrNotFound means the keyring answered, it is just empty
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || err == keyring.ErrNotFound
}
