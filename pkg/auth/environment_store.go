package auth

import (
	"os"
	"time"
)

// EnvironmentStore implements Store using environment variables.
// This is primarily for backward compatibility with .env setups.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(creds *Credentials) error {
	return ErrStoreUnavailable
}

// Retrieve gets credentials from environment variables
func (e *EnvironmentStore) Retrieve(label string) (*Credentials, error) {
	accessKey := os.Getenv("PICFETCH_ACCESS_KEY")
	secretKey := os.Getenv("PICFETCH_SECRET_KEY")

	if accessKey == "" {
		return nil, ErrCredentialsNotFound
	}

	if label == "" {
		label = DefaultLabel
	}

	return &Credentials{
		Label:        label,
		AccessKey:    accessKey,
		SecretKey:    secretKey,
		LastModified: time.Now(),
	}, nil
}

// List returns a single credential set if environment variables are set
func (e *EnvironmentStore) List() ([]*Credentials, error) {
	creds, err := e.Retrieve("")
	if err != nil {
		return []*Credentials{}, nil
	}
	return []*Credentials{creds}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(label string) error {
	return ErrStoreUnavailable
}

// Exists checks if environment credentials exist
func (e *EnvironmentStore) Exists(label string) bool {
	return os.Getenv("PICFETCH_ACCESS_KEY") != ""
}
