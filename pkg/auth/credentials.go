package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// DefaultLabel names the credential set used when none is specified
const DefaultLabel = "default"

// Credentials represents an Unsplash API key pair
type Credentials struct {
	Label        string    `json:"label"`
	AccessKey    string    `json:"access_key"`
	SecretKey    string    `json:"secret_key,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// Store is the interface for storing and retrieving credentials
type Store interface {
	// Store saves a credential set
	Store(creds *Credentials) error

	// Retrieve gets the credential set with the given label
	Retrieve(label string) (*Credentials, error)

	// List returns all stored credential sets
	List() ([]*Credentials, error)

	// Delete removes the credential set with the given label
	Delete(label string) error

	// Exists checks if a credential set exists for a label
	Exists(label string) bool
}

// Manager handles credential storage with fallback mechanisms
type Manager struct {
	stores []Store
}

// NewManager creates a credential manager with the available storage
// backends: system keychain first, encrypted file as fallback,
// environment variables last.
func NewManager() (*Manager, error) {
	var stores []Store

	keyringStore, err := NewKeyringStore()
	if err == nil {
		stores = append(stores, keyringStore)
	}

	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "credentials.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, encryptedStore)

	stores = append(stores, NewEnvironmentStore())

	return &Manager{stores: stores}, nil
}

// Store saves credentials using the first store that accepts them
func (m *Manager) Store(creds *Credentials) error {
	if creds.Label == "" {
		creds.Label = DefaultLabel
	}
	if creds.AccessKey == "" {
		return errors.New("access key is required")
	}

	creds.LastModified = time.Now()

	var lastErr error
	for _, store := range m.stores {
		if err := store.Store(creds); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}

	if lastErr != nil {
		return fmt.Errorf("failed to store credentials: %w", lastErr)
	}
	return errors.New("no available credential stores")
}

// Retrieve gets credentials from the first store that has them
func (m *Manager) Retrieve(label string) (*Credentials, error) {
	for _, store := range m.stores {
		if creds, err := store.Retrieve(label); err == nil && creds != nil {
			return creds, nil
		}
	}
	return nil, fmt.Errorf("credentials not found for label: %s", label)
}

// RetrieveDefault gets the default credential set, preferring
// environment variables for backward compatibility with plain-config
// setups, then the first stored set.
func (m *Manager) RetrieveDefault() (*Credentials, error) {
	if envStore, ok := m.stores[len(m.stores)-1].(*EnvironmentStore); ok {
		if creds, err := envStore.Retrieve(""); err == nil && creds != nil {
			return creds, nil
		}
	}

	if creds, err := m.Retrieve(DefaultLabel); err == nil {
		return creds, nil
	}

	all, err := m.List()
	if err == nil && len(all) > 0 {
		return all[0], nil
	}

	return nil, errors.New("no credentials found")
}

// List returns all stored credential sets from all stores
func (m *Manager) List() ([]*Credentials, error) {
	credsMap := make(map[string]*Credentials)

	for _, store := range m.stores {
		all, err := store.List()
		if err != nil {
			continue
		}
		for _, creds := range all {
			// Use the most recently modified version
			if existing, ok := credsMap[creds.Label]; !ok || creds.LastModified.After(existing.LastModified) {
				credsMap[creds.Label] = creds
			}
		}
	}

	var result []*Credentials
	for _, creds := range credsMap {
		result = append(result, creds)
	}

	return result, nil
}

// Delete removes a credential set from all stores
func (m *Manager) Delete(label string) error {
	var deleted bool
	var lastErr error

	for _, store := range m.stores {
		if err := store.Delete(label); err == nil {
			deleted = true
		} else {
			lastErr = err
		}
	}

	if !deleted && lastErr != nil {
		return fmt.Errorf("failed to delete credentials: %w", lastErr)
	}
	if !deleted {
		return fmt.Errorf("credentials not found for label: %s", label)
	}

	return nil
}

// getConfigDir returns the configuration directory path
func getConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", "picfetch")
	case "windows":
		configDir = filepath.Join(os.Getenv("APPDATA"), "picfetch")
	default: // Linux and others
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			configDir = filepath.Join(xdgConfig, "picfetch")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			configDir = filepath.Join(home, ".config", "picfetch")
		}
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// Sanitize creates a copy of the credentials with sensitive data masked
func Sanitize(creds *Credentials) *Credentials {
	if creds == nil {
		return nil
	}

	return &Credentials{
		Label:        creds.Label,
		AccessKey:    maskString(creds.AccessKey),
		SecretKey:    maskString(creds.SecretKey),
		LastModified: creds.LastModified,
	}
}

// maskString masks all but the first 4 and last 4 characters of a string
func maskString(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// Errors
var (
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrStoreUnavailable    = errors.New("credential store unavailable")
)
