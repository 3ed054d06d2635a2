package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/zalando/go-keyring"
)

const (
	service = "arkiv-cli"

	// DefaultTTL bounds how long a persisted credential is honored before
	// the user has to log in again.
	DefaultTTL = 7 * 24 * time.Hour
)

// ErrNotAuthenticated is returned when no usable credential is stored for a
// server. An expired credential is treated the same as a missing one.
var ErrNotAuthenticated = errors.New("not authenticated. Please run 'arkiv login' first")

// UserSnapshot is the minimal user identity stored alongside the token so
// commands can show who is logged in without a network round trip.
type UserSnapshot struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Credential is the persisted login state for one server: the bearer token,
// a minimal user snapshot, and an expiry.
type Credential struct {
	Token     string       `json:"token"`
	User      UserSnapshot `json:"user"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Expired reports whether the credential is past its expiry.
func (c Credential) Expired() bool {
	return !c.ExpiresAt.IsZero() && time.Now().After(c.ExpiresAt)
}

// getKeyringKey returns a unique key for storing credentials per server
func getKeyringKey(server string) string {
	return fmt.Sprintf("credential-%s", server)
}

// keyringStore implements Store using the OS keychain/credential manager.
type keyringStore struct{}

func (k *keyringStore) Save(server string, cred Credential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}
	if err := keyring.Set(service, getKeyringKey(server), string(data)); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}

func (k *keyringStore) Load(server string) (Credential, error) {
	raw, err := keyring.Get(service, getKeyringKey(server))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return Credential{}, ErrNotAuthenticated
		}
		return Credential{}, fmt.Errorf("failed to load credential: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal([]byte(raw), &cred); err != nil {
		// Unreadable slot: delete it so the next login starts clean.
		_ = k.Delete(server)
		return Credential{}, ErrNotAuthenticated
	}

	if cred.Expired() {
		_ = k.Delete(server)
		return Credential{}, ErrNotAuthenticated
	}

	return cred, nil
}

func (k *keyringStore) Delete(server string) error {
	if err := keyring.Delete(service, getKeyringKey(server)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}
