package auth

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

// flakyStore is a primary store whose keyring can be made to fail or come
// up empty, for exercising the fallback paths.
type flakyStore struct {
	saveErr error
	loadErr error
	creds   map[string]Credential
}

func newFlakyStore() *flakyStore {
	return &flakyStore{creds: map[string]Credential{}}
}

func (s *flakyStore) Save(server string, cred Credential) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.creds[server] = cred
	return nil
}

func (s *flakyStore) Load(server string) (Credential, error) {
	if s.loadErr != nil {
		return Credential{}, s.loadErr
	}
	cred, ok := s.creds[server]
	if !ok {
		return Credential{}, ErrNotAuthenticated
	}
	return cred, nil
}

func (s *flakyStore) Delete(server string) error {
	delete(s.creds, server)
	return nil
}

func newTestFallbackStore(t *testing.T, primary Store) *fallbackStore {
	t.Helper()
	return &fallbackStore{
		primary: primary,
		file:    NewFileStore(filepath.Join(t.TempDir(), "credentials.json")),
	}
}

func TestFallbackStore_SaveDegradesToFile(t *testing.T) {
	primary := newFlakyStore()
	primary.saveErr = errors.New("keyring unavailable")
	store := newTestFallbackStore(t, primary)

	cred := Credential{Token: "token-abc", ExpiresAt: time.Now().Add(time.Hour)}
	if err := store.Save("localhost:8080", cred); err != nil {
		t.Fatalf("save should fall back to file, got %v", err)
	}

	loaded, err := store.file.Load("localhost:8080")
	if err != nil {
		t.Fatalf("file store should hold the credential: %v", err)
	}
	if loaded.Token != "token-abc" {
		t.Errorf("expected token 'token-abc', got '%s'", loaded.Token)
	}
}

// A credential written to the file store during a keyring outage must still
// be readable after the keyring recovers with an empty slot.
func TestFallbackStore_LoadConsultsFileWhenKeyringEmpty(t *testing.T) {
	primary := newFlakyStore()
	primary.saveErr = errors.New("keyring unavailable")
	store := newTestFallbackStore(t, primary)

	cred := Credential{Token: "token-abc", ExpiresAt: time.Now().Add(time.Hour)}
	if err := store.Save("localhost:8080", cred); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// Keyring is healthy again but has nothing for this server.
	primary.saveErr = nil

	loaded, err := store.Load("localhost:8080")
	if err != nil {
		t.Fatalf("load should consult the file store, got %v", err)
	}
	if loaded.Token != "token-abc" {
		t.Errorf("expected token 'token-abc', got '%s'", loaded.Token)
	}
}

func TestFallbackStore_LoadPrefersKeyring(t *testing.T) {
	primary := newFlakyStore()
	store := newTestFallbackStore(t, primary)

	primary.creds["localhost:8080"] = Credential{Token: "from-keyring", ExpiresAt: time.Now().Add(time.Hour)}
	if err := store.file.Save("localhost:8080", Credential{Token: "from-file", ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.Load("localhost:8080")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Token != "from-keyring" {
		t.Errorf("expected keyring credential to win, got '%s'", loaded.Token)
	}
}

func TestFallbackStore_LoadMissingEverywhere(t *testing.T) {
	store := newTestFallbackStore(t, newFlakyStore())

	if _, err := store.Load("localhost:8080"); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestFallbackStore_DeleteClearsBoth(t *testing.T) {
	primary := newFlakyStore()
	store := newTestFallbackStore(t, primary)

	cred := Credential{Token: "token-abc", ExpiresAt: time.Now().Add(time.Hour)}
	primary.creds["localhost:8080"] = cred
	if err := store.file.Save("localhost:8080", cred); err != nil {
		t.Fatal(err)
	}

	if err := store.Delete("localhost:8080"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := store.Load("localhost:8080"); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("expected credential gone from both stores, got %v", err)
	}
}
