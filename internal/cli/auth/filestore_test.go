package auth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "credentials.json")
	return NewFileStore(path), path
}

func TestFileStore_SaveAndLoad(t *testing.T) {
	store, _ := newTestFileStore(t)

	cred := Credential{
		Token: "token-abc",
		User: UserSnapshot{
			ID:    "user-1",
			Name:  "Alice",
			Email: "alice@example.com",
			Role:  "admin",
		},
		ExpiresAt: time.Now().Add(time.Hour),
	}

	if err := store.Save("localhost:8080", cred); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := store.Load("localhost:8080")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Token != "token-abc" {
		t.Errorf("expected token 'token-abc', got '%s'", loaded.Token)
	}
	if loaded.User.Email != "alice@example.com" {
		t.Errorf("expected email 'alice@example.com', got '%s'", loaded.User.Email)
	}
}

func TestFileStore_LoadMissing(t *testing.T) {
	store, _ := newTestFileStore(t)

	_, err := store.Load("localhost:8080")
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestFileStore_ExpiredCredentialIsDeleted(t *testing.T) {
	store, _ := newTestFileStore(t)

	cred := Credential{
		Token:     "stale",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	if err := store.Save("localhost:8080", cred); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if _, err := store.Load("localhost:8080"); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated for expired credential, got %v", err)
	}

	// The slot is empty afterwards, not just rejected.
	if _, err := store.Load("localhost:8080"); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("expected expired credential to be removed, got %v", err)
	}
}

func TestFileStore_DeleteAbsentIsNoop(t *testing.T) {
	store, _ := newTestFileStore(t)

	if err := store.Delete("localhost:8080"); err != nil {
		t.Errorf("delete of absent credential should succeed, got %v", err)
	}
}

func TestFileStore_PerServerIsolation(t *testing.T) {
	store, _ := newTestFileStore(t)

	a := Credential{Token: "token-a", ExpiresAt: time.Now().Add(time.Hour)}
	b := Credential{Token: "token-b", ExpiresAt: time.Now().Add(time.Hour)}
	if err := store.Save("server-a:8080", a); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.Save("server-b:8080", b); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if err := store.Delete("server-a:8080"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := store.Load("server-a:8080"); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("expected server-a credential gone, got %v", err)
	}
	loaded, err := store.Load("server-b:8080")
	if err != nil {
		t.Fatalf("server-b credential should survive: %v", err)
	}
	if loaded.Token != "token-b" {
		t.Errorf("expected token 'token-b', got '%s'", loaded.Token)
	}
}

func TestFileStore_CorruptFileTreatedAsEmpty(t *testing.T) {
	store, path := newTestFileStore(t)

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Load("localhost:8080"); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("corrupt file should read as empty, got %v", err)
	}

	// And it can be written over.
	cred := Credential{Token: "fresh", ExpiresAt: time.Now().Add(time.Hour)}
	if err := store.Save("localhost:8080", cred); err != nil {
		t.Fatalf("save over corrupt file failed: %v", err)
	}
}

func TestFileStore_FilePermissions(t *testing.T) {
	store, path := newTestFileStore(t)

	cred := Credential{Token: "secret", ExpiresAt: time.Now().Add(time.Hour)}
	if err := store.Save("localhost:8080", cred); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected permissions 0600, got %04o", perm)
	}
}
