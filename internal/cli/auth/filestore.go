package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const credentialsFileName = "credentials.json"

// FileStore persists credentials in a JSON file under the user config
// directory. It is the fallback for hosts without a usable OS keyring.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed credential store. An empty path uses
// ~/.config/arkiv/credentials.json.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) resolvePath() (string, error) {
	if f.path != "" {
		return f.path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "arkiv", credentialsFileName), nil
}

func (f *FileStore) read() (map[string]Credential, string, error) {
	path, err := f.resolvePath()
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Credential{}, path, nil
		}
		return nil, "", fmt.Errorf("failed to read credentials file: %w", err)
	}

	creds := map[string]Credential{}
	if err := json.Unmarshal(data, &creds); err != nil {
		// Corrupt file: treat as empty rather than locking the user out.
		return map[string]Credential{}, path, nil
	}
	return creds, path, nil
}

func (f *FileStore) write(path string, creds map[string]Credential) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	// Tokens only, so the file must not be world-readable.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	return nil
}

// Save stores the credential for a server.
func (f *FileStore) Save(server string, cred Credential) error {
	creds, path, err := f.read()
	if err != nil {
		return err
	}
	creds[server] = cred
	return f.write(path, creds)
}

// Load retrieves the credential for a server. Expired or missing
// credentials yield ErrNotAuthenticated.
func (f *FileStore) Load(server string) (Credential, error) {
	creds, path, err := f.read()
	if err != nil {
		return Credential{}, err
	}

	cred, ok := creds[server]
	if !ok {
		return Credential{}, ErrNotAuthenticated
	}

	if cred.Expired() {
		delete(creds, server)
		_ = f.write(path, creds)
		return Credential{}, ErrNotAuthenticated
	}

	return cred, nil
}

// Delete removes the credential for a server. Deleting an absent credential
// is a no-op.
func (f *FileStore) Delete(server string) error {
	creds, path, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := creds[server]; !ok {
		return nil
	}
	delete(creds, server)
	return f.write(path, creds)
}
