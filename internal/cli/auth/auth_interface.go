package auth

// Store defines the interface for credential persistence. The session
// manager owns writes; the HTTP client only reads, except for the delete it
// performs on a global authentication failure. The interface also lets tests
// substitute an in-memory store for the OS keyring.
type Store interface {
	Save(server string, cred Credential) error
	Load(server string) (Credential, error)
	Delete(server string) error
}

// Default is the credential store used outside of tests: the OS keyring,
// falling back to an on-disk file when no keyring backend is available.
var Default Store = &fallbackStore{
	primary: &keyringStore{},
}

// fallbackStore tries the keyring first and degrades to the file store when
// the keyring backend errors (headless hosts, CI).
type fallbackStore struct {
	primary Store
	file    *FileStore
}

func (f *fallbackStore) fileStore() *FileStore {
	if f.file == nil {
		f.file = NewFileStore("")
	}
	return f.file
}

func (f *fallbackStore) Save(server string, cred Credential) error {
	if err := f.primary.Save(server, cred); err != nil {
		return f.fileStore().Save(server, cred)
	}
	return nil
}

func (f *fallbackStore) Load(server string) (Credential, error) {
	cred, err := f.primary.Load(server)
	if err == nil {
		return cred, nil
	}
	// An empty or broken keyring slot is not the final word: a credential
	// saved while the keyring was unavailable lives in the file store.
	return f.fileStore().Load(server)
}

func (f *fallbackStore) Delete(server string) error {
	// Delete from both so a credential can never survive in the fallback.
	errPrimary := f.primary.Delete(server)
	errFile := f.fileStore().Delete(server)
	if errPrimary != nil {
		return errPrimary
	}
	return errFile
}
