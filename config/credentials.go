package config

import (
	"fmt"
	"os"
)

// CredentialState describes the lifecycle of the stored API credential
type CredentialState string

const (
	CredentialAbsent     CredentialState = "absent"
	CredentialUnverified CredentialState = "unverified"
	CredentialValid      CredentialState = "valid"
	CredentialInvalid    CredentialState = "invalid"
)

const credentialKey = "credential"

// TokenStore is the durable backing for the credential. Satisfied by
// storage.KVStore.
type TokenStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// CredentialStore manages the API key lifecycle. The token is kept encrypted
// in the token store; a token from the environment takes precedence and is
// never persisted.
type CredentialStore struct {
	store      TokenStore
	encryption *EncryptionManager

	token   string
	state   CredentialState
	lastErr string
	fromEnv bool
}

// NewCredentialStore loads the credential. Precedence: environment
// (XLCHAT_API_KEY, then GEMINI_API_KEY), then the encrypted stored token.
// A stored token that fails to decrypt is discarded; the user is re-prompted.
func NewCredentialStore(store TokenStore, encryption *EncryptionManager) (*CredentialStore, error) {
	cs := &CredentialStore{
		store:      store,
		encryption: encryption,
		state:      CredentialAbsent,
	}

	if token := envToken(); token != "" {
		cs.token = token
		cs.state = CredentialUnverified
		cs.fromEnv = true
		return cs, nil
	}

	encoded, ok, err := store.Get(credentialKey)
	if err != nil {
		return cs, fmt.Errorf("failed to load credential: %w", err)
	}
	if !ok {
		return cs, nil
	}

	token, err := encryption.DecryptString(encoded)
	if err != nil {
		// Keyfile changed or blob corrupted. Treat as absent.
		_ = store.Delete(credentialKey)
		return cs, nil
	}

	cs.token = token
	cs.state = CredentialUnverified
	return cs, nil
}

func envToken() string {
	if token := os.Getenv("XLCHAT_API_KEY"); token != "" {
		return token
	}
	return os.Getenv("GEMINI_API_KEY")
}

// Token returns the current token ("" when absent)
func (cs *CredentialStore) Token() string {
	return cs.token
}

// State returns the credential lifecycle state
func (cs *CredentialStore) State() CredentialState {
	return cs.state
}

// HasToken reports whether a usable token is present
func (cs *CredentialStore) HasToken() bool {
	return cs.token != ""
}

// FromEnv reports whether the token came from the environment. Such tokens
// cannot be replaced or cleared from inside the app.
func (cs *CredentialStore) FromEnv() bool {
	return cs.fromEnv
}

// LastError returns the reason recorded by the most recent Invalidate
func (cs *CredentialStore) LastError() string {
	return cs.lastErr
}

// Save persists a new token and optimistically marks it valid. The token is
// only proven by a later successful request.
func (cs *CredentialStore) Save(token string) error {
	if token == "" {
		return fmt.Errorf("credential cannot be empty")
	}

	encoded, err := cs.encryption.EncryptString(token)
	if err != nil {
		return fmt.Errorf("failed to encrypt credential: %w", err)
	}

	if err := cs.store.Set(credentialKey, encoded); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}

	cs.token = token
	cs.state = CredentialValid
	cs.lastErr = ""
	cs.fromEnv = false
	return nil
}

// MarkValid records that a request succeeded with the current token
func (cs *CredentialStore) MarkValid() {
	if cs.token != "" {
		cs.state = CredentialValid
	}
}

// Invalidate clears the persisted token and records the reason. The caller
// must re-prompt for a new token. An environment token cannot be cleared
// here; the state still flips so the UI can explain.
func (cs *CredentialStore) Invalidate(reason string) error {
	cs.lastErr = reason

	if cs.fromEnv {
		cs.state = CredentialInvalid
		return nil
	}

	cs.token = ""
	cs.state = CredentialAbsent

	if err := cs.store.Delete(credentialKey); err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}
	return nil
}
