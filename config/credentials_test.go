package config

import (
	"testing"
)

// fakeTokenStore is an in-memory TokenStore
type fakeTokenStore struct {
	values map[string]string
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{values: map[string]string{}}
}

func (f *fakeTokenStore) Get(key string) (string, bool, error) {
	value, ok := f.values[key]
	return value, ok, nil
}

func (f *fakeTokenStore) Set(key, value string) error {
	f.values[key] = value
	return nil
}

func (f *fakeTokenStore) Delete(key string) error {
	delete(f.values, key)
	return nil
}

func newTestEncryption(t *testing.T) *EncryptionManager {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	enc, err := NewEncryptionManager()
	if err != nil {
		t.Fatalf("Failed to create encryption manager: %v", err)
	}
	return enc
}

func clearCredentialEnv(t *testing.T) {
	t.Helper()
	t.Setenv("XLCHAT_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
}

func TestEncryptionRoundTrip(t *testing.T) {
	enc := newTestEncryption(t)

	secret := "sk-test-12345"
	encoded, err := enc.EncryptString(secret)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if encoded == secret {
		t.Fatal("Ciphertext equals plaintext")
	}

	decoded, err := enc.DecryptString(encoded)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if decoded != secret {
		t.Errorf("Round trip mismatch: %q", decoded)
	}
}

func TestCredentialLifecycle(t *testing.T) {
	clearCredentialEnv(t)
	enc := newTestEncryption(t)
	store := newFakeTokenStore()

	cs, err := NewCredentialStore(store, enc)
	if err != nil {
		t.Fatalf("NewCredentialStore failed: %v", err)
	}
	if cs.HasToken() || cs.State() != CredentialAbsent {
		t.Fatalf("Fresh store should be absent, got state %s", cs.State())
	}

	if err := cs.Save(""); err == nil {
		t.Error("Empty credential should be rejected")
	}

	if err := cs.Save("my-key"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !cs.HasToken() || cs.State() != CredentialValid {
		t.Errorf("Saved credential should be optimistically valid, got %s", cs.State())
	}
	if store.values[credentialKey] == "my-key" {
		t.Error("Credential persisted unencrypted")
	}

	// Invalidate clears the token and records the reason
	if err := cs.Invalidate("rejected by provider"); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	if cs.HasToken() || cs.State() != CredentialAbsent {
		t.Errorf("Invalidated credential should be gone, got %s", cs.State())
	}
	if cs.LastError() != "rejected by provider" {
		t.Errorf("Reason not recorded: %q", cs.LastError())
	}
	if _, ok := store.values[credentialKey]; ok {
		t.Error("Stored credential should be deleted on invalidation")
	}
}

func TestCredentialReloadsFromStore(t *testing.T) {
	clearCredentialEnv(t)
	enc := newTestEncryption(t)
	store := newFakeTokenStore()

	cs, _ := NewCredentialStore(store, enc)
	if err := cs.Save("persisted-key"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := NewCredentialStore(store, enc)
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if reloaded.Token() != "persisted-key" {
		t.Errorf("Expected persisted token, got %q", reloaded.Token())
	}
	if reloaded.State() != CredentialUnverified {
		t.Errorf("Reloaded token should be unverified, got %s", reloaded.State())
	}
}

func TestCredentialUndecryptableTreatedAsAbsent(t *testing.T) {
	clearCredentialEnv(t)
	enc := newTestEncryption(t)
	store := newFakeTokenStore()
	store.values[credentialKey] = "not-valid-ciphertext"

	cs, err := NewCredentialStore(store, enc)
	if err != nil {
		t.Fatalf("NewCredentialStore failed: %v", err)
	}
	if cs.HasToken() {
		t.Error("Undecryptable credential should be treated as absent")
	}
	if _, ok := store.values[credentialKey]; ok {
		t.Error("Undecryptable credential should be discarded")
	}
}

func TestCredentialFromEnvironment(t *testing.T) {
	t.Setenv("XLCHAT_API_KEY", "env-key")
	t.Setenv("GEMINI_API_KEY", "")
	enc := newTestEncryption(t)
	store := newFakeTokenStore()

	cs, err := NewCredentialStore(store, enc)
	if err != nil {
		t.Fatalf("NewCredentialStore failed: %v", err)
	}
	if !cs.FromEnv() || cs.Token() != "env-key" {
		t.Fatalf("Expected env token, got %q fromEnv=%v", cs.Token(), cs.FromEnv())
	}

	// Invalidating an env token flips state but cannot clear it
	if err := cs.Invalidate("bad key"); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	if cs.State() != CredentialInvalid {
		t.Errorf("Expected invalid state, got %s", cs.State())
	}
	if !cs.HasToken() {
		t.Error("Env token should survive invalidation")
	}
}
