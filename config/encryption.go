package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/scrypt"
)

const keyfileName = "secret.key"

// EncryptionManager encrypts small secrets (the API credential) at rest.
// The AES key is derived with scrypt from a random per-install keyfile in
// the config directory, so ciphertexts are useless without that file.
type EncryptionManager struct {
	aesKey []byte
}

// NewEncryptionManager loads the keyfile, creating it on first use.
func NewEncryptionManager() (*EncryptionManager, error) {
	configDir := GetConfigDir()
	if err := EnsureDir(configDir); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	keyPath := filepath.Join(configDir, keyfileName)

	seed, err := os.ReadFile(keyPath)
	if os.IsNotExist(err) {
		seed = make([]byte, 32)
		if _, err := io.ReadFull(rand.Reader, seed); err != nil {
			return nil, fmt.Errorf("failed to generate key material: %w", err)
		}
		if err := os.WriteFile(keyPath, seed, 0600); err != nil {
			return nil, fmt.Errorf("failed to write keyfile: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to read keyfile: %w", err)
	}

	aesKey, err := scrypt.Key(seed, []byte("xlchat-credential-v1"), 1<<15, 8, 1, 32)
	if err != nil {
		return nil, fmt.Errorf("failed to derive encryption key: %w", err)
	}

	return &EncryptionManager{aesKey: aesKey}, nil
}

// EncryptString encrypts a secret and returns it base64-encoded
func (e *EncryptionManager) EncryptString(plaintext string) (string, error) {
	ciphertext, err := encryptAESGCM([]byte(plaintext), e.aesKey)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// DecryptString decrypts a base64-encoded secret
func (e *EncryptionManager) DecryptString(encoded string) (string, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	plaintext, err := decryptAESGCM(ciphertext, e.aesKey)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}

// encryptAESGCM encrypts data using AES-256-GCM
// Format: [nonce (12 bytes)][ciphertext + tag]
func encryptAESGCM(plaintext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// decryptAESGCM decrypts data using AES-256-GCM
// Expects format: [nonce (12 bytes)][ciphertext + tag]
func decryptAESGCM(ciphertext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	nonce := ciphertext[:nonceSize]
	ciphertextData := ciphertext[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertextData, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}

	return plaintext, nil
}
