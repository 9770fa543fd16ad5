// Copyright (c) 2026 Dedalus Labs, Inc. and its contributors
// SPDX-License-Identifier: MIT

// Package secrets contains secret resolution for connection credentials.
//
// Secrets are referenced by environment variable name in connection
// definitions. Values may be stored encrypted with the platform key, in which
// case they carry the "encrypted:" prefix and are decrypted transparently on
// read. Plain values pass through unchanged (legacy support; production
// deployments should use encrypted values).
package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// EncryptedPrefix marks values that are encrypted with the platform key.
const EncryptedPrefix = "encrypted:"

// EncryptionKeyEnv is the environment variable holding the base64-encoded
// 32-byte platform encryption key.
const EncryptionKeyEnv = "DEDALUS_ENCRYPTION_KEY"

// ErrSecretNotFound is returned when a referenced secret is not set.
var ErrSecretNotFound = errors.New("secret not found")

// Provider describes a type which can resolve secrets by name.
type Provider interface {
	GetSecret(name string) (string, error)
}

// Environment resolves secrets from environment variables, decrypting
// values that carry the encrypted prefix.
type Environment struct{}

// NewEnvironmentProvider creates a secrets provider backed by the process
// environment.
func NewEnvironmentProvider() *Environment {
	return &Environment{}
}

// GetSecret resolves the named secret from the environment.
func (*Environment) GetSecret(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("secret name cannot be empty")
	}

	value, ok := os.LookupEnv(name)
	if !ok || value == "" {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, name)
	}

	if !strings.HasPrefix(value, EncryptedPrefix) {
		return value, nil
	}

	key, err := platformKey()
	if err != nil {
		return "", fmt.Errorf("cannot decrypt %s: %w", name, err)
	}

	plaintext, err := DecryptValue(value, key)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt %s: %w", name, err)
	}
	return plaintext, nil
}

func platformKey() ([]byte, error) {
	encoded := os.Getenv(EncryptionKeyEnv)
	if encoded == "" {
		return nil, fmt.Errorf("%s is not set", EncryptionKeyEnv)
	}
	return decodeKey(encoded)
}
