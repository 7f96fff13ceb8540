// Package kms encrypts connector configurations at rest. Connection
// parameters carry credentials, so they are sealed through Vault's transit
// engine before they reach the database and unsealed only when a connector
// is opened.
package kms

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	vaultapi "github.com/hashicorp/vault/api"
)

// Encryptor seals and unseals connector configuration payloads. Ciphertext
// is an opaque string suitable for a text column.
type Encryptor interface {
	Encrypt(ctx context.Context, plaintext []byte) (string, error)
	Decrypt(ctx context.Context, ciphertext string) ([]byte, error)
}

// Options configures the Vault transit client.
type Options struct {
	Address   string
	Token     string
	Namespace string
	Mount     string
	KeyName   string
}

// VaultTransit seals payloads through a Vault transit key. Vault never
// returns the key material; every operation is a round trip.
type VaultTransit struct {
	client  *vaultapi.Client
	mount   string
	keyName string
}

// NewVaultTransit builds the transit client. No request is issued until the
// first seal or unseal.
func NewVaultTransit(opts Options) (*VaultTransit, error) {
	address := strings.TrimSpace(opts.Address)
	if address == "" {
		return nil, errors.New("vault address is required")
	}
	token := strings.TrimSpace(opts.Token)
	if token == "" {
		return nil, errors.New("vault token is required")
	}
	keyName := strings.TrimSpace(opts.KeyName)
	if keyName == "" {
		return nil, errors.New("vault transit key name is required")
	}
	mount := strings.Trim(strings.TrimSpace(opts.Mount), "/")
	if mount == "" {
		mount = "transit"
	}

	cfg := vaultapi.DefaultConfig()
	cfg.Address = address
	client, err := vaultapi.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault client setup: %w", err)
	}
	client.SetToken(token)
	if ns := strings.TrimSpace(opts.Namespace); ns != "" {
		client.SetNamespace(ns)
	}

	return &VaultTransit{client: client, mount: mount, keyName: keyName}, nil
}

func (v *VaultTransit) Encrypt(ctx context.Context, plaintext []byte) (string, error) {
	path := v.mount + "/encrypt/" + v.keyName
	secret, err := v.client.Logical().WriteWithContext(ctx, path, map[string]any{
		"plaintext": base64.StdEncoding.EncodeToString(plaintext),
	})
	if err != nil {
		return "", fmt.Errorf("vault transit encrypt: %w", err)
	}
	ciphertext, ok := secret.Data["ciphertext"].(string)
	if !ok || ciphertext == "" {
		return "", errors.New("vault transit encrypt returned no ciphertext")
	}
	return ciphertext, nil
}

func (v *VaultTransit) Decrypt(ctx context.Context, ciphertext string) ([]byte, error) {
	path := v.mount + "/decrypt/" + v.keyName
	secret, err := v.client.Logical().WriteWithContext(ctx, path, map[string]any{
		"ciphertext": ciphertext,
	})
	if err != nil {
		return nil, fmt.Errorf("vault transit decrypt: %w", err)
	}
	encoded, ok := secret.Data["plaintext"].(string)
	if !ok || encoded == "" {
		return nil, errors.New("vault transit decrypt returned no plaintext")
	}
	plaintext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("vault transit decrypt: %w", err)
	}
	return plaintext, nil
}

// Passthrough stores payloads base64-encoded without encryption. For local
// development only; the prefix makes unencrypted values easy to spot.
type Passthrough struct{}

const passthroughPrefix = "b64:"

func (Passthrough) Encrypt(_ context.Context, plaintext []byte) (string, error) {
	return passthroughPrefix + base64.StdEncoding.EncodeToString(plaintext), nil
}

func (Passthrough) Decrypt(_ context.Context, ciphertext string) ([]byte, error) {
	encoded, found := strings.CutPrefix(ciphertext, passthroughPrefix)
	if !found {
		return nil, errors.New("ciphertext was not sealed by the passthrough encryptor")
	}
	return base64.StdEncoding.DecodeString(encoded)
}
