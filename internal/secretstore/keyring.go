package secretstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const DefaultService = "lunalog"

// KeyringStore uses the platform credential store: Keychain on macOS, the
// Secret Service on Linux and Credential Manager on Windows.
type KeyringStore struct {
	service string
}

func NewKeyringStore(service string) *KeyringStore {
	if service == "" {
		service = DefaultService
	}
	return &KeyringStore{service: service}
}

func (store *KeyringStore) Get(ctx context.Context, key string) (string, error) {
	return runBlocking(ctx, func() (string, error) {
		value, err := keyring.Get(store.service, key)
		if err != nil {
			return "", translateKeyringError(err)
		}
		return value, nil
	})
}

func (store *KeyringStore) Set(ctx context.Context, key string, value string) error {
	_, err := runBlocking(ctx, func() (struct{}, error) {
		if err := keyring.Set(store.service, key, value); err != nil {
			return struct{}{}, translateKeyringError(err)
		}
		return struct{}{}, nil
	})
	return err
}

// Delete treats a missing entry as already deleted.
func (store *KeyringStore) Delete(ctx context.Context, key string) error {
	_, err := runBlocking(ctx, func() (struct{}, error) {
		err := keyring.Delete(store.service, key)
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return struct{}{}, translateKeyringError(err)
		}
		return struct{}{}, nil
	})
	return err
}

func translateKeyringError(err error) error {
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
