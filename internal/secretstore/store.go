// Package secretstore keeps small secrets outside the database, in the OS
// credential store or in private files.
package secretstore

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("secret not found")
	ErrUnavailable = errors.New("secret store unavailable")
)

const (
	BackendKeyring = "keyring"
	BackendFile    = "file"
)

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}

// New builds the store for backend. service namespaces keyring entries and
// dir holds file entries.
func New(backend string, service string, dir string) (Store, error) {
	switch backend {
	case "", BackendKeyring:
		return NewKeyringStore(service), nil
	case BackendFile:
		return NewFileStore(dir)
	default:
		return nil, fmt.Errorf("unknown secret store backend %q", backend)
	}
}

// runBlocking runs call on its own goroutine so a cancelled ctx releases the
// caller even if the OS store never answers.
func runBlocking[T any](ctx context.Context, call func() (T, error)) (T, error) {
	type outcome struct {
		value T
		err   error
	}

	if err := ctx.Err(); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	done := make(chan outcome, 1)
	go func() {
		value, err := call()
		done <- outcome{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
	case result := <-done:
		return result.value, result.err
	}
}
