package secretstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var fileKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// FileStore keeps one 0600 file per key inside a 0700 directory. It is meant
// for hosts without a credential service.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("secret store directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("%w: create secret dir: %w", ErrUnavailable, err)
	}
	return &FileStore{dir: dir}, nil
}

func (store *FileStore) Get(ctx context.Context, key string) (string, error) {
	path, err := store.pathFor(ctx, key)
	if err != nil {
		return "", err
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return string(raw), nil
}

// Set replaces the entry atomically through a temp file and rename.
func (store *FileStore) Set(ctx context.Context, key string, value string) error {
	path, err := store.pathFor(ctx, key)
	if err != nil {
		return err
	}

	temp, err := os.CreateTemp(store.dir, "."+key+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	tempPath := temp.Name()
	defer os.Remove(tempPath)

	if err := temp.Chmod(0o600); err != nil {
		_ = temp.Close()
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if _, err := temp.WriteString(value); err != nil {
		_ = temp.Close()
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err := temp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

func (store *FileStore) Delete(ctx context.Context, key string) error {
	path, err := store.pathFor(ctx, key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

func (store *FileStore) pathFor(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if !fileKeyPattern.MatchString(key) {
		return "", fmt.Errorf("invalid secret key %q", key)
	}
	return filepath.Join(store.dir, key), nil
}
