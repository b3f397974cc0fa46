// Package storage persists uploaded assets on local disk or in an S3 bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrInvalidKey = errors.New("invalid storage key")

// Store writes public assets and returns the URL they are served from.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

func cleanKey(key string) (string, error) {
	k := strings.TrimLeft(filepath.ToSlash(filepath.Clean(key)), "/")
	if k == "" || k == "." || strings.HasPrefix(k, "..") {
		return "", ErrInvalidKey
	}
	return k, nil
}

// ======================================================
// LOCAL
// ======================================================

type Local struct {
	dir    string
	prefix string
}

func NewLocal(dir, publicPrefix string) *Local {
	return &Local{dir: dir, prefix: strings.TrimRight(publicPrefix, "/")}
}

func (l *Local) Put(_ context.Context, key, _ string, data []byte) (string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", err
	}

	dest := filepath.Join(l.dir, filepath.FromSlash(k))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return l.prefix + "/" + k, nil
}

func (l *Local) Delete(_ context.Context, key string) error {
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(l.dir, filepath.FromSlash(k)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
