package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/exam-manager/exam-system/internal/core/ports"
	"github.com/exam-manager/exam-system/internal/infrastructure/crypto"
)

// LocalStore implements ports.FileStore on the local filesystem.
// Documents land under <root>/<bucket>/<random>.<ext> and are addressed
// by the path relative to root.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) Store(_ context.Context, bucket string, doc ports.Document) (string, error) {
	name, err := crypto.NewBearerToken()
	if err != nil {
		return "", err
	}

	rel := filepath.Join(bucket, name+doc.Ext)
	abs := filepath.Join(s.root, rel)

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("create bucket dir: %w", err)
	}
	if err := os.WriteFile(abs, doc.Content, 0o644); err != nil {
		return "", fmt.Errorf("write document: %w", err)
	}
	return rel, nil
}

// Delete removes a stored document. Deleting a missing file is not an
// error so cleanup stays idempotent.
func (s *LocalStore) Delete(_ context.Context, path string) error {
	if err := os.Remove(filepath.Join(s.root, path)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}
