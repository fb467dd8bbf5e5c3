package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/orderdesk/orderdesk/internal/core/domain"
	"github.com/orderdesk/orderdesk/internal/core/ports"
)

const filePerm = 0o600

// fileRecord is the on-disk layout: two opaque strings under fixed keys.
type fileRecord struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// File persists the pair as a small JSON document readable only by the
// owner. Writes go through a temporary file and a rename.
type File struct {
	mu   sync.Mutex
	path string
}

var _ ports.CredentialStore = (*File)(nil)

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Load(_ context.Context) (domain.CredentialPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.CredentialPair{}, nil
	}
	if err != nil {
		return domain.CredentialPair{}, fmt.Errorf("read credentials: %w", err)
	}

	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.CredentialPair{}, fmt.Errorf("parse credentials: %w", err)
	}
	pair := domain.CredentialPair{Access: rec.AccessToken, Refresh: rec.RefreshToken}
	if !pair.Complete() {
		return domain.CredentialPair{}, nil
	}
	return pair, nil
}

func (f *File) Save(_ context.Context, pair domain.CredentialPair) error {
	if !pair.Complete() {
		return domain.ErrIncompleteCredentials
	}
	data, err := json.Marshal(fileRecord{AccessToken: pair.Access, RefreshToken: pair.Refresh})
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".credentials-*")
	if err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		tmp.Close()
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

func (f *File) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}
