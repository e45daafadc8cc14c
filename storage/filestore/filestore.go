// Package filestore persists session keys in a single JSON file, optionally
// sealed with XChaCha20-Poly1305 so tokens are not readable at rest.
//
// The file lives at a caller supplied path (typically <data folder>/session.json).
// The parent directory is created with mode 0700 and the file is written with
// mode 0600 through a temp file and rename, so a crash never leaves a torn file.
// A file that cannot be decrypted or parsed reads as storage.ErrCorrupt; the
// next Set replaces it and any Remove deletes it.
package filestore

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gongxings/ai-creator/storage"
	"golang.org/x/crypto/chacha20poly1305"
)

var ErrInvalidKey = errors.New("encryption key must be 32 bytes hex encoded")

var _ storage.Repo = (*Store)(nil)

type Store struct {
	path string
	aead cipherAEAD
	mu   sync.Mutex
}

type cipherAEAD interface {
	NonceSize() int
	Seal(dst, nonce, plaintext, additionalData []byte) []byte
	Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
}

type Option func(*Store) error

// WithEncryptionKey seals the file contents with the given hex encoded 32 byte key.
// An empty key leaves the file in plain JSON.
func WithEncryptionKey(hexKey string) Option {
	return func(s *Store) error {
		if hexKey == "" {
			return nil
		}
		key, err := hex.DecodeString(hexKey)
		if err != nil || len(key) != chacha20poly1305.KeySize {
			return ErrInvalidKey
		}
		aead, err := chacha20poly1305.NewX(key)
		if err != nil {
			return fmt.Errorf("filestore: cipher: %w", err)
		}
		s.aead = aead
		return nil
	}
}

// New returns a store backed by the file at path. The file is not touched
// until the first write.
func New(path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("filestore: path is required")
	}
	s := &Store{path: filepath.Clean(path)}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, storage.ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	if key == "" {
		return storage.ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if errors.Is(err, storage.ErrCorrupt) {
		values, err = make(map[string]string), nil
	}
	if err != nil {
		return err
	}
	values[key] = value
	return s.save(values)
}

func (s *Store) Remove(_ context.Context, key string) error {
	if key == "" {
		return storage.ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if errors.Is(err, storage.ErrCorrupt) {
		return s.removeFile()
	}
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	if len(values) == 0 {
		return s.removeFile()
	}
	return s.save(values)
}

func (s *Store) removeFile() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("filestore: removing %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("filestore: reading %s: %w", s.path, err)
	}

	if s.aead != nil {
		data, err = s.open(data)
		if err != nil {
			return nil, err
		}
	}

	values := make(map[string]string)
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("filestore: parsing %s: %w: %v", s.path, storage.ErrCorrupt, err)
	}
	return values, nil
}

func (s *Store) save(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("filestore: marshaling: %w", err)
	}
	if s.aead != nil {
		data, err = s.seal(data)
		if err != nil {
			return err
		}
	}

	directory := filepath.Dir(s.path)
	if err := os.MkdirAll(directory, 0700); err != nil {
		return fmt.Errorf("filestore: creating directory %s: %w", directory, err)
	}

	tmp, err := os.CreateTemp(directory, ".session-*")
	if err != nil {
		return fmt.Errorf("filestore: creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("filestore: chmod temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("filestore: writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("filestore: closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("filestore: replacing %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) seal(plain []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("filestore: nonce: %w", err)
	}
	return s.aead.Seal(nonce, nonce, plain, nil), nil
}

func (s *Store) open(sealed []byte) ([]byte, error) {
	n := s.aead.NonceSize()
	if len(sealed) < n {
		return nil, fmt.Errorf("filestore: %s: %w", s.path, storage.ErrCorrupt)
	}
	plain, err := s.aead.Open(nil, sealed[:n], sealed[n:], nil)
	if err != nil {
		return nil, fmt.Errorf("filestore: %s: %w", s.path, storage.ErrCorrupt)
	}
	return plain, nil
}
