// Package localstore keeps the delivery list and the per-caller roles in a
// single JSON file instead of MongoDB and Redis. Accounts and token
// revocation still live in MongoDB and Redis.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/kasinav/kasi-nav/internal/core/domain"
	"github.com/kasinav/kasi-nav/internal/core/ports"
)

// Store is a key/value file: each state key maps to one JSON value.
type Store struct {
	mu   sync.Mutex
	fs   afero.Fs
	path string
}

// New opens the store at path on the OS filesystem.
func New(path string) *Store {
	return NewWithFs(afero.NewOsFs(), path)
}

func NewWithFs(fsys afero.Fs, path string) *Store {
	return &Store{fs: fsys, path: path}
}

// Load implements ports.DeliveryRepository.
func (s *Store) Load(_ context.Context) ([]domain.Delivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.read()
	if err != nil {
		return nil, err
	}
	v, ok := raw[ports.DeliveriesKey]
	if !ok {
		return nil, domain.ErrStateNotFound
	}
	var out []domain.Delivery
	if err := json.Unmarshal(v, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", ports.DeliveriesKey, err)
	}
	if out == nil {
		out = []domain.Delivery{}
	}
	return out, nil
}

// Save implements ports.DeliveryRepository.
func (s *Store) Save(_ context.Context, deliveries []domain.Delivery) error {
	if deliveries == nil {
		deliveries = []domain.Delivery{}
	}
	return s.put(ports.DeliveriesKey, deliveries)
}

// Get implements ports.RoleRepository.
func (s *Store) Get(_ context.Context, caller string) (*domain.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.read()
	if errors.Is(err, domain.ErrStateNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	roles, err := decodeRoles(raw)
	if err != nil {
		return nil, err
	}
	role, ok := roles[caller]
	if !ok {
		return nil, nil
	}
	return &role, nil
}

// Set implements ports.RoleRepository.
func (s *Store) Set(_ context.Context, caller string, role domain.Role) error {
	return s.updateRoles(func(roles map[string]domain.Role) {
		roles[caller] = role
	})
}

// Clear implements ports.RoleRepository.
func (s *Store) Clear(_ context.Context, caller string) error {
	return s.updateRoles(func(roles map[string]domain.Role) {
		delete(roles, caller)
	})
}

// updateRoles applies fn to the caller map under ports.RoleKey. A missing,
// unreadable or legacy single-role value starts an empty map.
func (s *Store) updateRoles(fn func(map[string]domain.Role)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.read()
	if err != nil {
		raw = map[string]json.RawMessage{}
	}
	roles, err := decodeRoles(raw)
	if err != nil {
		roles = map[string]domain.Role{}
	}
	fn(roles)

	enc, err := json.Marshal(roles)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ports.RoleKey, err)
	}
	raw[ports.RoleKey] = enc
	return s.write(raw)
}

func decodeRoles(raw map[string]json.RawMessage) (map[string]domain.Role, error) {
	roles := map[string]domain.Role{}
	v, ok := raw[ports.RoleKey]
	if !ok {
		return roles, nil
	}
	if err := json.Unmarshal(v, &roles); err != nil {
		return nil, fmt.Errorf("decode %s: %w", ports.RoleKey, err)
	}
	return roles, nil
}

func (s *Store) put(key string, value any) error {
	enc, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.read()
	if err != nil {
		// missing or unreadable: start over
		raw = map[string]json.RawMessage{}
	}
	raw[key] = enc
	return s.write(raw)
}

// read returns domain.ErrStateNotFound when the file does not exist yet.
func (s *Store) read() (map[string]json.RawMessage, error) {
	b, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrStateNotFound
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}
	return raw, nil
}

// write replaces the file atomically through a sibling temp file.
func (s *Store) write(raw map[string]json.RawMessage) error {
	b, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state file: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp, err := afero.TempFile(s.fs, dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := s.fs.Rename(tmpName, s.path); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
