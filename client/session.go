package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"yoladmin/pkg/constraints"
	"yoladmin/pkg/logger"

	"go.uber.org/zap"
)

// Storage is the durable key/value backing of a SessionStore.
type Storage interface {
	Load(ctx context.Context, key string) (string, bool, error)
	Save(ctx context.Context, key, value string) error
	Remove(ctx context.Context, keys ...string) error
}

// SessionStore owns the current access/refresh token pair. Only login,
// refresh and logout write to it, and every write replaces the pair.
//
// Every login and every clear starts a new generation. A refresh result is
// only applied to the generation it was requested in, so a logout racing an
// in-flight refresh stays logged out.
type SessionStore struct {
	// write serializes memory and storage updates so storage never lags
	// behind a newer generation.
	write   sync.Mutex
	mu      sync.RWMutex
	gen     uint64
	access  string
	refresh string
	storage Storage
}

// NewSessionStore hydrates a store from storage. A nil storage keeps the
// session in memory only.
func NewSessionStore(ctx context.Context, storage Storage) (*SessionStore, error) {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	s := &SessionStore{storage: storage}

	access, _, err := storage.Load(ctx, constraints.KeyAccessToken)
	if err != nil {
		return nil, fmt.Errorf("load access token: %w", err)
	}
	refresh, _, err := storage.Load(ctx, constraints.KeyRefreshToken)
	if err != nil {
		return nil, fmt.Errorf("load refresh token: %w", err)
	}
	s.access, s.refresh = access, refresh
	return s, nil
}

func (s *SessionStore) AccessToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access, s.access != ""
}

func (s *SessionStore) RefreshToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh, s.refresh != ""
}

// Generation identifies the current session. It changes on every login and
// every clear.
func (s *SessionStore) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// SetTokens starts a new generation with the given pair. When refresh is
// empty the stored refresh token is kept. Memory is updated before storage;
// a storage error is returned but does not roll the in-memory session back.
func (s *SessionStore) SetTokens(ctx context.Context, access, refresh string) error {
	s.write.Lock()
	defer s.write.Unlock()

	s.mu.Lock()
	s.gen++
	s.access = access
	if refresh != "" {
		s.refresh = refresh
	}
	s.mu.Unlock()
	return s.persist(ctx, access, refresh)
}

// SetTokensIf replaces the tokens only while the session is still at gen.
// It reports false, leaving the session untouched, when a login or clear
// happened since gen was read.
func (s *SessionStore) SetTokensIf(ctx context.Context, gen uint64, access, refresh string) (bool, error) {
	s.write.Lock()
	defer s.write.Unlock()

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return false, nil
	}
	s.access = access
	if refresh != "" {
		s.refresh = refresh
	}
	s.mu.Unlock()
	return true, s.persist(ctx, access, refresh)
}

func (s *SessionStore) persist(ctx context.Context, access, refresh string) error {
	if err := s.storage.Save(ctx, constraints.KeyAccessToken, access); err != nil {
		logger.Warn("failed to persist access token", zap.Error(err))
		return fmt.Errorf("persist access token: %w", err)
	}
	if refresh != "" {
		if err := s.storage.Save(ctx, constraints.KeyRefreshToken, refresh); err != nil {
			logger.Warn("failed to persist refresh token", zap.Error(err))
			return fmt.Errorf("persist refresh token: %w", err)
		}
	}
	return nil
}

// Clear drops both tokens from memory and storage.
func (s *SessionStore) Clear(ctx context.Context) error {
	_, err := s.clear(ctx, 0, false)
	return err
}

// ClearIf clears the session only while it is still at gen.
func (s *SessionStore) ClearIf(ctx context.Context, gen uint64) (bool, error) {
	return s.clear(ctx, gen, true)
}

func (s *SessionStore) clear(ctx context.Context, gen uint64, match bool) (bool, error) {
	s.write.Lock()
	defer s.write.Unlock()

	s.mu.Lock()
	if match && s.gen != gen {
		s.mu.Unlock()
		return false, nil
	}
	s.gen++
	s.access, s.refresh = "", ""
	s.mu.Unlock()

	if err := s.storage.Remove(ctx, constraints.KeyAccessToken, constraints.KeyRefreshToken); err != nil {
		logger.Warn("failed to remove persisted session", zap.Error(err))
		return true, fmt.Errorf("remove session: %w", err)
	}
	return true, nil
}

// Preferences holds UI preferences persisted next to the session.
type Preferences struct {
	storage Storage
}

func NewPreferences(storage Storage) *Preferences {
	return &Preferences{storage: storage}
}

// SidebarOpen defaults to true when nothing was stored yet.
func (p *Preferences) SidebarOpen(ctx context.Context) (bool, error) {
	raw, ok, err := p.storage.Load(ctx, constraints.KeySidebarOpen)
	if err != nil || !ok {
		return true, err
	}
	open, err := strconv.ParseBool(raw)
	if err != nil {
		return true, nil
	}
	return open, nil
}

func (p *Preferences) SetSidebarOpen(ctx context.Context, open bool) error {
	return p.storage.Save(ctx, constraints.KeySidebarOpen, strconv.FormatBool(open))
}

// MemoryStorage keeps values for the lifetime of the process.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string]string)}
}

func (m *MemoryStorage) Load(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStorage) Save(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryStorage) Remove(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

// FileStorage persists values as a flat JSON object in a single file.
// Writes go through a temp file and rename.
type FileStorage struct {
	mu   sync.Mutex
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (f *FileStorage) Load(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := data[key]
	return v, ok, nil
}

func (f *FileStorage) Save(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.read()
	if err != nil {
		return err
	}
	data[key] = value
	return f.write(data)
}

func (f *FileStorage) Remove(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.read()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(data, k)
	}
	return f.write(data)
}

func (f *FileStorage) read() (map[string]string, error) {
	data := make(map[string]string)
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return data, nil
	}
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return data, nil
}

func (f *FileStorage) write(data map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
