package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/knadh/koanf"
	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
)

// Keys accepted by the persisted profile.
const (
	KeyUsername = "username"
	KeyPassword = "password"
	KeyAPIKey   = "api_key"
	KeyRegion   = "region"
	KeyBaseURL  = "base_url"
	KeyTimeout  = "timeout"
	KeyLogLevel = "log_level"
)

var allowedKeys = map[string]bool{
	KeyUsername: true,
	KeyPassword: true,
	KeyAPIKey:   true,
	KeyRegion:   true,
	KeyBaseURL:  true,
	KeyTimeout:  true,
	KeyLogLevel: true,
}

// Store is the persisted CLI profile, a flat key-value JSON file under
// the user's config directory. Writes go through a temp file plus
// rename so a crash never leaves a half-written profile.
type Store struct {
	path string
	k    *koanf.Koanf
}

// DefaultPath returns the profile location, honoring the platform's
// user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not resolve user config directory: %w", err)
	}
	return filepath.Join(dir, "klarnacompayments", "config.json"), nil
}

// OpenStore loads the profile at path, starting empty when the file
// does not exist yet.
func OpenStore(path string) (*Store, error) {
	k := koanf.New(".")
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), kjson.Parser()); err != nil {
			return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
		}
	}
	return &Store{path: path, k: k}, nil
}

// Path returns the file backing this store.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Get(key string) string {
	return s.k.String(key)
}

// Set persists a single key. Unknown keys are rejected so typos do not
// silently land in the profile.
func (s *Store) Set(key, value string) error {
	if !allowedKeys[key] {
		return fmt.Errorf("unknown configuration key %q", key)
	}
	err := s.k.Load(confmap.Provider(map[string]interface{}{key: value}, "."), nil)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return s.save()
}

// Clear wipes the profile, both in memory and on disk.
func (s *Store) Clear() error {
	s.k = koanf.New(".")
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove profile %s: %w", s.path, err)
	}
	return nil
}

// Keys returns the profile's populated keys in sorted order.
func (s *Store) Keys() []string {
	keys := s.k.Keys()
	sort.Strings(keys)
	return keys
}

// IsConfigured reports whether the profile holds a usable credential
// shape: a username/password pair, or an API key.
func (s *Store) IsConfigured() bool {
	if s.k.String(KeyUsername) != "" && s.k.String(KeyPassword) != "" {
		return true
	}
	return s.k.String(KeyAPIKey) != ""
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.k.Raw(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace profile: %w", err)
	}
	return nil
}
