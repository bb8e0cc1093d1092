// Package settings persists small key/value settings, such as OAuth tokens,
// in a YAML file that outlives the process.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	// FilePerms restricts the settings file to its owner; it holds credentials.
	FilePerms = 0o600
	// DirPerms is used when creating the settings directory.
	DirPerms = 0o700
)

// Store is a settings file backed by its own viper instance, separate from
// the application config so that saving never rewrites user configuration.
type Store struct {
	mu     sync.Mutex
	v      *viper.Viper
	fs     afero.Fs
	path   string
	logger *slog.Logger
}

// Open loads the settings file at path. A missing file is not an error; it
// is created on the first Save.
func Open(fsys afero.Fs, path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	v := viper.New()
	v.SetFs(fsys)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetConfigPermissions(FilePerms)

	s := &Store{
		v:      v,
		fs:     fsys,
		path:   path,
		logger: logger.With("component", "settings"),
	}

	if _, err := fsys.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("settings file does not exist", "path", path)
			return s, nil
		}
		return nil, fmt.Errorf("settings: stat %s: %w", path, err)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("settings: reading %s: %w", path, err)
	}

	s.logger.Debug("loaded settings", "path", path, "keys", len(v.AllKeys()))
	return s, nil
}

// Path returns the file the store saves to.
func (s *Store) Path() string {
	return s.path
}

// GetSetting returns the value stored under key, or def when unset.
func (s *Store) GetSetting(key, def string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.v.IsSet(key) {
		return def
	}
	return s.v.GetString(key)
}

// SetSetting changes a value in memory. Call Save to persist it.
func (s *Store) SetSetting(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.v.Set(key, value)
}

// Save writes every setting to disk with owner-only permissions.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, DirPerms); err != nil {
		return fmt.Errorf("settings: creating directory %s: %w", dir, err)
	}

	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("settings: writing %s: %w", s.path, err)
	}

	// A file that already existed keeps its old mode through WriteConfigAs.
	if err := s.fs.Chmod(s.path, FilePerms); err != nil {
		return fmt.Errorf("settings: setting permissions on %s: %w", s.path, err)
	}

	s.logger.Debug("saved settings", "path", s.path)
	return nil
}
