// Package toml persists the bot configuration, including the runtime-mutable
// artist settings, to a TOML file with atomic writes.
package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/suno-artist-bot/internal/domain"
	"github.com/bnema/suno-artist-bot/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	configName      = "artistbot"
	configType      = "toml"
	configPathKey   = "config.path"
	configFileMode  = 0o600
	configDirMode   = 0o700
	configFileName  = "config.toml"
	tempFilePattern = ".config-*.toml.tmp"
)

// ErrDefaultCreated is returned by Load when no config file existed; a
// skeleton has been written for the operator to fill in.
var ErrDefaultCreated = errors.New("default config file created")

type Store struct {
	path string
	mu   *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.SettingsStore = (*Store)(nil)

func NewStore(cfg *viper.Viper) (*Store, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(workDir)
	cfg.SetDefault(configPathKey, filepath.Join(workDir, configFileName))

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	path := cfg.GetString(configPathKey)
	if path == "" {
		return nil, errors.New("config path is empty")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}

	return &Store{path: path, mu: lockForPath(path)}, nil
}

// NewStoreAt opens a store against an explicit file path.
func NewStoreAt(path string) *Store {
	return &Store{path: path, mu: lockForPath(path)}
}

func (s *Store) Path() string { return s.path }

// Load reads the full configuration. If the file does not exist, a default
// skeleton is written and ErrDefaultCreated is returned.
func (s *Store) Load(ctx context.Context) (domain.Config, error) {
	if err := ctx.Err(); err != nil {
		return domain.Config{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return domain.Config{}, fmt.Errorf("read config file: %w", err)
		}
		if writeErr := s.writeSchema(defaultSchema()); writeErr != nil {
			return domain.Config{}, writeErr
		}
		return domain.Config{}, fmt.Errorf("%w at %s", ErrDefaultCreated, s.path)
	}

	var file configSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return domain.Config{}, fmt.Errorf("parse config file: %w", err)
	}
	file.applyDefaults()

	return toDomain(file), nil
}

// SaveArtist persists the runtime-mutable artist settings, leaving every
// other config field as it is on disk.
func (s *Store) SaveArtist(ctx context.Context, settings domain.ArtistSettings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.readSchema()
	if err != nil {
		return err
	}
	file.applyDefaults()

	file.Artist = artistSchema{
		Name:     settings.Name,
		Style:    settings.Style,
		Language: settings.Language,
	}

	return s.writeSchema(file)
}

func (s *Store) readSchema() (configSchema, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return configSchema{}, nil
		}
		return configSchema{}, fmt.Errorf("read config file: %w", err)
	}

	var file configSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return configSchema{}, fmt.Errorf("parse config file: %w", err)
	}

	return file, nil
}

func (s *Store) writeSchema(file configSchema) error {
	encoded, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode config file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, configDirMode); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp config file: %w", err)
	}
	tempPath := tempFile.Name()

	if _, err := tempFile.Write(encoded); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("write temp config file: %w", err)
	}
	if err := tempFile.Chmod(configFileMode); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("chmod temp config file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("close temp config file: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("replace config file: %w", err)
	}

	return nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if lock, ok := pathLockMap[path]; ok {
		return lock
	}

	lock := &sync.RWMutex{}
	pathLockMap[path] = lock
	return lock
}
