package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/arcadia-labs/corpus-cli/internal/core/domain"
	"github.com/arcadia-labs/corpus-cli/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// settingsFile is the on-disk TOML shape. Durations are stored in
// seconds so the file stays hand-editable.
type settingsFile struct {
	DataDir             string  `toml:"data_dir,omitempty"`
	Dimension           int     `toml:"dimension,omitempty"`
	Backend             string  `toml:"index_backend,omitempty"`
	NLists              int     `toml:"nlists,omitempty"`
	NProbe              int     `toml:"nprobe,omitempty"`
	RetrainIntervalSecs int     `toml:"retrain_interval_seconds,omitempty"`
	SimilarityThreshold float64 `toml:"similarity_threshold,omitempty"`
	MaxResults          int     `toml:"max_results,omitempty"`
}

// ConfigStore is a file-based implementation of driven.ConfigStore using TOML.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
}

// NewConfigStore creates a new TOML-based config store.
// If configDir is empty, defaults to ~/.corpus/config.toml.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".corpus")
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
	}, nil
}

// Settings reads the stored settings. A missing file yields the
// defaults; partial files are normalised field by field.
func (s *ConfigStore) Settings() (domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.DefaultSettings(), nil
		}
		return domain.Settings{}, fmt.Errorf("reading config file: %w", err)
	}

	var f settingsFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return domain.Settings{}, fmt.Errorf("parsing config file: %w", err)
	}

	settings := domain.Settings{
		DataDir:             f.DataDir,
		Dimension:           f.Dimension,
		Backend:             domain.IndexBackend(f.Backend),
		NLists:              f.NLists,
		NProbe:              f.NProbe,
		RetrainInterval:     time.Duration(f.RetrainIntervalSecs) * time.Second,
		SimilarityThreshold: f.SimilarityThreshold,
		MaxResults:          f.MaxResults,
	}
	return settings.Normalise(), nil
}

// SaveSettings persists the settings to disk.
func (s *ConfigStore) SaveSettings(settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings = settings.Normalise()
	f := settingsFile{
		DataDir:             settings.DataDir,
		Dimension:           settings.Dimension,
		Backend:             settings.Backend.String(),
		NLists:              settings.NLists,
		NProbe:              settings.NProbe,
		RetrainIntervalSecs: int(settings.RetrainInterval / time.Second),
		SimilarityThreshold: settings.SimilarityThreshold,
		MaxResults:          settings.MaxResults,
	}

	data, err := toml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshalling settings: %w", err)
	}

	// Write with restricted permissions
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
