package driven

import "github.com/arcadia-labs/corpus-cli/internal/core/domain"

// ConfigStore persists application configuration.
// Backed by a TOML file in the corpus config directory.
type ConfigStore interface {
	// Settings returns the stored settings, normalised with defaults.
	Settings() (domain.Settings, error)

	// SaveSettings persists the settings.
	SaveSettings(settings domain.Settings) error
}
