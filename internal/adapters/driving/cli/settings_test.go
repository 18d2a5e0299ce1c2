package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcadia-labs/corpus-cli/internal/adapters/driven/config/file"
)

func setupTestConfig(t *testing.T) func() {
	t.Helper()
	old := configStore
	store, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)
	configStore = store
	return func() { configStore = old }
}

func TestSettingsShowCmd_Defaults(t *testing.T) {
	cleanup := setupTestConfig(t)
	defer cleanup()

	out, err := execute(t, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Dimension:        384")
	assert.Contains(t, out, "IVF")
}

func TestSettingsSetCmd_ChangesBackend(t *testing.T) {
	cleanup := setupTestConfig(t)
	defer func() {
		settingsBackend = ""
		cleanup()
	}()

	out, err := execute(t, "settings", "set", "--backend", "bruteforce")
	require.NoError(t, err)
	assert.Contains(t, out, "Settings saved")

	out, err = execute(t, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Brute Force")
}

func TestSettingsSetCmd_RejectsUnknownBackend(t *testing.T) {
	cleanup := setupTestConfig(t)
	defer func() {
		settingsBackend = ""
		cleanup()
	}()

	_, err := execute(t, "settings", "set", "--backend", "hnsw")
	assert.Error(t, err)
}

func TestSettingsSetCmd_ClampsNProbe(t *testing.T) {
	cleanup := setupTestConfig(t)
	defer func() {
		settingsNLists = 0
		settingsNProbe = 0
		cleanup()
	}()

	_, err := execute(t, "settings", "set", "--nlists", "10", "--nprobe", "50")
	require.NoError(t, err)

	out, err := execute(t, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "NProbe:           10")
}
