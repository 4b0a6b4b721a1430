package tuioconfig

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyConfigFallsBackToDefaults(t *testing.T) {
	t.Parallel()
	c := Empty()
	assert.Equal(t, float64(20), c.GetJoinThreshold())
	assert.Equal(t, float64(0.5), c.GetDeltaTime())
	assert.Equal(t, float64(100), c.GetMultistrokeRadius())
	assert.Equal(t, float64(1.0), c.GetMultistrokeTimeout())
	assert.False(t, c.GetViewportStrip())
	assert.Equal(t, 1, c.GetSendRetries())
	assert.Contains(t, c.GetMirrorSocketPath(9000), "muse-mirror_9000.ctl")
}

func TestLoadRejectsNonJSONExtension(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.txt")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsOversizeFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	big := make([]byte, maxConfigFileSize+1)
	require.NoError(t, os.WriteFile(path, big, 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadParsesPartialOverrides(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	radius := 55.0
	strip := true
	data, err := json.Marshal(&Config{MultistrokeRadius: &radius, ViewportStrip: &strip})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 55.0, c.GetMultistrokeRadius())
	assert.True(t, c.GetViewportStrip())
	// Everything untouched falls back to defaults.
	assert.Equal(t, float64(20), c.GetJoinThreshold())
}

func TestValidateRejectsNegativeThresholds(t *testing.T) {
	t.Parallel()
	bad := -1.0
	c := &Config{JoinThreshold: &bad}
	require.Error(t, c.Validate())
}

func TestValidateRejectsUnparseableTimeout(t *testing.T) {
	t.Parallel()
	bad := "not-a-duration"
	c := &Config{LoadTimeout: &bad}
	require.Error(t, c.Validate())
}
