package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"region": { "size": 512 },
		"composite": { "policy": "blend" },
		"db": { "host": "10.0.0.1", "port": "5433" }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scenesynth.cfg.json"), []byte(cfg), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, 512.0, viper.GetFloat64("region.size"))
	assert.Equal(t, "blend", viper.GetString("composite.policy"))
	assert.Equal(t, "10.0.0.1", viper.GetString("db.host"))
	assert.Equal(t, "5433", viper.GetString("db.port"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scenesynth.cfg.json"), []byte(`{}`), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./logs", viper.GetString("logsDir"))
	assert.Equal(t, 256.0, viper.GetFloat64("region.size"))
	assert.Equal(t, 20.0, viper.GetFloat64("height.default"))
	assert.Equal(t, 3.0, viper.GetFloat64("height.floor"))
	assert.Equal(t, -0.1, viper.GetFloat64("ground.z"))
	assert.Equal(t, "tangent", viper.GetString("projection.mode"))
	assert.Equal(t, "priority", viper.GetString("composite.policy"))
	assert.Equal(t, -180.0, viper.GetFloat64("composite.vmin"))
	assert.Equal(t, -40.0, viper.GetFloat64("composite.vmax"))
	assert.Equal(t, 100, viper.GetInt("composite.lo"))
	assert.Equal(t, 255, viper.GetInt("composite.hi"))
	assert.Equal(t, "crop", viper.GetString("composite.fit"))
	assert.Equal(t, "memory", viper.GetString("storage.type"))
	assert.Equal(t, "./reports", viper.GetString("storage.memory.outputDir"))
	assert.Equal(t, false, viper.GetBool("storage.memory.compressOutput"))
	assert.Equal(t, false, viper.GetBool("influx.enabled"))
	assert.Equal(t, false, viper.GetBool("graylog.enabled"))
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestStorage_AssemblesFromKeys(t *testing.T) {
	t.Cleanup(viper.Reset)

	SetDefaults()
	viper.Set("storage.type", "sqlite")
	viper.Set("storage.memory.outputDir", "/tmp/out")

	cfg := Storage()
	assert.Equal(t, "sqlite", cfg.Type)
	assert.Equal(t, "/tmp/out", cfg.Memory.OutputDir)
	assert.False(t, cfg.Memory.CompressOutput)
}
