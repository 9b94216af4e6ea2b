package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	appconfig "github.com/heartlink/heartlink/internal/adapters/outbound/config"
	"github.com/heartlink/heartlink/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".heartlink.yaml"), []byte(content), 0644))
}

// isolateUserConfig points XDG lookups at an empty directory.
func isolateUserConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CONFIG_DIRS", dir)
	xdg.Reload()
	return dir
}

func TestYAMLLoader_MissingFileReturnsDefaults(t *testing.T) {
	isolateUserConfig(t)
	dir := t.TempDir()

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestYAMLLoader_ValidYAML(t *testing.T) {
	isolateUserConfig(t)
	dir := t.TempDir()
	writeConfig(t, dir, `
env_file: config/.env
required_env_keys: [OPENAI_API_KEY, HEARTLINK_DB]
command_timeout: 2s
python: [python3.12]
skip: [gpu]
`)

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "config/.env", cfg.EnvFile)
	assert.Equal(t, []string{"OPENAI_API_KEY", "HEARTLINK_DB"}, cfg.RequiredEnvKeys)
	assert.Equal(t, 2*time.Second, cfg.CommandTimeout)
	assert.Equal(t, []string{"python3.12"}, cfg.Python)
	assert.True(t, cfg.IsSkipped(domain.ProbeGPU))
}

func TestYAMLLoader_PartialFileKeepsDefaults(t *testing.T) {
	isolateUserConfig(t)
	dir := t.TempDir()
	writeConfig(t, dir, `report_path: out/report.txt`)

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "out/report.txt", cfg.ReportPath)
	assert.Equal(t, domain.DefaultEnvFile, cfg.EnvFile)
	assert.Equal(t, domain.DefaultCommandTimeout, cfg.CommandTimeout)
}

func TestYAMLLoader_EmptyFileReturnsDefaults(t *testing.T) {
	isolateUserConfig(t)
	dir := t.TempDir()
	writeConfig(t, dir, "")

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestYAMLLoader_InvalidYAML(t *testing.T) {
	isolateUserConfig(t)
	dir := t.TempDir()
	writeConfig(t, dir, `{{{invalid yaml`)

	_, err := appconfig.New().Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing .heartlink.yaml")
}

func TestYAMLLoader_InvalidValues(t *testing.T) {
	isolateUserConfig(t)
	dir := t.TempDir()
	writeConfig(t, dir, `skip: [docker]`)

	_, err := appconfig.New().Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid .heartlink.yaml")
	assert.Contains(t, err.Error(), "docker")
}

func TestYAMLLoader_UserConfigFallback(t *testing.T) {
	userDir := isolateUserConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Join(userDir, "heartlink"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(userDir, "heartlink", "config.yaml"),
		[]byte("required_env_keys: [ANTHROPIC_API_KEY]\n"), 0644))

	loader := appconfig.New()
	cfg, err := loader.Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, []string{"ANTHROPIC_API_KEY"}, cfg.RequiredEnvKeys)
}

func TestYAMLLoader_ProjectConfigWinsOverUserConfig(t *testing.T) {
	userDir := isolateUserConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Join(userDir, "heartlink"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(userDir, "heartlink", "config.yaml"),
		[]byte("env_file: user.env\n"), 0644))

	dir := t.TempDir()
	writeConfig(t, dir, "env_file: project.env\n")

	loader := appconfig.New()
	cfg, err := loader.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "project.env", cfg.EnvFile)

	path, err := loader.Path(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".heartlink.yaml"), path)
}
