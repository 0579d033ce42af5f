package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	assert.Equal(t, "showroom", cfg.App.Name)
	assert.Equal(t, "docs/database/cars_combined.json", cfg.Data.Source)
	assert.Equal(t, 30*time.Second, cfg.Data.Timeout)
	assert.Equal(t, "Rp.", cfg.Display.Currency)
	assert.Equal(t, "cars", cfg.Display.Noun)
	assert.True(t, cfg.Display.ProbeEnabled())
	assert.Equal(t, "CarName", cfg.Schema.Name)
	assert.Equal(t, "Unobtainable", cfg.Schema.Limited)
	assert.Equal(t, 100, cfg.Thumbnails.BatchSize)
	assert.Equal(t, time.Second, cfg.Thumbnails.Delay)
	assert.Equal(t, 5, cfg.Thumbnails.MaxRetries)
	assert.Equal(t, []string{"dark", "light"}, cfg.ThemeNames())
	assert.Equal(t, ColorValue("81"), cfg.ActiveTheme().Key)
}

func TestDefaultIsACopy(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	cfg.Theme.Themes["dark"] = ThemeConfig{}
	again, err := Default()
	require.NoError(t, err)
	assert.NotEmpty(t, again.Theme.Themes["dark"].Key)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("", BuildInfo{Version: "1.2.3"})
	require.NoError(t, err)
	assert.Equal(t, "showroom 1.2.3: browse the vehicle catalog", cfg.App.Description)
}

func TestLoadMergesUserFile(t *testing.T) {
	path := writeFile(t, `
data:
  source: https://example.com/cars.json
display:
  currency: IDR
  probe_images: false
schema:
  price: Price
theme:
  default: light
  themes:
    light:
      accent: "#ff00ff"
    custom:
      key: 33
thumbnails:
  batch_size: 10
`)
	cfg, err := Load(path, BuildInfo{})
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/cars.json", cfg.Data.Source)
	assert.Equal(t, 30*time.Second, cfg.Data.Timeout, "unset values keep the default")
	assert.Equal(t, "IDR", cfg.Display.Currency)
	assert.False(t, cfg.Display.ProbeEnabled())
	assert.Equal(t, "Price", cfg.Schema.Price)
	assert.Equal(t, "CarName", cfg.Schema.Name)
	assert.Equal(t, ColorValue("#ff00ff"), cfg.ActiveTheme().Accent)
	assert.Equal(t, ColorValue("25"), cfg.ActiveTheme().Key, "theme colors merge per field")
	assert.Equal(t, ColorValue("33"), cfg.Theme.Themes["custom"].Key)
	assert.Equal(t, 10, cfg.Thumbnails.BatchSize)
	assert.Equal(t, 5, cfg.Thumbnails.MaxRetries)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), BuildInfo{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")

	_, err = Load(writeFile(t, "data: [unclosed"), BuildInfo{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode config file")

	_, err = Load(writeFile(t, "theme:\n  default: neon\n"), BuildInfo{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown theme "neon"`)
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "explicit.yaml", ResolvePath("explicit.yaml"))

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	assert.Equal(t, "", ResolvePath(""), "missing XDG file resolves to nothing")

	require.NoError(t, os.MkdirAll(filepath.Join(dir, AppName), 0o755))
	want := filepath.Join(dir, AppName, "config.yaml")
	require.NoError(t, os.WriteFile(want, []byte("app: {}\n"), 0o600))
	assert.Equal(t, want, ResolvePath(""))
}

func TestColorValueYAML(t *testing.T) {
	var th ThemeConfig
	require.NoError(t, yaml.Unmarshal([]byte("key: 81\naccent: \"#ff0000\"\n"), &th))
	assert.Equal(t, ColorValue("81"), th.Key)
	assert.Equal(t, ColorValue("#ff0000"), th.Accent)

	out, err := yaml.Marshal(th)
	require.NoError(t, err)
	assert.Contains(t, string(out), "key: 81\n")
	assert.Nil(t, ColorValue("").Color())
	assert.NotNil(t, th.Colors().Key)
}

func TestMarshal(t *testing.T) {
	cfg, err := Load("", BuildInfo{})
	require.NoError(t, err)

	y, err := cfg.Marshal("yaml")
	require.NoError(t, err)
	assert.Contains(t, string(y), "timeout: 30s")

	j, err := cfg.Marshal("json")
	require.NoError(t, err)
	var back map[string]any
	require.NoError(t, json.Unmarshal(j, &back))
	assert.Equal(t, "30s", back["data"].(map[string]any)["timeout"])

	_, err = cfg.Marshal("xml")
	require.Error(t, err)
}

func TestProcessTemplate(t *testing.T) {
	assert.Equal(t, "plain", processTemplate("plain", nil))
	assert.Equal(t, "x v1", processTemplate("{{ .name }} {{ .version }}", map[string]any{"name": "x", "version": "v1"}))
	assert.Equal(t, "{{ broken", processTemplate("{{ broken", nil))
}
