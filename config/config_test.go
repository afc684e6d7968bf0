package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, contents string) string {
	pathname := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(pathname, []byte(contents), 0644))
	return pathname
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags, Default())
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 20, cfg.MaxCarbons)
	assert.Equal(t, "morgan", cfg.Labeller)
	assert.Equal(t, "tree", cfg.Index)

	loaded, err := Load("", newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, cfg, *loaded, "unset flags leave the defaults")
}

func TestLoadPrecedence(t *testing.T) {
	pathname := writeFile(t, "alkanes.yaml", `
max_carbons: 12
labeller: ahu
workers: 4
compress: true
`)
	envFile := writeFile(t, "test.env", "ALKANES_WORKERS=6\nALKANES_INDEX=scan\n")
	t.Cleanup(func() { os.Unsetenv("ALKANES_WORKERS") })
	t.Setenv("ALKANES_INDEX", "lsm")

	cfg, err := Load(pathname, nil, envFile)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.MaxCarbons)
	assert.Equal(t, "ahu", cfg.Labeller)
	assert.Equal(t, 6, cfg.Workers, "env file overrides the yaml file")
	assert.Equal(t, "lsm", cfg.Index, "the process env wins over the env file")
	assert.True(t, cfg.Compress)
	assert.Equal(t, "table", cfg.Format)

	cfg, err = Load(pathname, newFlags(t, "--max", "9", "--compress=false"), envFile)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.MaxCarbons)
	assert.False(t, cfg.Compress)
	assert.Equal(t, 6, cfg.Workers, "unset flags leave the loaded value")
	assert.Equal(t, "ahu", cfg.Labeller)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.ErrorIs(t, err, ErrBadConfig)

	pathname := writeFile(t, "bad.yaml", "max_carbon: 12\n")
	_, err = Load(pathname, nil)
	assert.ErrorIs(t, err, ErrBadConfig, "unknown keys are rejected")

	_, err = Load("", newFlags(t, "--max", "31"))
	assert.ErrorIs(t, err, ErrBadConfig)

	t.Setenv("ALKANES_MAX_CARBONS", "twelve")
	_, err = Load("", nil)
	assert.ErrorIs(t, err, ErrBadConfig)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.MaxCarbons = 31
	assert.ErrorIs(t, cfg.Validate(), ErrBadConfig)
	assert.Contains(t, cfg.Validate().Error(), "max_carbons")

	cfg = Default()
	cfg.Labeller = "nauty"
	assert.ErrorIs(t, cfg.Validate(), ErrBadConfig)

	cfg = Default()
	cfg.Index = "bloom"
	assert.ErrorIs(t, cfg.Validate(), ErrBadConfig)

	cfg = Default()
	cfg.Workers = -1
	assert.ErrorIs(t, cfg.Validate(), ErrBadConfig)
}

func TestWriteYAML(t *testing.T) {
	cfg := Default()
	cfg.Catalog = "/tmp/alkanes.db"

	var buf strings.Builder
	require.NoError(t, cfg.WriteYAML(&buf))
	assert.Contains(t, buf.String(), "max_carbons: 20\n")
	assert.Contains(t, buf.String(), "catalog: /tmp/alkanes.db\n")

	// the written form loads back unchanged
	pathname := writeFile(t, "written.yaml", buf.String())
	loaded, err := Load(pathname, nil)
	require.NoError(t, err)
	assert.Equal(t, cfg, *loaded)
}
