package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// Import adapter packages to ensure adapters are registered via init()
	_ "github.com/leapstack-labs/autorest/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/autorest/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/autorest/pkg/adapters/sqlite"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "autorest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.String("addr", "", "")
	fs.BoolP("verbose", "v", false, "")
	fs.StringP("output", "o", "", "")
	fs.String("journal", "", "")
	fs.Bool("disable-metrics", false, "")
	return fs
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Cleanup(ResetConfig)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultJournalPath, cfg.JournalPath)
	assert.False(t, cfg.Watch)
	assert.Nil(t, cfg.Target)
	assert.Empty(t, cfg.ConfigFile)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_FileDiscovery(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Cleanup(ResetConfig)

	writeConfig(t, dir, `
addr: 127.0.0.1:8080
watch: true
target:
  type: postgres
  host: db.internal
  database: app
  options:
    sslmode: disable
tables:
  exclude: [secrets]
`)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "autorest.yaml", cfg.ConfigFile)
	assert.Equal(t, "127.0.0.1:8080", cfg.Addr)
	assert.True(t, cfg.Watch)
	require.NotNil(t, cfg.Target)
	assert.Equal(t, "postgres", cfg.Target.Type)
	assert.Equal(t, 5432, cfg.Target.Port)
	assert.Equal(t, "public", cfg.Target.Schema)
	assert.Equal(t, 5*time.Second, cfg.Target.Timeout)
	assert.Equal(t, map[string]string{"sslmode": "disable"}, cfg.Target.Options)
	assert.Equal(t, []string{"secrets"}, cfg.Tables.Exclude)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(ResetConfig)

	path := writeConfig(t, dir, `
addr: file:1
output: yaml
journal_path: file.db
target:
  type: sqlite
  database: file.sqlite
`)

	t.Setenv("AUTOREST_ADDR", "env:2")
	t.Setenv("AUTOREST_OUTPUT", "text")
	t.Setenv("AUTOREST_TARGET__DATABASE", "env.sqlite")
	t.Setenv("AUTOREST_TARGET__TIMEOUT", "2s")

	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"--addr", "flag:3", "--journal", "flag.db"}))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "flag:3", cfg.Addr, "flags beat env")
	assert.Equal(t, "text", cfg.OutputFormat, "env beats file")
	assert.Equal(t, "flag.db", cfg.JournalPath)
	assert.Equal(t, "env.sqlite", cfg.Target.Database)
	assert.Equal(t, 2*time.Second, cfg.Target.Timeout)
	assert.Equal(t, "main", cfg.Target.Schema)
	assert.Equal(t, path, GetConfigFileUsed())
}

func TestLoadConfig_UnchangedFlagsIgnored(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(ResetConfig)
	path := writeConfig(t, dir, "addr: file:1\n")

	flags := testFlags()
	require.NoError(t, flags.Parse(nil))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "file:1", cfg.Addr)
}

func TestLoadConfig_VerboseForcesDebug(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Cleanup(ResetConfig)

	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"-v"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Cleanup(ResetConfig)
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_ExpandsTargetEnvVars(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(ResetConfig)
	t.Setenv("TEST_PG_PASSWORD", "s3cret")
	t.Setenv("TEST_PG_HOST", "pg.local")

	path := writeConfig(t, dir, `
target:
  type: postgres
  host: ${TEST_PG_HOST}
  password: ${TEST_PG_PASSWORD}
  user: ${TEST_UNSET_USER}
  options:
    sslrootcert: ${TEST_PG_HOST}.pem
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "pg.local", cfg.Target.Host)
	assert.Equal(t, "s3cret", cfg.Target.Password)
	assert.Equal(t, "${TEST_UNSET_USER}", cfg.Target.User)
	assert.Equal(t, "pg.local.pem", cfg.Target.Options["sslrootcert"])
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			LogLevel:     "info",
			LogFormat:    "text",
			OutputFormat: "auto",
			Target:       &TargetConfig{Type: "duckdb"},
		}
	}

	tests := []struct {
		name      string
		mutate    func(c *Config)
		errSubstr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing target", func(c *Config) { c.Target = nil }, "target is required"},
		{"unknown adapter", func(c *Config) { c.Target.Type = "mysql" }, "unknown adapter type"},
		{"include and exclude", func(c *Config) {
			c.Tables = &TablesConfig{Include: []string{"a"}, Exclude: []string{"b"}}
		}, "cannot specify both"},
		{"bad output", func(c *Config) { c.OutputFormat = "csv" }, "invalid output format"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "invalid log level"},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, "invalid log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&Config{LogLevel: "warn", LogFormat: "json"}, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	logger, err = NewLogger(&Config{}, &buf)
	require.NoError(t, err)
	logger.Info("plain")
	assert.Contains(t, buf.String(), "msg=plain")

	_, err = NewLogger(&Config{LogLevel: "loud"}, &buf)
	assert.Error(t, err)
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	logger, err := NewLogger(&Config{}, &bytes.Buffer{})
	require.NoError(t, err)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}
