package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRootCmd mirrors the persistent flags of the real root command.
func newTestRootCmd() *cobra.Command {
	cmd := &cobra.Command{}
	pf := cmd.PersistentFlags()
	pf.String("config", "", "")
	pf.String("log-level", "info", "")
	pf.String("log-format", "text", "")
	pf.Bool("no-color", false, "")
	pf.BoolP("quiet", "q", false, "")

	return cmd
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))

	return p
}

// inEmptyDir keeps auto-discovery from picking up a stray config file.
func inEmptyDir(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, LogLevelInfo, cfg.LogLevel)
	assert.Equal(t, LogFormatText, cfg.LogFormat)
	assert.Equal(t, FieldOrderStrict, cfg.FieldOrder)
	assert.Equal(t, OutputFormatJSON, cfg.Format)
	assert.Equal(t, 2, cfg.Indent)
	assert.Zero(t, cfg.Workers)
	assert.Empty(t, cfg.Schema)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"debug level", func(c *Config) { c.LogLevel = "debug" }, ""},
		{"json logs", func(c *Config) { c.LogFormat = "json" }, ""},
		{"relaxed order", func(c *Config) { c.FieldOrder = "relaxed" }, ""},
		{"yaml output", func(c *Config) { c.Format = "yaml" }, ""},
		{"workers", func(c *Config) { c.Workers = 8 }, ""},
		{"bad level", func(c *Config) { c.LogLevel = "verbose" }, "invalid log level"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "invalid log format"},
		{"bad field order", func(c *Config) { c.FieldOrder = "loose" }, "invalid field order"},
		{"bad format", func(c *Config) { c.Format = "toml" }, "invalid format"},
		{"negative indent", func(c *Config) { c.Indent = -1 }, "invalid indent"},
		{"negative workers", func(c *Config) { c.Workers = -2 }, "invalid workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "verbose"
	cfg.FieldOrder = "loose"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
	assert.Contains(t, err.Error(), "invalid field order")
}

func TestEffectiveLogLevel(t *testing.T) {
	assert.Equal(t, "debug", (&Config{LogLevel: "debug"}).EffectiveLogLevel())
	assert.Equal(t, "error", (&Config{LogLevel: "debug", Quiet: true}).EffectiveLogLevel())
}

func TestLoad_DefaultsOnly(t *testing.T) {
	inEmptyDir(t)

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Env(t *testing.T) {
	inEmptyDir(t)
	t.Setenv("JSONAPI_FACTORY_LOG_LEVEL", "debug")
	t.Setenv("JSONAPI_FACTORY_NO_COLOR", "true")
	t.Setenv("JSONAPI_FACTORY_QUIET", "true")
	t.Setenv("JSONAPI_FACTORY_FIELD_ORDER", "relaxed")
	t.Setenv("JSONAPI_FACTORY_WORKERS", "4")
	t.Setenv("JSONAPI_FACTORY_SCHEMA", "types.yaml")

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.NoColor)
	assert.True(t, cfg.Quiet)
	assert.Equal(t, "relaxed", cfg.FieldOrder)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "types.yaml", cfg.Schema)
}

func TestLoad_ConfigFile(t *testing.T) {
	inEmptyDir(t)

	p := writeTempConfig(t, `
log-level: warn
log-format: json
schema: ./schema.yaml
field-order: relaxed
format: yaml
indent: 4
workers: 2
`)

	cfg, err := Load(nil, p)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "./schema.yaml", cfg.Schema)
	assert.Equal(t, "relaxed", cfg.FieldOrder)
	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, 4, cfg.Indent)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, p, cfg.ConfigFile)
}

func TestLoad_AutoDiscoversFileInWorkingDir(t *testing.T) {
	inEmptyDir(t)
	require.NoError(t, os.WriteFile(".jsonapi-factory.yaml", []byte("format: yaml\n"), 0o600))

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Format)
	assert.NotEmpty(t, cfg.ConfigFile)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(nil, filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoad_MalformedFile(t *testing.T) {
	p := writeTempConfig(t, ": invalid yaml :")

	_, err := Load(nil, p)
	require.Error(t, err)
}

func TestLoad_Precedence(t *testing.T) {
	tests := []struct {
		name string
		env  string
		file string
		flag string
		want string
	}{
		{name: "flag over default", flag: "error", want: "error"},
		{name: "flag over env", env: "debug", flag: "error", want: "error"},
		{name: "env over file", env: "debug", file: "warn", want: "debug"},
		{name: "flag over all", env: "debug", file: "warn", flag: "error", want: "error"},
		{name: "file over default", file: "warn", want: "warn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inEmptyDir(t)

			if tt.env != "" {
				t.Setenv("JSONAPI_FACTORY_LOG_LEVEL", tt.env)
			}

			var path string
			if tt.file != "" {
				path = writeTempConfig(t, "log-level: "+tt.file+"\n")
			}

			cmd := newTestRootCmd()
			if tt.flag != "" {
				require.NoError(t, cmd.PersistentFlags().Set("log-level", tt.flag))
			}

			cfg, err := Load(cmd, path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.LogLevel)
		})
	}
}

func TestLoad_LocalFlagsNotBound(t *testing.T) {
	inEmptyDir(t)

	root := newTestRootCmd()
	sub := &cobra.Command{Use: "inspect"}
	sub.Flags().String("format", "table", "")
	root.AddCommand(sub)

	cfg, err := Load(sub, "")
	require.NoError(t, err)
	assert.Equal(t, OutputFormatJSON, cfg.Format)
}

func TestLoad_InvalidValues(t *testing.T) {
	inEmptyDir(t)
	t.Setenv("JSONAPI_FACTORY_LOG_LEVEL", "verbose")

	_, err := Load(nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")

	p := writeTempConfig(t, "field-order: loose\n")
	t.Setenv("JSONAPI_FACTORY_LOG_LEVEL", "info")

	_, err = Load(nil, p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid field order")
}

func TestContext_RoundTrip(t *testing.T) {
	cfg := &Config{LogLevel: "debug", LogFormat: "json"}
	ctx := NewContext(context.Background(), cfg)
	assert.Equal(t, cfg, FromContext(ctx))
}

func TestFromContext_FallbackToDefault(t *testing.T) {
	assert.Equal(t, Default(), FromContext(context.Background()))
}
