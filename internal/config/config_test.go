package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/msgboard/internal/service/messages"
)

func TestLoad_WritesDefaultConfigWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, resolved, err := Load(nil, path)
	require.NoError(t, err)
	require.Equal(t, path, resolved)
	require.Equal(t, Default(), cfg)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestLoad_FileAndEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
addr: ":9090"
store:
  driver: memory
messages:
  max_limit: 50
  default_limit: 20
  update_policy: owner
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("MSGBOARD_MESSAGES_LIKE_CLEANUP", "requester")
	t.Setenv("MSGBOARD_JWT_TTL", "1h")

	cfg, _, err := Load(nil, path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Equal(t, ":9090", cfg.Addr)
	require.Equal(t, DriverMemory, cfg.Store.Driver)
	require.Equal(t, time.Hour, cfg.JWT.TTL)

	opts := cfg.MessageOptions()
	require.Equal(t, 50, opts.MaxLimit)
	require.Equal(t, 20, opts.DefaultLimit)
	require.Equal(t, messages.UpdateOwnerOnly, opts.UpdatePolicy)
	require.Equal(t, messages.CleanupRequesterLikes, opts.LikeCleanup)
	require.True(t, opts.AtomicDelete)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "unknown driver", mutate: func(c *Config) { c.Store.Driver = "postgres" }},
		{name: "empty sqlite path", mutate: func(c *Config) { c.Store.DatabasePath = "" }},
		{name: "empty secret", mutate: func(c *Config) { c.JWT.Secret = "" }},
		{name: "default above cap", mutate: func(c *Config) { c.Messages.DefaultLimit = c.Messages.MaxLimit + 1 }},
		{name: "unknown update policy", mutate: func(c *Config) { c.Messages.UpdatePolicy = "admin" }},
		{name: "unknown cleanup", mutate: func(c *Config) { c.Messages.LikeCleanup = "none" }},
	}

	base := Default()
	require.NoError(t, base.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
