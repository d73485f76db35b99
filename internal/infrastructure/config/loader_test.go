package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withConfigDir points the loader at a temp dir holding <env>.yaml
func withConfigDir(t *testing.T, env, yaml string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, env+".yaml"), []byte(yaml), 0o600))

	saved := ConfigPaths
	ConfigPaths = []string{dir}
	t.Cleanup(func() { ConfigPaths = saved })
}

func TestLoadConfigFor_FileAndDefaults(t *testing.T) {
	withConfigDir(t, "unit", `
server:
  port: 9090
database:
  driver: memory
auth:
  jwtSecret: file-secret
transaction:
  maxRetries: 7
`)

	cfg, err := LoadConfigFor("unit")
	require.NoError(t, err)

	assert.Equal(t, "unit", cfg.Environment)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, 7, cfg.Transaction.MaxRetries)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 200*time.Millisecond, cfg.Database.SlowThreshold)
	assert.Equal(t, 24*time.Hour, cfg.Redis.IdempotencyTTL)
	assert.Equal(t, RewardsConfig{WelcomeBonus: 10, ReferrerReward: 20, ReferredReward: 15}, cfg.Rewards)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFor_EnvOverrides(t *testing.T) {
	withConfigDir(t, "unit", `
database:
  driver: postgres
  host: db.internal
auth:
  jwtSecret: file-secret
`)
	t.Setenv("CL_DATABASE_HOST", "db.override")
	t.Setenv("CL_AUTH_JWTSECRET", "env-secret")
	t.Setenv("CL_REDIS_ENABLED", "true")

	cfg, err := LoadConfigFor("unit")
	require.NoError(t, err)

	assert.Equal(t, "db.override", cfg.Database.Host)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.True(t, cfg.Redis.Enabled)
}

func TestLoadConfigFor_MissingFileUsesDefaults(t *testing.T) {
	saved := ConfigPaths
	ConfigPaths = []string{t.TempDir()}
	t.Cleanup(func() { ConfigPaths = saved })

	cfg, err := LoadConfigFor("nowhere")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CL_ENV", "Production")
	assert.Equal(t, Production, getEnvironment())

	t.Setenv("CL_ENV", "")
	assert.Equal(t, Development, getEnvironment())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Environment: Development,
			Server:      ServerConfig{Port: 8080},
			Database:    DatabaseConfig{Driver: "postgres", Host: "localhost", Database: "ledger", Username: "ledger"},
			Auth:        AuthConfig{JWTSecret: "secret"},
			Rewards:     RewardsConfig{WelcomeBonus: 10, ReferrerReward: 20, ReferredReward: 15},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "memory driver needs no host", mutate: func(c *Config) { c.Database = DatabaseConfig{Driver: "memory"} }},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: "server.port"},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: "not supported"},
		{name: "missing host", mutate: func(c *Config) { c.Database.Host = "" }, wantErr: "database.host"},
		{name: "missing secret", mutate: func(c *Config) { c.Auth.JWTSecret = "" }, wantErr: "auth.jwtSecret is required"},
		{name: "short production secret", mutate: func(c *Config) { c.Environment = Production }, wantErr: "at least 32 bytes"},
		{name: "redis without addr", mutate: func(c *Config) { c.Redis = RedisConfig{Enabled: true} }, wantErr: "redis.addr"},
		{name: "admin without email", mutate: func(c *Config) { c.Auth.Admins = []AdminAccount{{ID: "a1"}} }, wantErr: "auth.admins[0]"},
		{name: "negative reward", mutate: func(c *Config) { c.Rewards.ReferrerReward = -1 }, wantErr: "rewards"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
