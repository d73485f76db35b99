package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Host = "localhost"
	cfg.Username = "ledger"
	cfg.Password = "secret"
	cfg.Database = "coins"
	return cfg
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing host", mutate: func(c *Config) { c.Host = "" }, wantErr: "database host is required"},
		{name: "bad port", mutate: func(c *Config) { c.Port = 70000 }, wantErr: "invalid port number"},
		{name: "missing user", mutate: func(c *Config) { c.Username = "" }, wantErr: "username"},
		{name: "missing name", mutate: func(c *Config) { c.Database = "" }, wantErr: "database name"},
		{name: "bad ssl mode", mutate: func(c *Config) { c.SSLMode = "maybe" }, wantErr: "invalid SSL mode"},
		{name: "no pool", mutate: func(c *Config) { c.MaxOpenConns = 0 }, wantErr: "max open connections"},
		{name: "no timeout", mutate: func(c *Config) { c.QueryTimeout = 0 }, wantErr: "query timeout"},
		{name: "no attempts", mutate: func(c *Config) { c.RetryAttempts = 0 }, wantErr: "retry attempts"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
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

func TestConfigDSN(t *testing.T) {
	assert.Equal(t,
		"host=localhost port=5432 user=ledger password=secret dbname=coins sslmode=disable",
		validConfig().DSN(),
	)
}
