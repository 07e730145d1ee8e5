package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, 72*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10, cfg.AuthRateLimit)
	assert.False(t, cfg.SMTPEnabled())
	assert.Contains(t, cfg.CORSOrigins, "http://localhost:3000")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "ok", mutate: func(c *Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.StoreDriver = "mongo" }, wantErr: "unsupported STORE_DRIVER"},
		{name: "redis without url", mutate: func(c *Config) { c.StoreDriver = "redis" }, wantErr: "REDIS_URL"},
		{name: "empty secret", mutate: func(c *Config) { c.JWTSecret = "  " }, wantErr: "JWT_SECRET"},
		{name: "zero ttl", mutate: func(c *Config) { c.SessionTTL = 0 }, wantErr: "SESSION_TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{StoreDriver: "memory", JWTSecret: "secret", SessionTTL: time.Hour}
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

func TestDSNs(t *testing.T) {
	cfg := &Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "catalog"}
	assert.Equal(t, "host=db user=u password=p dbname=catalog port=5432 sslmode=disable", cfg.PostgresDSN())
	assert.Equal(t, "u:p@tcp(db:5432)/catalog?charset=utf8mb4&parseTime=True&loc=Local", cfg.MySQLDSN())

	cfg.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", cfg.PostgresDSN())
}
