package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	req := require.New(t)

	cfg, err := Load()
	req.NoError(err)

	req.Equal(":3001", cfg.Addr)
	req.Equal(50, cfg.HistoryLimit)
	req.Equal(int64(4096), cfg.MaxMessageSize)
	req.Empty(cfg.RedisAddr)
	req.Empty(cfg.PostgresDSN)
	req.Empty(cfg.AllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	req := require.New(t)

	t.Setenv("ADDR", ":9000")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("HISTORY_LIMIT", "10")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000,https://dashboard.example.com")

	cfg, err := Load()
	req.NoError(err)

	req.Equal(":9000", cfg.Addr)
	req.Equal("localhost:6379", cfg.RedisAddr)
	req.Equal(10, cfg.HistoryLimit)
	req.Equal([]string{"http://localhost:3000", "https://dashboard.example.com"}, cfg.AllowedOrigins)
}
