package config

import "github.com/kelseyhightower/envconfig"

// Config holds everything the relay reads from the environment.
type Config struct {
	// Addr is the listen address. 3001 matches what the dashboard expects.
	Addr string `envconfig:"ADDR" default:":3001"`

	// RedisAddr enables the Redis-backed message history when set.
	RedisAddr string `envconfig:"REDIS_ADDR"`

	// PostgresDSN enables the Postgres-backed message history when set.
	// Ignored if RedisAddr is also set.
	PostgresDSN string `envconfig:"DB_DSN"`

	// HistoryLimit caps how many messages a history backend keeps per room.
	HistoryLimit int `envconfig:"HISTORY_LIMIT" default:"50"`

	// MaxMessageSize is the read limit applied to each connection, in bytes.
	MaxMessageSize int64 `envconfig:"MAX_MESSAGE_SIZE" default:"4096"`

	// AllowedOrigins restricts websocket upgrades to the listed Origin
	// headers. Empty means allow all.
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS"`
}

func Load() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
