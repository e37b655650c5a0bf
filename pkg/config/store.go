package config

import (
	"fmt"
	"strings"
)

const (
	StoreBackendPostgres = "postgres"
	StoreBackendMemory   = "memory"
	StoreBackendRedis    = "redis"
	StoreBackendMongo    = "mongo"
)

// StoreConfig selects the persistence backend and carries the settings of each one.
// Only the section of the selected backend is validated.
type StoreConfig struct {
	Backend  string         `koanf:"backend"`
	Database DatabaseConfig `koanf:"database"`
	Redis    RedisConfig    `koanf:"redis"`
	Mongo    MongoConfig    `koanf:"mongo"`
}

// String returns a string representation of the store configuration.
func (c *StoreConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Store ---\n")
	b.WriteString(fmt.Sprintf("  backend: %s\n", c.Backend))
	switch c.Backend {
	case StoreBackendPostgres:
		b.WriteString(c.Database.String())
	case StoreBackendRedis:
		b.WriteString(c.Redis.String())
	case StoreBackendMongo:
		b.WriteString(c.Mongo.String())
	}
	return b.String()
}

func (c *StoreConfig) Validate() error {
	switch c.Backend {
	case StoreBackendPostgres:
		return c.Database.Validate()
	case StoreBackendRedis:
		return c.Redis.Validate()
	case StoreBackendMongo:
		return c.Mongo.Validate()
	case StoreBackendMemory:
		return nil
	default:
		return fmt.Errorf("unknown store backend %q", c.Backend)
	}
}
