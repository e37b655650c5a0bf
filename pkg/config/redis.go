package config

import (
	"fmt"
	"strings"
	"time"
)

// RedisConfig configures the Redis store. KeyPrefix namespaces every key it writes.
type RedisConfig struct {
	Addr      string        `koanf:"addr"`
	Password  string        `koanf:"password"`
	DB        int           `koanf:"db"`
	Timeout   time.Duration `koanf:"timeout"`
	KeyPrefix string        `koanf:"keyprefix"`
}

// String returns a string representation of the Redis configuration.
func (c *RedisConfig) String() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("  redis.addr: %s\n", c.Addr))
	b.WriteString(fmt.Sprintf("  redis.db: %d\n", c.DB))
	b.WriteString(fmt.Sprintf("  redis.timeout: %s\n", c.Timeout))
	b.WriteString(fmt.Sprintf("  redis.keyprefix: %s\n", c.KeyPrefix))
	return b.String()
}

func (c *RedisConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("redis address is not configured")
	}
	if c.DB < 0 {
		return fmt.Errorf("invalid redis database index: %d", c.DB)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("redis timeout must be greater than zero")
	}
	if c.KeyPrefix == "" {
		return fmt.Errorf("redis key prefix is not configured")
	}
	return nil
}
