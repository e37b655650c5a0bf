package config

import (
	"fmt"
	"strings"
	"time"
)

type MongoConfig struct {
	URI      string        `koanf:"uri"`
	Database string        `koanf:"database"`
	Timeout  time.Duration `koanf:"timeout"`
}

// String returns a string representation of the MongoDB configuration.
func (c *MongoConfig) String() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("  mongo.uri: %s\n", MaskURL(c.URI)))
	b.WriteString(fmt.Sprintf("  mongo.database: %s\n", c.Database))
	b.WriteString(fmt.Sprintf("  mongo.timeout: %s\n", c.Timeout))
	return b.String()
}

func (c *MongoConfig) Validate() error {
	if c.URI == "" {
		return fmt.Errorf("mongo URI is not configured")
	}
	if !strings.HasPrefix(c.URI, "mongodb://") && !strings.HasPrefix(c.URI, "mongodb+srv://") {
		return fmt.Errorf("mongo URI must start with 'mongodb://': %s", MaskURL(c.URI))
	}
	if c.Database == "" {
		return fmt.Errorf("mongo database is not configured")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("mongo timeout must be greater than zero")
	}
	return nil
}
