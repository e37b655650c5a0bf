package config

import (
	"fmt"
	"strings"
	"time"
)

// DatabaseConfig configures the PostgreSQL pool. Migrate applies the embedded schema migrations on startup.
type DatabaseConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
	Migrate bool          `koanf:"migrate"`
}

// String returns a string representation of the database configuration with credentials masked.
func (c *DatabaseConfig) String() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("  database.url: %s\n", MaskURL(c.URL)))
	b.WriteString(fmt.Sprintf("  database.timeout: %s\n", c.Timeout))
	b.WriteString(fmt.Sprintf("  database.migrate: %t\n", c.Migrate))
	return b.String()
}

func (c *DatabaseConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("database URL is not configured")
	}
	if !isValidPostgresURL(c.URL) {
		return fmt.Errorf("database URL must start with 'postgres://': %s", MaskURL(c.URL))
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("database connect timeout must be greater than zero")
	}
	return nil
}

// isValidPostgresURL checks if the provided URL is a valid PostgreSQL URL
func isValidPostgresURL(url string) bool {
	return strings.HasPrefix(url, "postgres://") ||
		strings.HasPrefix(url, "postgresql://")
}

// MaskURL hides the user info part of a connection URL.
func MaskURL(url string) string {
	if url == "" {
		return "<not configured>"
	}
	schemeEnd := strings.Index(url, "://")
	at := strings.LastIndex(url, "@")
	if at < 0 {
		return url
	}
	if schemeEnd < 0 || schemeEnd > at {
		return "****@" + url[at+1:]
	}
	return url[:schemeEnd+3] + "****@" + url[at+1:]
}
