// Package config holds the configuration of the whisky service and the stock notifier.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/abgdnv/whiskystock/pkg/config"
	"github.com/abgdnv/whiskystock/pkg/config/configloader"
	"github.com/abgdnv/whiskystock/pkg/messaging"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig       `koanf:"server"`
	Store      config.StoreConfig      `koanf:"store"`
	Log        config.LogConfig        `koanf:"log"`
	PProf      config.PProfConfig      `koanf:"pprof"`
	GRPC       config.GrpcServerConfig `koanf:"grpc"`
	Shutdown   config.ShutdownConfig   `koanf:"shutdown"`
	Telemetry  config.TelemetryConfig  `koanf:"telemetry"`
	Nats       config.NATSConfig       `koanf:"nats"`
	Resilience config.ResilienceConfig `koanf:"resilience"`
}

// Defaults returns the baseline configuration of the whisky service.
// Every value can be overridden by the YAML file or WHISKY_* environment variables.
func Defaults() map[string]any {
	return map[string]any{
		"server.port":               8080,
		"server.maxHeaderBytes":     1 << 20,
		"server.timeout.read":       5 * time.Second,
		"server.timeout.write":      10 * time.Second,
		"server.timeout.idle":       120 * time.Second,
		"server.timeout.readHeader": 2 * time.Second,

		"store.backend":          config.StoreBackendPostgres,
		"store.database.timeout": 5 * time.Second,
		"store.database.migrate": true,
		"store.redis.addr":       "localhost:6379",
		"store.redis.timeout":    3 * time.Second,
		"store.redis.keyprefix":  "whisky",
		"store.mongo.database":   "whiskystock",
		"store.mongo.timeout":    5 * time.Second,

		"log.level":        "info",
		"pprof.enabled":    false,
		"pprof.addr":       "localhost:6060",
		"grpc.port":        "50051",
		"grpc.reflection":  false,
		"shutdown.timeout": 15 * time.Second,

		"telemetry.metrics.enabled":         true,
		"telemetry.metrics.path":            "/metrics",
		"telemetry.traces.otlphttp.timeout": 5 * time.Second,

		"nats.enabled": false,
		"nats.timeout": 5 * time.Second,
		"nats.stream":  messaging.WhiskyStream,

		"resilience.circuitbreaker.consecutivefailures": 5,
		"resilience.circuitbreaker.errorratepercent":    50,
		"resilience.circuitbreaker.opentimeout":         30 * time.Second,
		"resilience.circuitbreaker.halfopenrequests":    1,
	}
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.Store.String())
	b.WriteString(c.GRPC.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.Nats.String())
	if c.Nats.Enabled {
		b.WriteString(c.Resilience.String())
	}
	b.WriteString(c.Shutdown.String())
	return b.String()
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	if err := c.HTTPServer.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.PProf.Validate(); err != nil {
		return err
	}
	if err := c.Shutdown.Validate(); err != nil {
		return err
	}
	if err := c.GRPC.Validate(); err != nil {
		return err
	}
	if err := c.Telemetry.Validate(); err != nil {
		return err
	}
	if err := c.Nats.Validate(); err != nil {
		return err
	}
	if c.Nats.Enabled {
		if err := c.Resilience.Validate(); err != nil {
			return err
		}
	}
	return nil
}

var _ configloader.Validator = (*NotifierConfig)(nil)

// NotifierConfig is the configuration of the stock notifier.
type NotifierConfig struct {
	Log        config.LogConfig        `koanf:"log"`
	PProf      config.PProfConfig      `koanf:"pprof"`
	Nats       config.NATSConfig       `koanf:"nats"`
	Subscriber config.SubscriberConfig `koanf:"subscriber"`
	Telemetry  config.TelemetryConfig  `koanf:"telemetry"`
	Alerts     AlertsConfig            `koanf:"alerts"`
	Shutdown   config.ShutdownConfig   `koanf:"shutdown"`
}

// AlertsConfig sets when a stock change is reported as low stock.
// A quantity at or below LowStockPercent of the max capacity triggers the alert.
type AlertsConfig struct {
	LowStockPercent int `koanf:"lowstockpercent"`
}

func (c *AlertsConfig) String() string {
	return fmt.Sprintf("\n--- Alerts ---\n  lowstockpercent: %d\n", c.LowStockPercent)
}

func (c *AlertsConfig) Validate() error {
	if c.LowStockPercent < 0 || c.LowStockPercent > 100 {
		return fmt.Errorf("alerts.lowstockpercent must be between 0 and 100: %d", c.LowStockPercent)
	}
	return nil
}

// NotifierDefaults returns the baseline configuration of the stock notifier.
func NotifierDefaults() map[string]any {
	return map[string]any{
		"log.level":     "info",
		"pprof.enabled": false,
		"pprof.addr":    "localhost:6061",

		"nats.enabled": true,
		"nats.url":     "nats://localhost:4222",
		"nats.timeout": 5 * time.Second,
		"nats.stream":  messaging.WhiskyStream,

		"subscriber.stream":   messaging.WhiskyStream,
		"subscriber.subject":  messaging.WhiskyStockChangedSubject,
		"subscriber.consumer": "stock-notifier",
		"subscriber.timeout":  5 * time.Second,
		"subscriber.interval": time.Second,
		"subscriber.workers":  4,

		"alerts.lowstockpercent": 10,
		"shutdown.timeout":       15 * time.Second,
	}
}

func (c *NotifierConfig) String() string {
	var b strings.Builder
	b.WriteString(c.Nats.String())
	b.WriteString(c.Subscriber.String())
	b.WriteString(c.Alerts.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Shutdown.String())
	return b.String()
}

// Validate checks if the configuration values are valid
func (c *NotifierConfig) Validate() error {
	if !c.Nats.Enabled {
		return fmt.Errorf("the stock notifier requires nats.enabled=true")
	}
	if err := c.Nats.Validate(); err != nil {
		return err
	}
	if err := c.Subscriber.Validate(); err != nil {
		return err
	}
	if err := c.Alerts.Validate(); err != nil {
		return err
	}
	if err := c.Telemetry.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.PProf.Validate(); err != nil {
		return err
	}
	if err := c.Shutdown.Validate(); err != nil {
		return err
	}
	return nil
}
