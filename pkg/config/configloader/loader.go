// Package configloader merges defaults, a YAML file, a .env file and environment variables into a typed configuration.
package configloader

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const defaultConfigFile = "config.yaml"

type Validator interface {
	Validate() error
}

// Options tweaks where Load looks for its sources.
type Options struct {
	// Defaults are loaded first and have the lowest priority. Keys use "." as delimiter.
	Defaults map[string]any
	// ConfigFile overrides the YAML file location. <PREFIX>CONFIG_FILE wins over it.
	ConfigFile string
	// EnvFile overrides the .env file location.
	EnvFile string
}

// Load builds the configuration of the named service.
// Sources in increasing priority: defaults, YAML file, .env file, <SERVICE>_ environment variables.
// Environment keys are lower-cased, stripped of the prefix and "_" becomes ".": WHISKY_STORE_BACKEND -> store.backend.
func Load[T Validator](serviceName string, opts ...Options) (T, error) {
	var cfg T
	var opt Options
	if len(opts) > 0 {
		opt = opts[0]
	}
	k := koanf.New(".")

	envPrefix := fmt.Sprintf("%s_", strings.ToUpper(serviceName))
	envTransformer := func(key string) string {
		key = strings.ToLower(key)
		key = strings.TrimPrefix(key, strings.ToLower(envPrefix))
		return strings.ReplaceAll(key, "_", ".")
	}

	// 1. Defaults
	if len(opt.Defaults) > 0 {
		if err := k.Load(confmap.Provider(opt.Defaults, "."), nil); err != nil {
			return cfg, fmt.Errorf("error loading default config: %w", err)
		}
	}

	// 2. YAML file
	configFile := opt.ConfigFile
	if configFile == "" {
		configFile = defaultConfigFile
	}
	if fromEnv := os.Getenv(envPrefix + "CONFIG_FILE"); fromEnv != "" {
		configFile = fromEnv
	}
	if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("WARN: error loading YAML config file '%s': %v", configFile, err)
		}
	}

	// 3. .env file, only keys carrying the service prefix
	envFile := opt.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if envFileMap, err := godotenv.Read(envFile); err == nil {
		envMap := make(map[string]any)
		for key, value := range envFileMap {
			if !strings.HasPrefix(strings.ToUpper(key), envPrefix) {
				continue
			}
			envMap[envTransformer(key)] = value
		}
		if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
			log.Printf("WARN: error loading .env config: %v", err)
		}
	} else if !os.IsNotExist(err) {
		log.Printf("WARN: error reading .env file: %v", err)
	}

	// 4. System environment, the highest priority
	if err := k.Load(env.Provider(envPrefix, ".", envTransformer), nil); err != nil {
		log.Printf("WARN: error loading system env vars: %v", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}
