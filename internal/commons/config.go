package commons

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"reserva/internal/config"
)

// LoadConfig reads a YAML config file. Keys missing from the file keep the
// values from the environment.
func LoadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config file: %w", err)
	}

	return cfg, nil
}

// Resolve picks the YAML file named by CONFIG_FILE when set, else the
// environment alone.
func Resolve() (*config.Config, error) {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return LoadConfig(path)
	}
	return config.Load()
}
