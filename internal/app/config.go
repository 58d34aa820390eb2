package app

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds runtime wiring options.
type Config struct {
	// Home is the local data directory, e.g. $HOME/.sealbox.
	Home string `yaml:"home"`
	// Backend selects the remote storage API. Empty means file-backed
	// stores under Home.
	Backend string `yaml:"backend"`
	// UnlockRPS / UnlockBurst throttle password unlock attempts per user.
	// Zero disables throttling.
	UnlockRPS   float64 `yaml:"unlockRPS"`
	UnlockBurst int     `yaml:"unlockBurst"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		UnlockRPS:   0.5,
		UnlockBurst: 5,
	}
}

// LoadConfig reads a yaml config file over the defaults. A missing path is
// not an error; flags applied by the caller take precedence over the file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
