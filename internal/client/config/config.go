package config

import (
	"time"

	"github.com/mitchellh/go-homedir"
)

// DefaultFile is the config location used when no path is given.
const DefaultFile = "~/.timeline/config.json"

// Config holds runtime settings for the timeline CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - AccessToken: JWT sent with every protected call.
//   - Timeout: per-call deadline.
type Config struct {
	ServerEndpointAddr string
	AccessToken        string
	Timeout            time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.AccessToken = ""
	c.Timeout = 10 * time.Second
}

// DefaultPath expands DefaultFile against the user's home directory.
func DefaultPath() (string, error) {
	return homedir.Expand(DefaultFile)
}

// resolve returns path, or the default location when path is empty.
func resolve(path string) (string, error) {
	if path == "" {
		return DefaultPath()
	}
	return homedir.Expand(path)
}

// Load builds a Config from defaults overlaid with the JSON file at path.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	p, err := resolve(path)
	if err != nil {
		return nil, err
	}
	if err := readJSON(p, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes c to the JSON file at path, creating parent directories.
func (c *Config) Save(path string) error {
	p, err := resolve(path)
	if err != nil {
		return err
	}
	return writeJSON(p, c)
}
