package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/timeline/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON (un)marshalling.
// It relies on timex.Duration so JSON can specify the timeout either as a
// string like "10s" or as integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr,omitempty"`
	AccessToken        string         `json:"access_token,omitempty"`
	Timeout            timex.Duration `json:"timeout,omitempty"`
}

// readJSON overlays cfg with the non-empty values of the file at path.
// A missing file leaves cfg untouched.
func readJSON(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.AccessToken != "" {
		cfg.AccessToken = jc.AccessToken
	}
	if jc.Timeout.Duration > 0 {
		cfg.Timeout = jc.Timeout.Duration
	}
	return nil
}

func writeJSON(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(JsonConfig{
		ServerEndpointAddr: cfg.ServerEndpointAddr,
		AccessToken:        cfg.AccessToken,
		Timeout:            timex.Duration{Duration: cfg.Timeout},
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
