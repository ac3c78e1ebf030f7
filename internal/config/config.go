package config

import (
	"embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML embed.FS

const (
	defaultPageSize = 6
	minPageSize     = 1
	maxPageSize     = 50
)

type Config struct {
	API      APIConfig      `yaml:"api"`
	Server   ServerConfig   `yaml:"server"`
	Query    QueryConfig    `yaml:"query"`
	Log      LogConfig      `yaml:"log"`
	Identity IdentityConfig `yaml:"identity"`
}

type APIConfig struct {
	BaseURL string `yaml:"base_url"`
}

type ServerConfig struct {
	Port        string   `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type QueryConfig struct {
	PageSize int `yaml:"page_size"` // dashboard list length, 1..50
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

type IdentityConfig struct {
	StateFile string `yaml:"state_file,omitempty"` // empty: user config dir
}

// Load builds the configuration from the embedded defaults, then the YAML
// file at path (if any, with ${VAR} expanded), then environment overrides.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := defaultsYAML.ReadFile("defaults.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read defaults: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.normalize()
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("SCHOLARSHIP_API_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if extra := os.Getenv("CORS_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				c.Server.CORSOrigins = append(c.Server.CORSOrigins, o)
			}
		}
	}
	if v := os.Getenv("DASHBOARD_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DASHBOARD_PAGE_SIZE %q: %w", v, err)
		}
		c.Query.PageSize = n
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("STUDENT_STATE_FILE"); v != "" {
		c.Identity.StateFile = v
	}
	return nil
}

func (c *Config) normalize() {
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if c.Server.Port == "" {
		c.Server.Port = "8081"
	}
	c.Query.PageSize = ClampPageSize(c.Query.PageSize)
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// ClampPageSize keeps n within the allowed page size range; 0 means the default.
func ClampPageSize(n int) int {
	switch {
	case n == 0:
		return defaultPageSize
	case n < minPageSize:
		return minPageSize
	case n > maxPageSize:
		return maxPageSize
	default:
		return n
	}
}
