package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no -config flag is given
const DefaultPath = "sysconf.yaml"

// AppConfig represents the application configuration
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Data    DataConfig    `yaml:"data"`
	Scraper ScraperConfig `yaml:"scraper"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Port  int    `yaml:"port"`
	Title string `yaml:"title"`
}

type DataConfig struct {
	Dir       string `yaml:"dir"`
	BaseURL   string `yaml:"base_url"`
	CFPPath   string `yaml:"cfp_path"`
	DatesPath string `yaml:"dates_path"`
}

type ScraperConfig struct {
	Conferences string            `yaml:"conferences"`
	OutputDir   string            `yaml:"output_dir"`
	Workers     int               `yaml:"workers"`
	Timeout     time.Duration     `yaml:"timeout"`
	UserAgent   string            `yaml:"user_agent"`
	Proxy       string            `yaml:"proxy"`
	SearchURL   string            `yaml:"search_url"`
	HorizonDays int               `yaml:"horizon_days"`
	Homepages   map[string]string `yaml:"homepages"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is present
func Default() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:  8080,
			Title: "Systems Conferences",
		},
		Data: DataConfig{
			Dir:       ".",
			CFPPath:   "generated/cfp.json",
			DatesPath: "generated/confdates.json",
		},
		Scraper: ScraperConfig{
			Conferences: "data/conferences.json",
			OutputDir:   "generated",
			Workers:     5,
			Timeout:     10 * time.Second,
			UserAgent:   "sysconf-tracker-bot",
			SearchURL:   "https://dblp.org/search",
			HorizonDays: 365,
			Homepages: map[string]string{
				"OSDI":       "https://www.usenix.org/conference/osdi",
				"SOSP":       "https://www.sosp.org",
				"ASPLOS":     "https://www.asplos-conference.org",
				"EuroSys":    "https://www.eurosys.org",
				"USENIX ATC": "https://www.usenix.org/conference/atc",
				"FAST":       "https://www.usenix.org/conference/fast",
			},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads .env (if any), the YAML file at path over the defaults, then
// applies SYSCONF_* environment overrides. A missing file is not an error
func Load(path string) (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *AppConfig) applyEnv() {
	c.Server.Port = envInt("SYSCONF_PORT", c.Server.Port)
	c.Data.Dir = envString("SYSCONF_DATA_DIR", c.Data.Dir)
	c.Data.BaseURL = envString("SYSCONF_BASE_URL", c.Data.BaseURL)
	c.Scraper.Proxy = envString("SYSCONF_PROXY", c.Scraper.Proxy)
	c.Log.Level = envString("SYSCONF_LOG_LEVEL", c.Log.Level)
}

func envString(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}
