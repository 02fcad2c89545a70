package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all operator-supplied settings. It is constructed once at
// startup and passed by reference into every component; nothing reads the
// environment after Load returns.
type Config struct {
	GoogleAPIKey string `yaml:"google_api_key"`
	GoogleCX     string `yaml:"google_cx"`

	AdminIDs []int64 `yaml:"admin_ids"`

	DBPath      string `yaml:"db_path"`
	DownloadDir string `yaml:"download_dir"`
	LogPath     string `yaml:"log_path"`

	SearchResultsLimit int `yaml:"search_results_limit"`
	CacheExpireDays    int `yaml:"cache_expire_days"`

	// Optional multi-source branches.
	YouTubeAPIKey    string `yaml:"youtube_api_key"`
	DriveCredentials string `yaml:"drive_credentials"`
}

// Load reads an optional YAML config file and then applies environment
// overrides. path may be empty, in which case only the environment and
// defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		c.GoogleAPIKey = v
	}
	if v := os.Getenv("GOOGLE_CX"); v != "" {
		c.GoogleCX = v
	}
	if v := os.Getenv("ADMIN_IDS"); v != "" {
		ids, err := ParseAdminIDs(v)
		if err != nil {
			return err
		}
		c.AdminIDs = ids
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("DOWNLOAD_DIR"); v != "" {
		c.DownloadDir = v
	}
	if v := os.Getenv("SEARCH_BOT_LOG"); v != "" {
		c.LogPath = v
	}
	if v := os.Getenv("SEARCH_RESULTS_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SEARCH_RESULTS_LIMIT: %w", err)
		}
		c.SearchResultsLimit = n
	}
	if v := os.Getenv("CACHE_EXPIRE_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CACHE_EXPIRE_DAYS: %w", err)
		}
		c.CacheExpireDays = n
	}
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		c.YouTubeAPIKey = v
	}
	if v := os.Getenv("GOOGLE_DRIVE_CREDENTIALS"); v != "" {
		c.DriveCredentials = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.DBPath == "" {
		c.DBPath = "search_cache.db"
	}
	if c.DownloadDir == "" {
		c.DownloadDir = os.TempDir()
	}
	if c.SearchResultsLimit <= 0 {
		c.SearchResultsLimit = 10
	}
	if c.CacheExpireDays <= 0 {
		c.CacheExpireDays = 7
	}
}

// ParseAdminIDs parses a comma-separated list of numeric user IDs.
func ParseAdminIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_IDS: %q is not a numeric ID", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// IsAdmin reports whether the given user ID is in the admin allow-list.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// SearchEnabled reports whether the Google Custom Search credentials are
// configured. Search commands are refused with a setup hint otherwise.
func (c *Config) SearchEnabled() bool {
	return c.GoogleAPIKey != "" && c.GoogleCX != ""
}

// CacheMaxAge returns the cache expiry window as a duration.
func (c *Config) CacheMaxAge() time.Duration {
	return time.Duration(c.CacheExpireDays) * 24 * time.Hour
}
