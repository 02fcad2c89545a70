package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"DB_PATH", "DOWNLOAD_DIR", "SEARCH_RESULTS_LIMIT", "CACHE_EXPIRE_DAYS"} {
		t.Setenv(k, "")
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "search_cache.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.DownloadDir != os.TempDir() {
		t.Errorf("DownloadDir = %q", cfg.DownloadDir)
	}
	if cfg.SearchResultsLimit != 10 {
		t.Errorf("SearchResultsLimit = %d", cfg.SearchResultsLimit)
	}
	if cfg.CacheExpireDays != 7 {
		t.Errorf("CacheExpireDays = %d", cfg.CacheExpireDays)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "google_api_key: from-file\ngoogle_cx: cx-file\ncache_expire_days: 3\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GOOGLE_API_KEY", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GoogleAPIKey != "from-env" {
		t.Errorf("GoogleAPIKey = %q, want env value", cfg.GoogleAPIKey)
	}
	if cfg.GoogleCX != "cx-file" {
		t.Errorf("GoogleCX = %q, want file value", cfg.GoogleCX)
	}
	if cfg.CacheExpireDays != 3 {
		t.Errorf("CacheExpireDays = %d, want file value", cfg.CacheExpireDays)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadAdminIDsFromEnv(t *testing.T) {
	t.Setenv("ADMIN_IDS", " 42, 7 ,1001 ")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []int64{42, 7, 1001}
	if len(cfg.AdminIDs) != len(want) {
		t.Fatalf("AdminIDs = %v", cfg.AdminIDs)
	}
	for i, id := range want {
		if cfg.AdminIDs[i] != id {
			t.Errorf("AdminIDs[%d] = %d, want %d", i, cfg.AdminIDs[i], id)
		}
	}
}

func TestLoadBadAdminIDs(t *testing.T) {
	t.Setenv("ADMIN_IDS", "42,bob")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for non-numeric admin ID")
	}
}

func TestParseAdminIDsSkipsEmptyParts(t *testing.T) {
	ids, err := ParseAdminIDs("1,,2,")
	if err != nil {
		t.Fatalf("ParseAdminIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Errorf("ids = %v", ids)
	}
}

func TestIsAdmin(t *testing.T) {
	cfg := &Config{AdminIDs: []int64{42}}
	if !cfg.IsAdmin(42) {
		t.Error("42 should be admin")
	}
	if cfg.IsAdmin(7) {
		t.Error("7 should not be admin")
	}
}

func TestSearchEnabled(t *testing.T) {
	cfg := &Config{GoogleAPIKey: "k"}
	if cfg.SearchEnabled() {
		t.Error("enabled without CX")
	}
	cfg.GoogleCX = "cx"
	if !cfg.SearchEnabled() {
		t.Error("disabled with both set")
	}
}

func TestCacheMaxAge(t *testing.T) {
	cfg := &Config{CacheExpireDays: 7}
	if got := cfg.CacheMaxAge(); got != 7*24*time.Hour {
		t.Errorf("CacheMaxAge = %s", got)
	}
}
