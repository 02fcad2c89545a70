// Command checkconfig verifies that a deployment is wired up correctly
// before the server is started: credentials present, database openable,
// download directory writable, yt-dlp on PATH. Exits non-zero if any
// check fails.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/avkarev/search-bot/internal/config"
	"github.com/avkarev/search-bot/internal/store"
)

type report struct {
	problems int
}

func (r *report) ok(format string, args ...any) {
	fmt.Printf("  [ok]   "+format+"\n", args...)
}

func (r *report) warn(format string, args ...any) {
	fmt.Printf("  [warn] "+format+"\n", args...)
}

func (r *report) fail(format string, args ...any) {
	r.problems++
	fmt.Printf("  [FAIL] "+format+"\n", args...)
}

func main() {
	configPath := flag.String("config", os.Getenv("SEARCH_BOT_CONFIG"), "path to an optional YAML config file")
	flag.Parse()

	r := &report{}

	fmt.Println("Configuration")
	cfg, err := config.Load(*configPath)
	if err != nil {
		r.fail("load config: %v", err)
		os.Exit(1)
	}
	if *configPath != "" {
		r.ok("config file %s", *configPath)
	} else {
		r.ok("no config file, environment and defaults only")
	}

	fmt.Println("Search credentials")
	if cfg.GoogleAPIKey == "" {
		r.fail("GOOGLE_API_KEY is not set")
	} else {
		r.ok("GOOGLE_API_KEY set (%d chars)", len(cfg.GoogleAPIKey))
	}
	if cfg.GoogleCX == "" {
		r.fail("GOOGLE_CX is not set")
	} else {
		r.ok("GOOGLE_CX set")
	}

	fmt.Println("Admins")
	if len(cfg.AdminIDs) == 0 {
		r.warn("no admin IDs configured; stats and cache commands will be refused for everyone")
	} else {
		r.ok("%d admin ID(s) configured", len(cfg.AdminIDs))
	}

	fmt.Println("Database")
	if st, err := store.Open(cfg.DBPath); err != nil {
		r.fail("open %s: %v", cfg.DBPath, err)
	} else {
		n, err := st.CountEntries(context.Background())
		if err != nil {
			r.fail("query %s: %v", cfg.DBPath, err)
		} else {
			r.ok("%s openable, %d cached entries", cfg.DBPath, n)
		}
		st.Close()
	}

	fmt.Println("Downloads")
	probe := filepath.Join(cfg.DownloadDir, ".checkconfig")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		r.fail("download dir %s not writable: %v", cfg.DownloadDir, err)
	} else {
		os.Remove(probe)
		r.ok("download dir %s writable", cfg.DownloadDir)
	}
	if path, err := exec.LookPath("yt-dlp"); err != nil {
		r.fail("yt-dlp not found on PATH; video downloads will fail")
	} else {
		r.ok("yt-dlp at %s", path)
	}

	fmt.Println("Optional sources")
	if cfg.YouTubeAPIKey == "" {
		r.warn("YOUTUBE_API_KEY not set; multi-search skips YouTube")
	} else {
		r.ok("YouTube API key set")
	}
	if cfg.DriveCredentials == "" {
		r.warn("GOOGLE_DRIVE_CREDENTIALS not set; multi-search skips Drive")
	} else if _, err := os.Stat(cfg.DriveCredentials); err != nil {
		r.fail("Drive credentials file %s: %v", cfg.DriveCredentials, err)
	} else {
		r.ok("Drive credentials file %s", cfg.DriveCredentials)
	}

	if r.problems > 0 {
		fmt.Printf("\n%d problem(s) found.\n", r.problems)
		os.Exit(1)
	}
	fmt.Println("\nAll checks passed.")
}
