// Package download fetches social-media videos via the yt-dlp extractor,
// enforcing the domain allow-list and the relay size cap.
package download

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/avkarev/search-bot/internal/logger"
)

// MaxFileSize is the largest file the bot will relay.
const MaxFileSize = 50 * 1024 * 1024

const (
	formatSpec = "bestvideo[height<=720]+bestaudio/best[height<=720]/best"
	userAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var (
	ErrUnsupportedDomain = errors.New("download: unsupported domain")
	ErrFetchFailed       = errors.New("download: fetch failed")
	ErrTooLarge          = errors.New("download: file too large")
)

// supportedDomains is the fixed allow-list. YouTube stays out while
// downloads from it are blocked upstream.
var supportedDomains = []string{
	"instagram.com",
	"tiktok.com",
	"twitter.com",
	"x.com",
	"facebook.com",
	"fb.watch",
	"reddit.com",
	"vimeo.com",
}

// VideoInfo describes a fetched video. The file at FilePath belongs to the
// caller, which must release it with Cleanup on every exit path.
type VideoInfo struct {
	FilePath  string
	Title     string
	Duration  float64
	Uploader  string
	Thumbnail string
	FileSize  int64
	Platform  Platform
}

// Downloader runs yt-dlp under a scratch directory per request.
type Downloader struct {
	dir string
	bin string
}

// New creates a Downloader writing under dir.
func New(dir string) *Downloader {
	return &Downloader{dir: dir, bin: "yt-dlp"}
}

// IsSupported reports whether the URL's host belongs to a platform on the
// allow-list. Substring matching over the lower-cased URL mirrors how users
// paste links (with and without www, mobile prefixes, share params).
func (d *Downloader) IsSupported(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, domain := range supportedDomains {
		if strings.Contains(lower, domain) {
			return true
		}
	}
	return false
}

// ytdlpInfo is the slice of yt-dlp's info JSON we read.
type ytdlpInfo struct {
	ID        string  `json:"id"`
	Ext       string  `json:"ext"`
	Title     string  `json:"title"`
	Duration  float64 `json:"duration"`
	Uploader  string  `json:"uploader"`
	Thumbnail string  `json:"thumbnail"`
	Filename  string  `json:"_filename"`
}

// Download fetches the video behind rawURL. It returns
// ErrUnsupportedDomain without invoking the extractor for hosts outside the
// allow-list, ErrFetchFailed (wrapped) on any extractor failure, and
// ErrTooLarge after deleting files over MaxFileSize.
func (d *Downloader) Download(ctx context.Context, rawURL string) (*VideoInfo, error) {
	if !d.IsSupported(rawURL) {
		return nil, ErrUnsupportedDomain
	}

	scratch := filepath.Join(d.dir, uuid.NewString())
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return nil, fmt.Errorf("%w: scratch dir: %v", ErrFetchFailed, err)
	}

	cmd := exec.CommandContext(ctx, d.bin,
		"-f", formatSpec,
		"-o", filepath.Join(scratch, "%(id)s.%(ext)s"),
		"--no-check-certificates",
		"--user-agent", userAgent,
		"--no-playlist",
		"--no-progress",
		"--print-json",
		rawURL,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		_ = os.RemoveAll(scratch)
		logger.Errorf("yt-dlp %s: %v: %s", rawURL, err, firstLine(stderr.Bytes()))
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	var info ytdlpInfo
	if err := json.Unmarshal(jsonLine(stdout.Bytes()), &info); err != nil {
		_ = os.RemoveAll(scratch)
		return nil, fmt.Errorf("%w: parse info: %v", ErrFetchFailed, err)
	}

	path := info.Filename
	if path == "" {
		path = filepath.Join(scratch, info.ID+"."+info.Ext)
	}
	fi, err := os.Stat(path)
	if err != nil {
		_ = os.RemoveAll(scratch)
		return nil, fmt.Errorf("%w: output missing: %v", ErrFetchFailed, err)
	}
	if fi.Size() > MaxFileSize {
		_ = os.RemoveAll(scratch)
		logger.Warnf("video from %s is %d bytes, over the %d limit", rawURL, fi.Size(), MaxFileSize)
		return nil, ErrTooLarge
	}

	vi := &VideoInfo{
		FilePath:  path,
		Title:     info.Title,
		Duration:  info.Duration,
		Uploader:  info.Uploader,
		Thumbnail: info.Thumbnail,
		FileSize:  fi.Size(),
		Platform:  DetectPlatform(rawURL),
	}
	if vi.Title == "" {
		vi.Title = "video"
	}
	if vi.Uploader == "" {
		vi.Uploader = "Unknown"
	}
	return vi, nil
}

// Cleanup removes a downloaded file and its scratch directory.
func (d *Downloader) Cleanup(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Errorf("remove %s: %v", path, err)
	}
	if dir := filepath.Dir(path); dir != d.dir && dir != "." {
		_ = os.Remove(dir)
	}
}

// jsonLine returns the first line that looks like an info JSON object.
// yt-dlp may interleave warnings on stdout in some configurations.
func jsonLine(out []byte) []byte {
	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) > 0 && line[0] == '{' {
			return append([]byte(nil), line...)
		}
	}
	return out
}

func firstLine(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
