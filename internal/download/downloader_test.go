package download

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

const fakeScript = `#!/bin/sh
tmpl=""
prev=""
for a in "$@"; do
  if [ "$prev" = "-o" ]; then tmpl="$a"; fi
  prev="$a"
done
out=$(printf '%s' "$tmpl" | sed -e 's/%(id)s/vid123/' -e 's/%(ext)s/mp4/')
head -c __SIZE__ /dev/zero > "$out"
printf '{"id":"vid123","ext":"mp4","title":"Test Clip","duration":12.5,"uploader":"someone","_filename":"%s"}\n' "$out"
`

// fakeDownloader returns a Downloader whose yt-dlp is a shell stub that
// writes a file of the given size and prints the matching info JSON.
func fakeDownloader(t *testing.T, size int64) *Downloader {
	t.Helper()
	bin := filepath.Join(t.TempDir(), "yt-dlp")
	body := strings.ReplaceAll(fakeScript, "__SIZE__", strconv.FormatInt(size, 10))
	if err := os.WriteFile(bin, []byte(body), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	d := New(t.TempDir())
	d.bin = bin
	return d
}

func TestDownloadSuccess(t *testing.T) {
	d := fakeDownloader(t, 1024)
	info, err := d.Download(context.Background(), "https://www.tiktok.com/@user/video/1")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	defer d.Cleanup(info.FilePath)

	if info.Title != "Test Clip" || info.Uploader != "someone" {
		t.Errorf("metadata: %+v", info)
	}
	if info.Duration != 12.5 {
		t.Errorf("duration: got %v, want 12.5", info.Duration)
	}
	if info.FileSize != 1024 {
		t.Errorf("size: got %d, want 1024", info.FileSize)
	}
	if info.Platform != PlatformTikTok {
		t.Errorf("platform: got %q, want TikTok", info.Platform)
	}
	if _, err := os.Stat(info.FilePath); err != nil {
		t.Errorf("downloaded file missing: %v", err)
	}
}

func TestDownloadUnsupportedDomainSkipsExtractor(t *testing.T) {
	d := New(t.TempDir())
	// Points at nothing: if the allow-list check leaked through, the run
	// would fail with a different error class.
	d.bin = filepath.Join(t.TempDir(), "does-not-exist")

	_, err := d.Download(context.Background(), "https://example.com/watch?v=1")
	if !errors.Is(err, ErrUnsupportedDomain) {
		t.Fatalf("got %v, want ErrUnsupportedDomain", err)
	}
}

func TestDownloadTooLargeDeletesFile(t *testing.T) {
	d := fakeDownloader(t, 60*1024*1024)
	_, err := d.Download(context.Background(), "https://vimeo.com/12345")
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("got %v, want ErrTooLarge", err)
	}

	// The oversized file and its scratch dir are gone.
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("download dir not cleaned: %d entries left", len(entries))
	}
}

func TestDownloadFetchFailure(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "yt-dlp")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\necho 'ERROR: private video' >&2\nexit 1\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	d := New(t.TempDir())
	d.bin = bin

	_, err := d.Download(context.Background(), "https://www.instagram.com/reel/abc/")
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("got %v, want ErrFetchFailed", err)
	}
	entries, _ := os.ReadDir(d.dir)
	if len(entries) != 0 {
		t.Errorf("scratch dir left behind after failure")
	}
}

func TestCleanupRemovesFileAndScratchDir(t *testing.T) {
	d := fakeDownloader(t, 64)
	info, err := d.Download(context.Background(), "https://www.reddit.com/r/videos/abc")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	d.Cleanup(info.FilePath)
	if _, err := os.Stat(info.FilePath); !os.IsNotExist(err) {
		t.Errorf("file still present after cleanup")
	}
	if _, err := os.Stat(filepath.Dir(info.FilePath)); !os.IsNotExist(err) {
		t.Errorf("scratch dir still present after cleanup")
	}
}

func TestIsSupported(t *testing.T) {
	d := New(t.TempDir())
	cases := []struct {
		url  string
		want bool
	}{
		{"https://www.instagram.com/reel/abc/", true},
		{"https://VM.TIKTOK.COM/ZM123/", true},
		{"https://x.com/user/status/1", true},
		{"https://fb.watch/abc/", true},
		{"https://www.youtube.com/watch?v=abc", false},
		{"https://example.com/video.mp4", false},
	}
	for _, tc := range cases {
		if got := d.IsSupported(tc.url); got != tc.want {
			t.Errorf("IsSupported(%q): got %v, want %v", tc.url, got, tc.want)
		}
	}
}

func TestDetectPlatform(t *testing.T) {
	cases := []struct {
		url  string
		want Platform
	}{
		{"https://www.instagram.com/p/x", PlatformInstagram},
		{"https://youtu.be/abc", PlatformYouTube},
		{"https://twitter.com/u/status/1", PlatformTwitter},
		{"https://x.com/u/status/1", PlatformTwitter},
		{"https://fb.watch/xyz", PlatformFacebook},
		{"https://old.reddit.com/r/v/1", PlatformReddit},
		{"https://vimeo.com/1", PlatformVimeo},
		{"https://example.org/clip", PlatformUnknown},
	}
	for _, tc := range cases {
		if got := DetectPlatform(tc.url); got != tc.want {
			t.Errorf("DetectPlatform(%q): got %q, want %q", tc.url, got, tc.want)
		}
	}
}
