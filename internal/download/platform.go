package download

import "strings"

// Platform identifies the hosting service a video came from.
type Platform string

const (
	PlatformInstagram Platform = "Instagram"
	PlatformTikTok    Platform = "TikTok"
	PlatformYouTube   Platform = "YouTube"
	PlatformTwitter   Platform = "Twitter/X"
	PlatformFacebook  Platform = "Facebook"
	PlatformReddit    Platform = "Reddit"
	PlatformVimeo     Platform = "Vimeo"
	PlatformUnknown   Platform = "Unknown"
)

// DetectPlatform maps a URL to its hosting platform. Detection is broader
// than the allow-list: it also recognizes platforms the bot will not fetch
// from, such as YouTube.
func DetectPlatform(rawURL string) Platform {
	lower := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lower, "instagram.com"):
		return PlatformInstagram
	case strings.Contains(lower, "tiktok.com"):
		return PlatformTikTok
	case strings.Contains(lower, "youtube.com"), strings.Contains(lower, "youtu.be"):
		return PlatformYouTube
	case strings.Contains(lower, "twitter.com"), strings.Contains(lower, "x.com"):
		return PlatformTwitter
	case strings.Contains(lower, "facebook.com"), strings.Contains(lower, "fb.watch"):
		return PlatformFacebook
	case strings.Contains(lower, "reddit.com"):
		return PlatformReddit
	case strings.Contains(lower, "vimeo.com"):
		return PlatformVimeo
	default:
		return PlatformUnknown
	}
}
