// Package youtube derives video identifiers and thumbnails from YouTube URLs.
package youtube

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var videoID = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// Hosts that serve /watch, /embed and /shorts pages.
var youtubeHosts = map[string]bool{
	"youtube.com":              true,
	"www.youtube.com":          true,
	"m.youtube.com":            true,
	"music.youtube.com":        true,
	"youtube-nocookie.com":     true,
	"www.youtube-nocookie.com": true,
}

// Path patterns are anchored and tried in order; the first match wins.
var pathPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^/embed/([A-Za-z0-9_-]{11})/?$`),
	regexp.MustCompile(`^/shorts/([A-Za-z0-9_-]{11})/?$`),
}

// ExtractID returns the 11-character video id of a YouTube URL. Only the
// URL's own host is considered, so a YouTube link inside the query or path
// of another site is rejected.
func ExtractID(rawURL string) (string, bool) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", false
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", false
	}
	host := strings.ToLower(u.Hostname())

	if host == "youtu.be" {
		return match(strings.TrimSuffix(strings.TrimPrefix(u.Path, "/"), "/"))
	}
	if !youtubeHosts[host] {
		return "", false
	}

	if u.Path == "/watch" {
		return match(u.Query().Get("v"))
	}
	for _, re := range pathPatterns {
		if m := re.FindStringSubmatch(u.Path); m != nil {
			return m[1], true
		}
	}
	return "", false
}

func match(id string) (string, bool) {
	if !videoID.MatchString(id) {
		return "", false
	}
	return id, true
}

// ThumbnailURL returns the max-resolution thumbnail for a video id.
// There is no lower-resolution fallback.
func ThumbnailURL(id string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", id)
}
