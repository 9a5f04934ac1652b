package youtube

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var validID = regexp.MustCompile(`^[0-9A-Za-z_-]{11}$`)

// Loose patterns tried when the URL does not parse cleanly (share links with
// stray text, missing scheme, etc.).
var fallbackPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})(?:[?&#/]|$)`),
	regexp.MustCompile(`(?:embed/)([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`(?:youtu\.be/)([0-9A-Za-z_-]{11})`),
}

// ExtractVideoID pulls the 11-character video ID out of the common YouTube
// URL shapes: watch, youtu.be, embed, /v/, shorts and live links.
func ExtractVideoID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty video URL")
	}
	if validID.MatchString(raw) {
		return raw, nil
	}

	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
		switch host {
		case "youtu.be":
			if id := firstPathSegment(u.Path); validID.MatchString(id) {
				return id, nil
			}
		case "youtube.com", "m.youtube.com", "music.youtube.com":
			if u.Path == "/watch" {
				if id := u.Query().Get("v"); validID.MatchString(id) {
					return id, nil
				}
			}
			for _, prefix := range []string{"/embed/", "/v/", "/shorts/", "/live/"} {
				if strings.HasPrefix(u.Path, prefix) {
					if id := firstPathSegment(strings.TrimPrefix(u.Path, prefix)); validID.MatchString(id) {
						return id, nil
					}
				}
			}
		}
	}

	for _, re := range fallbackPatterns {
		if m := re.FindStringSubmatch(raw); m != nil && validID.MatchString(m[1]) {
			return m[1], nil
		}
	}

	return "", fmt.Errorf("could not extract a video ID from %q", raw)
}

func firstPathSegment(p string) string {
	p = strings.TrimPrefix(p, "/")
	if i := strings.IndexAny(p, "/?&#"); i >= 0 {
		p = p[:i]
	}
	return p
}

// WatchURL returns the canonical watch link for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
