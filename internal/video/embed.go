// Package video decides how a highlight media link is shown on the match page.
package video

import (
	"net/url"
	"path"
	"strings"
)

type EmbedKind string

const (
	EmbedNone    EmbedKind = "none"
	EmbedYouTube EmbedKind = "youtube"
	EmbedVideo   EmbedKind = "video"
	EmbedLink    EmbedKind = "link"
)

type Embed struct {
	Kind EmbedKind `json:"kind"`
	URL  string    `json:"url,omitempty"`
}

var videoExtensions = map[string]bool{
	".mp4":  true,
	".webm": true,
	".ogg":  true,
	".mov":  true,
}

// Classify maps a media link to an embeddable form. Links that are not
// http(s) are never embedded.
func Classify(link string) Embed {
	link = strings.TrimSpace(link)
	if link == "" {
		return Embed{Kind: EmbedNone}
	}
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Embed{Kind: EmbedNone}
	}

	if id := youTubeID(u); id != "" {
		return Embed{Kind: EmbedYouTube, URL: "https://www.youtube.com/embed/" + url.PathEscape(id)}
	}
	if videoExtensions[strings.ToLower(path.Ext(u.Path))] {
		return Embed{Kind: EmbedVideo, URL: u.String()}
	}
	return Embed{Kind: EmbedLink, URL: u.String()}
}

// IsValidLink reports whether link can be stored as a highlight.
func IsValidLink(link string) bool {
	return Classify(link).Kind != EmbedNone
}

func youTubeID(u *url.URL) string {
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	host = strings.TrimPrefix(host, "m.")
	switch host {
	case "youtu.be":
		return firstSegment(u.Path)
	case "youtube.com":
		if u.Path == "/watch" {
			return u.Query().Get("v")
		}
		for _, prefix := range []string{"/embed/", "/shorts/", "/live/"} {
			if rest, ok := strings.CutPrefix(u.Path, prefix); ok {
				return firstSegment(rest)
			}
		}
	}
	return ""
}

func firstSegment(p string) string {
	p = strings.TrimPrefix(p, "/")
	if i := strings.Index(p, "/"); i >= 0 {
		p = p[:i]
	}
	return p
}
