package feed

import (
	"encoding/base64"
	"fmt"
	"html"
	"strings"
	"unicode"
	"unicode/utf16"
)

// SourceBadge is the round letter logo drawn for a publisher.
type SourceBadge struct {
	Initial string
	Color   string
}

type sourceColor struct {
	name  string
	color string
}

// known publishers, matched exactly first and then by substring in order
var sourceColors = []sourceColor{
	{"Times of India", "#1E40AF"},
	{"Hindustan Times", "#DC2626"},
	{"The Hindu", "#059669"},
	{"Indian Express", "#7C3AED"},
	{"Economic Times", "#D97706"},
	{"Business Standard", "#0891B2"},
	{"Mint", "#059669"},
	{"Livemint", "#059669"},
	{"NDTV", "#DC2626"},
	{"CNN-News18", "#1E40AF"},
	{"India Today", "#DC2626"},
	{"Outlook", "#7C3AED"},
	{"The Wire", "#059669"},
	{"Scroll.in", "#DC2626"},
	{"The Quint", "#7C3AED"},
	{"News18", "#DC2626"},
	{"Zee News", "#1E40AF"},
	{"ABP News", "#DC2626"},
	{"Republic TV", "#DC2626"},
	{"Times Now", "#1E40AF"},
}

var fallbackColors = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEAA7",
	"#DDA0DD", "#98D8C8", "#F7DC6F", "#BB8FCE", "#85C1E9",
	"#F8C471", "#82E0AA", "#F1948A", "#85C1E9", "#D7BDE2",
	"#A9CCE3", "#F9E79F", "#D5A6BD", "#A2D9CE", "#FAD7A0",
}

// BadgeFor returns the badge for a source name. An empty name is treated
// as UnknownSource.
func BadgeFor(source string) SourceBadge {
	if strings.TrimSpace(source) == "" {
		source = UnknownSource
	}

	return SourceBadge{
		Initial: initial(source),
		Color:   colorFor(source),
	}
}

func initial(source string) string {
	for _, r := range source {
		return string(unicode.ToUpper(r))
	}

	return ""
}

func colorFor(source string) string {
	for _, sc := range sourceColors {
		if sc.name == source {
			return sc.color
		}
	}

	lower := strings.ToLower(strings.TrimSpace(source))
	for _, sc := range sourceColors {
		name := strings.ToLower(sc.name)
		if strings.Contains(lower, name) || strings.Contains(name, lower) {
			return sc.color
		}
	}

	return fallbackColors[sourceHash(source)%int64(len(fallbackColors))]
}

// sourceHash is the classic "h*31 + c" string hash over UTF-16 code units
// with 32-bit shifts, as used by the web client, so both pick the same
// fallback color.
func sourceHash(source string) int64 {
	var h int64
	for _, unit := range utf16.Encode([]rune(source)) {
		shifted := int64(int32(uint32(h) << 5))
		h = int64(unit) + shifted - h
	}

	if h < 0 {
		h = -h
	}

	return h
}

// SVG renders the badge as a 20x20 circle with the initial.
func (b SourceBadge) SVG() string {
	return fmt.Sprintf(`<svg width="20" height="20" xmlns="http://www.w3.org/2000/svg">`+
		`<circle cx="10" cy="10" r="8" fill="%s"/>`+
		`<text x="10" y="13" font-family="Arial, sans-serif" font-size="8" font-weight="bold" text-anchor="middle" fill="white">%s</text>`+
		`</svg>`, b.Color, html.EscapeString(b.Initial))
}

// DataURI returns the SVG as a base64 data URI usable as an image source.
func (b SourceBadge) DataURI() string {
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(b.SVG()))
}
