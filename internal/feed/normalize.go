package feed

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	// DisplayLayout is the date format shown next to an article.
	DisplayLayout = "Jan 2, 2006, 3:04 PM"

	// UnknownSource replaces a missing publisher name.
	UnknownSource = "Unknown"

	wordsPerMinute  = 200
	fallbackReading = "1 min read"
)

// View is the normalized, display-ready form of an article.
type View struct {
	ID          string
	Title       string
	Summary     string
	Link        string
	ImageURL    string
	Source      string
	Category    string
	PublishedAt time.Time
	Published   string
	ReadTime    string
	Badge       SourceBadge
}

// Normalizer turns raw API records into views. The zero value displays
// dates in UTC.
type Normalizer struct {
	Location *time.Location
}

// Normalize applies the display rules to one record. It never fails:
// missing or unparseable fields become their documented fallbacks.
func (n Normalizer) Normalize(a RawArticle) View {
	loc := n.Location
	if loc == nil {
		loc = time.UTC
	}

	source := strings.TrimSpace(a.Source)
	if source == "" {
		source = UnknownSource
	}

	v := View{
		ID:       a.Key(),
		Title:    strings.TrimSpace(a.Title),
		Summary:  strings.TrimSpace(a.Summary),
		Link:     a.Link,
		ImageURL: imageURL(a),
		Source:   source,
		Category: a.Category,
		ReadTime: ReadingTime(a.FullText),
		Badge:    BadgeFor(source),
	}

	if at, ok := a.PublishedDt.Time(); ok {
		v.PublishedAt = at
		v.Published = at.In(loc).Format(DisplayLayout)
	}

	return v
}

// NormalizeAll normalizes a batch, preserving order.
func (n Normalizer) NormalizeAll(items []RawArticle) []View {
	views := make([]View, 0, len(items))
	for _, a := range items {
		views = append(views, n.Normalize(a))
	}

	return views
}

func imageURL(a RawArticle) string {
	if u := strings.TrimSpace(a.ImageURL); u != "" {
		return u
	}

	return strings.TrimSpace(a.Image)
}

// ReadingTime estimates reading time at 200 words per minute, at least one
// minute. A missing body reads as one minute.
func ReadingTime(fullText *string) string {
	if fullText == nil {
		return fallbackReading
	}

	words := len(strings.Fields(*fullText))
	minutes := int(math.Round(float64(words) / wordsPerMinute))
	if minutes < 1 {
		minutes = 1
	}

	return fmt.Sprintf("%d min read", minutes)
}
