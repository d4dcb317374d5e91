package site

import (
	"time"

	"github.com/aretw0/folio/pkg/core"
)

// PostJSON is the wire form of a post in posts.json and the JSON API.
type PostJSON struct {
	Slug       string        `json:"slug"`
	Title      string        `json:"title"`
	Date       time.Time     `json:"date"`
	Tags       []string      `json:"tags"`
	Category   string        `json:"category,omitempty"`
	Excerpt    string        `json:"excerpt,omitempty"`
	Author     string        `json:"author,omitempty"`
	CoverImage string        `json:"coverImage,omitempty"`
	Pin        bool          `json:"pin"`
	Path       string        `json:"path"`
	URL        string        `json:"url"`
	Metadata   core.Metadata `json:"metadata,omitempty"`
	Content    string        `json:"content,omitempty"`
	HTML       string        `json:"html,omitempty"`
}

// NewPostJSON converts a post without its body. Callers fill Content and HTML when needed.
func NewPostJSON(p core.Post) PostJSON {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return PostJSON{
		Slug:       p.Slug,
		Title:      p.Title,
		Date:       p.Date,
		Tags:       tags,
		Category:   p.Category,
		Excerpt:    p.Excerpt,
		Author:     p.Author,
		CoverImage: p.CoverImage,
		Pin:        p.Pin,
		Path:       p.Path,
		URL:        PostURL(p.Slug),
		Metadata:   p.Metadata,
	}
}

// NewPostList converts posts in order; the result is never nil.
func NewPostList(posts []core.Post) []PostJSON {
	out := make([]PostJSON, 0, len(posts))
	for _, p := range posts {
		out = append(out, NewPostJSON(p))
	}
	return out
}
