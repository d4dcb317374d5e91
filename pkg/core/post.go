// Package core holds the domain of folio: the Post record, its metadata,
// the Repository port and the Service consumed by the presentation layer.
package core

import (
	"sort"
	"time"
)

// Post is the central entity of the domain.
// It is derived from a single content file and is never mutated after construction.
type Post struct {
	Slug       string
	Title      string
	Date       time.Time
	Tags       []string
	Category   string
	Excerpt    string
	Author     string
	CoverImage string
	Visible    bool
	Pin        bool
	Content    string
	Path       string // Source path relative to the content root, slash separated.
	Metadata   Metadata
}

// HasTag reports whether the post carries tag, compared with Fold.
func (p Post) HasTag(tag string) bool {
	folded := Fold(tag)
	for _, t := range p.Tags {
		if Fold(t) == folded {
			return true
		}
	}
	return false
}

// Less reports whether a sorts before b: newest first, ties broken by slug.
func Less(a, b Post) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.After(b.Date)
	}
	return a.Slug < b.Slug
}

// SortPosts orders posts in place by date descending, then slug ascending.
func SortPosts(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return Less(posts[i], posts[j])
	})
}

// CollectTags returns the folded tags used by posts, sorted and de-duplicated.
func CollectTags(posts []Post) []string {
	set := make(map[string]struct{})
	for _, p := range posts {
		for _, t := range p.Tags {
			set[Fold(t)] = struct{}{}
		}
	}
	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// Snapshot is the full result of scanning a content root.
type Snapshot struct {
	Posts    []Post
	Problems []*ContentError
	Hidden   int
}
