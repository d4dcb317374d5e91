package fs

import (
	"fmt"
	"path"
	"strings"
	"unicode"

	"github.com/goliatone/go-slug"
)

// makeSlug turns every segment of a slash-separated source into a slug segment.
// A trailing "index" segment names its directory, so "notes/rl/index" becomes "notes/rl".
func makeSlug(source string) (string, error) {
	source = strings.Trim(source, "/")
	segments := strings.Split(source, "/")
	if len(segments) > 1 && segments[len(segments)-1] == "index" {
		segments = segments[:len(segments)-1]
	}

	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		s := slugSegment(seg)
		if s == "" || s == "." || s == ".." {
			return "", fmt.Errorf("invalid slug segment %q", seg)
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return "", fmt.Errorf("empty slug")
	}
	return strings.Join(out, "/"), nil
}

// slugSegment uses go-slug when it only lowercases and hyphenates the segment.
// Anything lossier ("深度学习", "c++") keeps the segment's own characters, so
// distinct names never collapse onto one slug. URLs escape it where needed.
func slugSegment(seg string) string {
	plain := plainSegment(seg)
	if normalized, err := slug.Normalize(seg); err == nil && normalized == plain {
		return normalized
	}
	return plain
}

// plainSegment lowercases seg, turns whitespace runs into "-" and drops control characters.
func plainSegment(seg string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(seg) {
		switch {
		case unicode.IsSpace(r):
			space = true
		case unicode.IsControl(r):
		default:
			if space && b.Len() > 0 {
				b.WriteByte('-')
			}
			space = false
			b.WriteRune(r)
		}
	}
	return b.String()
}

// stripExt removes the file extension from a slash-separated path.
func stripExt(rel string) string {
	return strings.TrimSuffix(rel, path.Ext(rel))
}
