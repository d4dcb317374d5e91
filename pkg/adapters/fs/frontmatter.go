package fs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/folio/pkg/core"
)

// formats lists the accepted front-matter blocks: YAML between "---" lines
// and TOML between "+++" lines.
var formats = []*frontmatter.Format{
	frontmatter.NewFormat("---", "---", yaml.Unmarshal),
	frontmatter.NewFormat("+++", "+++", toml.Unmarshal),
}

// dateLayouts are tried in order for string dates. Layouts without a zone are UTC.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parsePost reads a content file and derives a post from it.
// relPath is the slash-separated path relative to the content root.
// Errors returned here are the reason the file is malformed.
func parsePost(r io.Reader, relPath string) (core.Post, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return core.Post{}, fmt.Errorf("read: %w", err)
	}

	var raw map[string]any
	body, err := frontmatter.MustParse(bytes.NewReader(data), &raw, formats...)
	if err != nil {
		if errors.Is(err, frontmatter.ErrNotFound) {
			return core.Post{}, errors.New("no front-matter block")
		}
		return core.Post{}, fmt.Errorf("failed to parse front-matter: %w", err)
	}

	post := core.Post{
		Visible:  true,
		Path:     relPath,
		Metadata: make(core.Metadata),
	}

	slugSource := stripExt(relPath)
	var excerpt, summary *string
	// Sorted keys make the reported error stable for files with several problems.
	for _, key := range slices.Sorted(maps.Keys(raw)) {
		val := raw[key]
		if val == nil {
			continue
		}
		switch key {
		case "title":
			post.Title, err = stringField(key, val)
		case "date":
			post.Date, err = parseDate(val)
		case "tags":
			post.Tags, err = parseTags(val)
		case "category":
			post.Category, err = stringField(key, val)
		case "excerpt":
			excerpt, err = stringPtr(key, val)
		case "summary":
			summary, err = stringPtr(key, val)
		case "author":
			post.Author, err = stringField(key, val)
		case "coverImage":
			post.CoverImage, err = stringField(key, val)
		case "visible":
			post.Visible, err = boolField(key, val)
		case "pin":
			post.Pin, err = boolField(key, val)
		case "slug":
			slugSource, err = stringField(key, val)
		default:
			var v core.Value
			v, err = core.ValueOf(val)
			if err == nil {
				post.Metadata[key] = v
			} else {
				err = fmt.Errorf("%s: %w", key, err)
			}
		}
		if err != nil {
			return core.Post{}, err
		}
	}

	// excerpt wins over its alias even when empty.
	switch {
	case excerpt != nil:
		post.Excerpt = *excerpt
	case summary != nil:
		post.Excerpt = *summary
	}

	post.Title = strings.TrimSpace(post.Title)
	if post.Title == "" {
		return core.Post{}, errors.New("missing title")
	}
	if post.Date.IsZero() {
		return core.Post{}, errors.New("missing date")
	}

	post.Content = strings.TrimPrefix(strings.TrimPrefix(string(body), "\r\n"), "\n")
	if strings.TrimSpace(post.Content) == "" {
		return core.Post{}, errors.New("empty body")
	}

	post.Slug, err = makeSlug(slugSource)
	if err != nil {
		return core.Post{}, err
	}

	return post, nil
}

func stringField(key string, val any) (string, error) {
	s, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string, got %T", key, val)
	}
	return s, nil
}

func stringPtr(key string, val any) (*string, error) {
	s, err := stringField(key, val)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func boolField(key string, val any) (bool, error) {
	b, ok := val.(bool)
	if !ok {
		return false, fmt.Errorf("%s must be a boolean, got %T", key, val)
	}
	return b, nil
}

func parseDate(val any) (time.Time, error) {
	switch t := val.(type) {
	case time.Time:
		return t, nil
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized date %q", t)
	default:
		return time.Time{}, fmt.Errorf("date must be a timestamp or string, got %T", val)
	}
}

// parseTags accepts a list of strings or a single comma-separated string.
func parseTags(val any) ([]string, error) {
	var items []string
	switch t := val.(type) {
	case string:
		items = strings.Split(t, ",")
	case []any:
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("tags must be strings, got %T", item)
			}
			items = append(items, s)
		}
	case []string:
		items = t
	default:
		return nil, fmt.Errorf("tags must be a list or a string, got %T", val)
	}

	var tags []string
	seen := make(map[string]bool)
	for _, item := range items {
		tag := strings.TrimSpace(item)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags, nil
}
