package site

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aretw0/folio/pkg/core"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"date":    func(t time.Time) string { return t.Format("January 2, 2006") },
	"isoDate": func(t time.Time) string { return t.Format(time.RFC3339) },
	"postURL": PostURL,
	"tagURL":  TagURL,
}

// PostURL is the site path of a post page, each slug segment escaped.
func PostURL(slug string) string {
	segments := strings.Split(strings.Trim(slug, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return "/posts/" + strings.Join(segments, "/") + "/"
}

// TagURL is the site path of a tag index.
func TagURL(tag string) string {
	return "/tags/" + tagSegment(tag) + "/"
}

// tagSegment is the one path segment naming a tag, both in URLs and in the build
// output. Slashes are escaped and dot-only tags are spelled out so a tag can never
// leave tags/.
func tagSegment(tag string) string {
	seg := url.PathEscape(core.Fold(tag))
	if strings.Trim(seg, ".") == "" {
		seg = strings.ReplaceAll(seg, ".", "%2E")
	}
	return seg
}

// buildURL joins path segments onto the canonical site URL.
func buildURL(base string, segments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(segments...))
	if len(segments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// pageData is the root value of every page template.
type pageData struct {
	Site  Config
	Posts []core.Post
	Tags  []string
	Tag   string
	Post  core.Post
	Body  template.HTML
}

// pages holds one template set per page kind, each layered on base.html.
type pages struct {
	index    *template.Template
	post     *template.Template
	notFound *template.Template
}

func loadPages() (*pages, error) {
	base, err := template.New("base.html").Funcs(funcs).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse base layout: %w", err)
	}

	layer := func(name string) (*template.Template, error) {
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		t, err := clone.ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		return t, nil
	}

	p := &pages{}
	if p.index, err = layer("index.html"); err != nil {
		return nil, err
	}
	if p.post, err = layer("post.html"); err != nil {
		return nil, err
	}
	if p.notFound, err = layer("notfound.html"); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *pages) renderIndex(w io.Writer, data pageData) error {
	return p.index.ExecuteTemplate(w, "base.html", data)
}

func (p *pages) renderPost(w io.Writer, data pageData) error {
	return p.post.ExecuteTemplate(w, "base.html", data)
}

func (p *pages) renderNotFound(w io.Writer, data pageData) error {
	return p.notFound.ExecuteTemplate(w, "base.html", data)
}

// filterTag keeps the posts carrying tag, preserving order.
func filterTag(posts []core.Post, tag string) []core.Post {
	out := []core.Post{}
	for _, p := range posts {
		if p.HasTag(tag) {
			out = append(out, p)
		}
	}
	return out
}
