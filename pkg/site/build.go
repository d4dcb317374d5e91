// Package site presents posts as HTML: a static build written to disk and a
// preview server that answers from the content root on every request.
package site

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/folio/pkg/core"
)

// Source is the read side of core.Service used by the site.
type Source interface {
	ListPosts(ctx context.Context) ([]core.Post, error)
	GetPost(ctx context.Context, slug string) (core.Post, error)
}

// Renderer turns a post body into HTML.
type Renderer interface {
	RenderPost(post core.Post) (template.HTML, error)
}

// BuildReport summarizes a static build.
type BuildReport struct {
	OutputDir string
	Posts     int
	Tags      int
	Files     int
	Duration  time.Duration
}

// Build renders the whole site into cfg.OutputDir, which is removed first.
//
// Layout:
//
//	index.html
//	posts/<slug>/index.html
//	tags/<tag>/index.html
//	posts.json
//	feed.xml
//	sitemap.xml
func Build(ctx context.Context, src Source, renderer Renderer, cfg Config) (BuildReport, error) {
	cfg.setDefaults()
	start := time.Now()
	report := BuildReport{OutputDir: cfg.OutputDir}

	out, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return report, fmt.Errorf("%w: %v", core.ErrConfiguration, err)
	}
	if out == filepath.Dir(out) {
		return report, fmt.Errorf("%w: refusing to build into %s", core.ErrConfiguration, out)
	}

	tpl, err := loadPages()
	if err != nil {
		return report, err
	}

	posts, err := src.ListPosts(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list posts: %w", err)
	}
	tags := core.CollectTags(posts)

	if err := os.RemoveAll(out); err != nil {
		return report, fmt.Errorf("failed to clean output directory: %w", err)
	}
	if err := os.MkdirAll(out, 0755); err != nil {
		return report, fmt.Errorf("failed to create output directory: %w", err)
	}

	b := &builder{out: out}

	var buf bytes.Buffer
	if err := tpl.renderIndex(&buf, pageData{Site: cfg, Posts: posts, Tags: tags}); err != nil {
		return report, fmt.Errorf("failed to render index: %w", err)
	}
	if err := b.write("index.html", buf.Bytes()); err != nil {
		return report, err
	}

	for _, p := range posts {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		body, err := renderer.RenderPost(p)
		if err != nil {
			return report, fmt.Errorf("failed to render %s: %w", p.Path, err)
		}
		buf.Reset()
		if err := tpl.renderPost(&buf, pageData{Site: cfg, Post: p, Body: body}); err != nil {
			return report, fmt.Errorf("failed to render %s: %w", p.Path, err)
		}
		if err := b.write(filepath.Join("posts", filepath.FromSlash(p.Slug), "index.html"), buf.Bytes()); err != nil {
			return report, err
		}
		cfg.Logger.Debug("rendered post", "slug", p.Slug)
	}

	for _, tag := range tags {
		buf.Reset()
		data := pageData{Site: cfg, Posts: filterTag(posts, tag), Tags: tags, Tag: tag}
		if err := tpl.renderIndex(&buf, data); err != nil {
			return report, fmt.Errorf("failed to render tag %q: %w", tag, err)
		}
		if err := b.write(filepath.Join("tags", tagSegment(tag), "index.html"), buf.Bytes()); err != nil {
			return report, err
		}
	}

	index, err := json.MarshalIndent(NewPostList(posts), "", "  ")
	if err != nil {
		return report, fmt.Errorf("failed to encode posts.json: %w", err)
	}
	if err := b.write("posts.json", index); err != nil {
		return report, err
	}

	buf.Reset()
	if err := writeFeed(&buf, cfg, posts); err != nil {
		return report, fmt.Errorf("failed to encode feed: %w", err)
	}
	if err := b.write("feed.xml", buf.Bytes()); err != nil {
		return report, err
	}

	buf.Reset()
	if err := writeSitemap(&buf, cfg, posts); err != nil {
		return report, fmt.Errorf("failed to encode sitemap: %w", err)
	}
	if err := b.write("sitemap.xml", buf.Bytes()); err != nil {
		return report, err
	}

	report.Posts = len(posts)
	report.Tags = len(tags)
	report.Files = b.files
	report.Duration = time.Since(start)
	cfg.Logger.Info("site built", "out", out, "posts", report.Posts, "files", report.Files, "duration", report.Duration)
	return report, nil
}

type builder struct {
	out   string
	files int
}

func (b *builder) write(rel string, data []byte) error {
	target := filepath.Join(b.out, rel)
	if !isWithin(b.out, target) {
		return fmt.Errorf("output path escapes the output directory: %s", rel)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(rel), err)
	}
	if err := os.WriteFile(target, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	b.files++
	return nil
}

func isWithin(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
