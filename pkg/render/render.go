// Package render turns post bodies into HTML.
//
// Markdown is rendered with goldmark and GitHub Flavored Markdown. Headings get
// generated ids, and optionally a class per level. TeX between "$" or "$$"
// delimiters is passed through for client-side typesetting:
//
//	$e^{i\pi}$  ->  <span class="math math-inline">\(e^{i\pi}\)</span>
//	$$          ->  <div class="math math-display">\[...\]</div>
package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/aretw0/folio/pkg/core"
)

// Renderer converts Markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

type options struct {
	headingClasses headingClasses
	hardWraps      bool
	unsafe         bool
}

// Option configures a Renderer.
type Option func(*options)

// WithHeadingClass sets the class attribute of every heading of the given level (1-6).
func WithHeadingClass(level int, class string) Option {
	return func(o *options) {
		if level < 1 || level > 6 {
			return
		}
		o.headingClasses[level] = class
	}
}

// WithHardWraps renders newlines inside paragraphs as <br>.
func WithHardWraps() Option {
	return func(o *options) {
		o.hardWraps = true
	}
}

// WithUnsafeHTML keeps raw HTML and MDX-style markup from the source.
// By default it is replaced by a comment.
func WithUnsafeHTML() Option {
	return func(o *options) {
		o.unsafe = true
	}
}

// New builds a Renderer.
func New(opts ...Option) *Renderer {
	o := options{headingClasses: make(headingClasses)}
	for _, opt := range opts {
		opt(&o)
	}

	parserOptions := []parser.Option{
		parser.WithAutoHeadingID(),
	}
	if len(o.headingClasses) > 0 {
		parserOptions = append(parserOptions, parser.WithASTTransformers(
			util.Prioritized(o.headingClasses, 500),
		))
	}

	rendererOptions := []renderer.Option{}
	if o.hardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if o.unsafe {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote, Math),
		goldmark.WithParserOptions(parserOptions...),
		goldmark.WithRendererOptions(rendererOptions...),
	)
	return &Renderer{md: md}
}

// Render converts Markdown source to HTML.
func (r *Renderer) Render(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPost renders the body of a post for use in html/template.
func (r *Renderer) RenderPost(post core.Post) (template.HTML, error) {
	out, err := r.Render([]byte(post.Content))
	if err != nil {
		return "", fmt.Errorf("%s: %w", post.Slug, err)
	}
	return template.HTML(out), nil
}
