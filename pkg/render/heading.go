package render

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// headingClasses sets a class attribute on headings by level.
type headingClasses map[int]string

func (h headingClasses) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if class, ok := h[heading.Level]; ok && class != "" {
			heading.SetAttributeString("class", []byte(class))
		}
		return ast.WalkSkipChildren, nil
	})
}
