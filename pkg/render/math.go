package render

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindMathInline is the node kind of MathInline.
var KindMathInline = ast.NewNodeKind("MathInline")

// KindMathBlock is the node kind of MathBlock.
var KindMathBlock = ast.NewNodeKind("MathBlock")

// MathInline is a $...$ or $$...$$ span inside a paragraph.
type MathInline struct {
	ast.BaseInline
	Display bool
}

func (n *MathInline) Kind() ast.NodeKind { return KindMathInline }

func (n *MathInline) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Display": boolString(n.Display),
	}, nil)
}

// MathBlock is a display formula fenced by lines holding only "$$".
type MathBlock struct {
	ast.BaseBlock
}

func (n *MathBlock) Kind() ast.NodeKind { return KindMathBlock }

// IsRaw keeps the formula away from inline parsing.
func (n *MathBlock) IsRaw() bool { return true }

func (n *MathBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

type mathInlineParser struct{}

func (p *mathInlineParser) Trigger() []byte {
	return []byte{'$'}
}

// Parse scans the current line for the closing delimiter.
// A single "$" must hug its content: "$ x$", "$x $" and "$5 and $6" stay text.
func (p *mathInlineParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, segment := block.PeekLine()
	delim := 1
	if len(line) > 1 && line[1] == '$' {
		delim = 2
	}
	if len(line) <= delim || isBlank(line[delim]) {
		return nil
	}

	for i := delim; i < len(line); i++ {
		c := line[i]
		if c == '\n' {
			break
		}
		if c == '\\' {
			i++
			continue
		}
		if c != '$' {
			continue
		}
		if delim == 2 {
			if i+1 >= len(line) || line[i+1] != '$' {
				continue
			}
		} else if isBlank(line[i-1]) || (i+1 < len(line) && isDigit(line[i+1])) {
			continue
		}

		node := &MathInline{Display: delim == 2}
		node.AppendChild(node, ast.NewRawTextSegment(text.NewSegment(segment.Start+delim, segment.Start+i)))
		block.Advance(i + delim)
		return node
	}
	return nil
}

type mathBlockParser struct{}

func (p *mathBlockParser) Trigger() []byte {
	return []byte{'$'}
}

func (p *mathBlockParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, _ := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || !isFence(line[pos:]) {
		return nil, parser.NoChildren
	}
	return &MathBlock{}, parser.NoChildren
}

func (p *mathBlockParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	line, segment := reader.PeekLine()
	w, pos := util.IndentWidth(line, reader.LineOffset())
	if w < 4 && isFence(line[pos:]) {
		newline := 1
		if line[len(line)-1] != '\n' {
			newline = 0
		}
		reader.Advance(segment.Stop - segment.Start - newline + segment.Padding)
		return parser.Close
	}
	node.Lines().Append(segment)
	return parser.Continue | parser.NoChildren
}

func (p *mathBlockParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {}

func (p *mathBlockParser) CanInterruptParagraph() bool { return true }

func (p *mathBlockParser) CanAcceptIndentedLine() bool { return false }

// isFence reports whether line is "$$" with nothing but whitespace around it.
func isFence(line []byte) bool {
	return bytes.Equal(bytes.TrimSpace(line), []byte("$$"))
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// mathHTMLRenderer emits TeX wrapped in the delimiters KaTeX auto-render looks for.
type mathHTMLRenderer struct{}

func (r *mathHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindMathInline, r.renderInline)
	reg.Register(KindMathBlock, r.renderBlock)
}

func (r *mathHTMLRenderer) renderInline(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	var tex bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			tex.Write(t.Segment.Value(source))
		}
	}
	if n.(*MathInline).Display {
		writeDisplay(w, tex.Bytes())
	} else {
		_, _ = w.WriteString(`<span class="math math-inline">\(`)
		_, _ = w.Write(util.EscapeHTML(bytes.TrimSpace(tex.Bytes())))
		_, _ = w.WriteString(`\)</span>`)
	}
	return ast.WalkSkipChildren, nil
}

func (r *mathHTMLRenderer) renderBlock(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	var tex bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		tex.Write(seg.Value(source))
	}
	writeDisplay(w, tex.Bytes())
	_ = w.WriteByte('\n')
	return ast.WalkSkipChildren, nil
}

func writeDisplay(w util.BufWriter, tex []byte) {
	_, _ = w.WriteString(`<div class="math math-display">\[`)
	_, _ = w.Write(util.EscapeHTML(bytes.TrimSpace(tex)))
	_, _ = w.WriteString(`\]</div>`)
}

type mathExtension struct{}

// Math adds $...$ inline and $$ display formulas. The TeX source is passed
// through HTML-escaped for client-side typesetting.
var Math goldmark.Extender = &mathExtension{}

func (e *mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(util.Prioritized(&mathBlockParser{}, 150)),
		parser.WithInlineParsers(util.Prioritized(&mathInlineParser{}, 150)),
	)
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&mathHTMLRenderer{}, 150),
	))
}
