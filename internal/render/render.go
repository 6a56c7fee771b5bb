// Package render draws generated Markdown, including mermaid diagrams, for a
// terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

const minWidth = 20

// DiagramRenderer draws the body of a ```mermaid block.
type DiagramRenderer interface {
	RenderDiagram(source string, width int) string
}

// Renderer turns Markdown into styled terminal text.
type Renderer struct {
	md       goldmark.Markdown
	theme    Theme
	diagrams DiagramRenderer
}

// Option customises a Renderer.
type Option func(*Renderer)

func WithTheme(t Theme) Option {
	return func(r *Renderer) { r.theme = t }
}

func WithDiagramRenderer(d DiagramRenderer) Option {
	return func(r *Renderer) { r.diagrams = d }
}

func New(opts ...Option) *Renderer {
	r := &Renderer{
		md:    goldmark.New(goldmark.WithExtensions(extension.GFM)),
		theme: DarkTheme(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.diagrams == nil {
		r.diagrams = OutlineRenderer{Theme: r.theme}
	}
	return r
}

// Theme returns the active theme.
func (r *Renderer) Theme() Theme { return r.theme }

// Render lays out markdown for the given column width.
func (r *Renderer) Render(markdown string, width int) string {
	if width < minWidth {
		width = minWidth
	}
	source := []byte(markdown)
	doc := r.md.Parser().Parse(text.NewReader(source))
	w := &writer{r: r, source: source, width: width}
	w.blocks(doc)
	return strings.TrimRight(w.b.String(), "\n")
}

type writer struct {
	r      *Renderer
	source []byte
	width  int
	b      strings.Builder
}

func (w *writer) sub(width int) *writer {
	if width < minWidth/2 {
		width = minWidth / 2
	}
	return &writer{r: w.r, source: w.source, width: width}
}

func (w *writer) line(s string) {
	w.b.WriteString(s)
	w.b.WriteByte('\n')
}

func (w *writer) gap() {
	out := w.b.String()
	if out == "" || strings.HasSuffix(out, "\n\n") {
		return
	}
	w.b.WriteByte('\n')
}

func (w *writer) blocks(parent ast.Node) {
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		w.block(child)
	}
}

func (w *writer) block(n ast.Node) {
	theme := w.r.theme
	switch node := n.(type) {
	case *ast.Heading:
		content := w.inline(node)
		style := theme.H3
		switch node.Level {
		case 1:
			style = theme.H1
		case 2:
			style = theme.H2
		}
		w.gap()
		w.line(style.Render(wordwrap.String(content, w.width)))
		w.gap()
	case *ast.Paragraph:
		w.line(wordwrap.String(w.inline(node), w.width))
		w.gap()
	case *ast.TextBlock:
		w.line(wordwrap.String(w.inline(node), w.width))
	case *ast.List:
		w.list(node)
		w.gap()
	case *ast.FencedCodeBlock:
		lang := strings.ToLower(strings.TrimSpace(string(node.Language(w.source))))
		body := w.lines(node)
		if lang == "mermaid" {
			w.gap()
			w.line(w.r.diagrams.RenderDiagram(body, w.width))
			w.gap()
			return
		}
		w.code(body)
	case *ast.CodeBlock:
		w.code(w.lines(node))
	case *ast.Blockquote:
		inner := w.sub(w.width - 2)
		inner.blocks(node)
		bar := theme.Quote.Render("│ ")
		for _, l := range strings.Split(strings.TrimRight(inner.b.String(), "\n"), "\n") {
			w.line(bar + theme.Quote.Render(l))
		}
		w.gap()
	case *ast.ThematicBreak:
		w.line(theme.Rule.Render(strings.Repeat("─", w.width)))
		w.gap()
	case *ast.HTMLBlock:
		w.line(strings.TrimRight(w.lines(node), "\n"))
		w.gap()
	case *east.Table:
		w.table(node)
		w.gap()
	default:
		if n.HasChildren() {
			w.blocks(n)
		}
	}
}

func (w *writer) list(list *ast.List) {
	theme := w.r.theme
	index := list.Start
	if index == 0 {
		index = 1
	}
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "• "
		if list.IsOrdered() {
			marker = fmt.Sprintf("%d. ", index)
			index++
		}
		pad := strings.Repeat(" ", len([]rune(marker)))
		inner := w.sub(w.width - len(pad))
		inner.blocks(item)
		lines := strings.Split(strings.TrimRight(inner.b.String(), "\n"), "\n")
		for i, l := range lines {
			if i == 0 {
				w.line(theme.Bullet.Render(marker) + l)
				continue
			}
			if l == "" {
				w.line("")
				continue
			}
			w.line(pad + l)
		}
	}
}

func (w *writer) code(body string) {
	w.gap()
	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
	for _, l := range lines {
		w.line(w.r.theme.CodeBlock.Render(l))
	}
	w.gap()
}

func (w *writer) table(table *east.Table) {
	var rows [][]string
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, w.inline(cell))
		}
		rows = append(rows, cells)
	}
	for i, cells := range rows {
		line := strings.Join(cells, " │ ")
		if i == 0 {
			line = w.r.theme.Strong.Render(line)
		}
		w.line(line)
		if i == 0 {
			w.line(w.r.theme.Rule.Render(strings.Repeat("─", min(w.width, len([]rune(strings.Join(cells, " │ ")))))))
		}
	}
}

func (w *writer) lines(n ast.Node) string {
	var b strings.Builder
	segs := n.Lines()
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		b.Write(seg.Value(w.source))
	}
	return b.String()
}

func (w *writer) inline(parent ast.Node) string {
	var b strings.Builder
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		b.WriteString(w.inlineNode(child))
	}
	return b.String()
}

func (w *writer) inlineNode(n ast.Node) string {
	theme := w.r.theme
	switch node := n.(type) {
	case *ast.Text:
		value := string(node.Segment.Value(w.source))
		switch {
		case node.HardLineBreak():
			value += "\n"
		case node.SoftLineBreak():
			value += " "
		}
		return value
	case *ast.String:
		return string(node.Value)
	case *ast.CodeSpan:
		return theme.Code.Render(w.inline(node))
	case *ast.Emphasis:
		if node.Level >= 2 {
			return theme.Strong.Render(w.inline(node))
		}
		return theme.Emphasis.Render(w.inline(node))
	case *ast.Link:
		label := w.inline(node)
		dest := string(node.Destination)
		if dest == "" || dest == label {
			return theme.Link.Render(label)
		}
		return theme.Link.Render(label) + theme.Muted.Render(" ("+dest+")")
	case *ast.AutoLink:
		return theme.Link.Render(string(node.URL(w.source)))
	case *ast.Image:
		return theme.Muted.Render("[image: " + w.inline(node) + "]")
	case *ast.RawHTML:
		var b strings.Builder
		for i := 0; i < node.Segments.Len(); i++ {
			seg := node.Segments.At(i)
			b.Write(seg.Value(w.source))
		}
		return b.String()
	case *east.Strikethrough:
		return theme.Strike.Render(w.inline(node))
	case *east.TaskCheckBox:
		if node.IsChecked {
			return "[x] "
		}
		return "[ ] "
	default:
		return w.inline(n)
	}
}
