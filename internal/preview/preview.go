package preview

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/wrap"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/kyaoi/medit/internal/doc"
)

// Kind selects how a tab's markdown is previewed.
type Kind int

const (
	Off Kind = iota
	Rendered
	HTML
)

func (k Kind) String() string {
	switch k {
	case Off:
		return "off"
	case Rendered:
		return "rendered"
	case HTML:
		return "html"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Next cycles off -> rendered -> html -> off.
func (k Kind) Next() Kind {
	return (k + 1) % 3
}

// ParseKind converts a configuration value into a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off":
		return Off, nil
	case "rendered", "render", "terminal":
		return Rendered, nil
	case "html":
		return HTML, nil
	}
	return Off, fmt.Errorf("unknown preview kind %q", s)
}

// Renderer turns markdown into terminal output or HTML.
type Renderer struct {
	style string
	md    goldmark.Markdown
	term  *glamour.TermRenderer
	width int
}

// NewRenderer returns a renderer using the named glamour style.
func NewRenderer(style string) *Renderer {
	return &Renderer{
		style: style,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
		width: -1,
	}
}

// Render produces the preview of text for kind, fitted to width columns.
func (r *Renderer) Render(kind Kind, text string, width int) (string, error) {
	switch kind {
	case Rendered:
		return r.Terminal(text, width)
	case HTML:
		out, err := r.HTML(text)
		if err != nil {
			return "", err
		}
		if width > 0 {
			out = wrap.String(out, width)
		}
		return out, nil
	default:
		return "", nil
	}
}

// Terminal renders text with glamour. Front matter is not shown.
func (r *Renderer) Terminal(text string, width int) (string, error) {
	if r.term == nil || r.width != width {
		term, err := newTermRenderer(r.style, width)
		if err != nil {
			return "", err
		}
		r.term = term
		r.width = width
	}
	_, body := doc.SplitFrontMatter(text)
	return r.term.Render(body)
}

// HTML converts text to an HTML fragment. Front matter is not converted.
func (r *Renderer) HTML(text string) (string, error) {
	_, body := doc.SplitFrontMatter(text)
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(body), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func newTermRenderer(style string, width int) (*glamour.TermRenderer, error) {
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle(style)}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	} else {
		opts = append(opts, glamour.WithWordWrap(0))
	}
	return glamour.NewTermRenderer(opts...)
}
