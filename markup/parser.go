package markup

import (
	"errors"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ErrUnknownAttribute is returned for span attributes the layout engine does
// not understand.
var ErrUnknownAttribute = errors.New("unknown span attribute")

var (
	spanLexer = lexer.MustStateful(lexer.Rules{
		"Root": {
			{Name: "SpanOpen", Pattern: `<span\b`, Action: lexer.Push("Tag")},
			{Name: "SpanClose", Pattern: `</span\s*>`},
			{Name: "Entity", Pattern: `&(?:[A-Za-z][A-Za-z0-9]*|#[0-9]+|#[xX][0-9A-Fa-f]+);`},
			{Name: "Text", Pattern: `[^<&]+`},
		},
		"Tag": {
			{Name: "Whitespace", Pattern: `\s+`},
			{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
			{Name: "Eq", Pattern: `=`},
			{Name: "String", Pattern: `"[^"]*"|'[^']*'`},
			{Name: "TagEnd", Pattern: `>`, Action: lexer.Pop()},
		},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(spanLexer),
		participle.Elide("Whitespace"),
	)
)

// Document is the root of a span markup string.
type Document struct {
	Nodes []*Node `parser:"@@*"`
}

// Node is either a nested span or a run of character data.
type Node struct {
	Span *Span     `parser:"  @@"`
	Text *CharData `parser:"| @@"`
}

// Span is one <span ...>...</span> element.
type Span struct {
	Pos      lexer.Position `parser:""`
	Attrs    []*Attr        `parser:"SpanOpen @@* TagEnd"`
	Children []*Node        `parser:"@@* SpanClose"`
}

// Attr is a key="value" pair inside a span tag.
type Attr struct {
	Pos   lexer.Position `parser:""`
	Key   string         `parser:"@Ident Eq"`
	Value AttrValue      `parser:"@String"`
}

// AttrValue strips the quotes of an attribute value and decodes entities.
type AttrValue string

// Capture implements participle.Capture.
func (v *AttrValue) Capture(values []string) error {
	raw := strings.Join(values, "")
	if len(raw) >= 2 {
		raw = raw[1 : len(raw)-1]
	}
	*v = AttrValue(html.UnescapeString(raw))
	return nil
}

// CharData holds text with its entities still encoded.
type CharData struct {
	Raw string `parser:"( @Text | @Entity )+"`
}

// Value returns the decoded text.
func (c *CharData) Value() string { return html.UnescapeString(c.Raw) }

// knownAttrs lists the attributes the layout engine interprets.
var knownAttrs = map[string]bool{
	"font_desc": true, "font": true,
	"font_family": true, "face": true,
	"size": true, "font_size": true,
	"weight": true, "font_weight": true,
	"style": true, "font_style": true,
	"stretch": true, "font_stretch": true,
	"color": true, "foreground": true, "fgcolor": true,
	"letter_spacing": true,
}

// Parse reads span markup from r.
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseString(string(data))
}

// ParseString parses span markup. Unbalanced spans, stray '<' or '&' and
// unknown attributes are errors.
func ParseString(src string) (*Document, error) {
	doc, err := documentParser.ParseString("", src)
	if err != nil {
		return nil, fmt.Errorf("invalid markup: %w", err)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *Document) validate() error {
	var walk func(nodes []*Node) error
	walk = func(nodes []*Node) error {
		for _, n := range nodes {
			if n.Span == nil {
				continue
			}
			for _, a := range n.Span.Attrs {
				if !knownAttrs[strings.ToLower(a.Key)] {
					return fmt.Errorf("invalid markup: %s: %w %q", a.Pos, ErrUnknownAttribute, a.Key)
				}
			}
			if err := walk(n.Span.Children); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(d.Nodes)
}

// Run is a stretch of text with the attributes of every enclosing span,
// outermost first.
type Run struct {
	Text  string
	Attrs []Attribute
}

// Attribute is one resolved span attribute.
type Attribute struct {
	Key   string
	Value string
}

// Runs flattens the document into styled text runs in reading order.
// Adjacent character data under the same spans is merged.
func (d *Document) Runs() []Run {
	var runs []Run
	var walk func(nodes []*Node, stack []Attribute)
	walk = func(nodes []*Node, stack []Attribute) {
		for _, n := range nodes {
			switch {
			case n.Text != nil:
				text := n.Text.Value()
				if k := len(runs) - 1; k >= 0 && sameAttrs(runs[k].Attrs, stack) {
					runs[k].Text += text
					continue
				}
				runs = append(runs, Run{Text: text, Attrs: stack})
			case n.Span != nil:
				next := make([]Attribute, len(stack), len(stack)+len(n.Span.Attrs))
				copy(next, stack)
				for _, a := range n.Span.Attrs {
					next = append(next, Attribute{Key: strings.ToLower(a.Key), Value: string(a.Value)})
				}
				walk(n.Span.Children, next)
			}
		}
	}
	walk(d.Nodes, nil)
	return runs
}

// Text returns the character data without any styling.
func (d *Document) Text() string {
	var b strings.Builder
	for _, r := range d.Runs() {
		b.WriteString(r.Text)
	}
	return b.String()
}

func sameAttrs(a, b []Attribute) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
