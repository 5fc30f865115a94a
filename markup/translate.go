package markup

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/ByLCY/textfx/internal/logging"
)

// DiagnosticKind names a region the translator skipped or degraded.
type DiagnosticKind int

const (
	OutsideBody DiagnosticKind = iota
	UnsupportedTag
	UnterminatedTag
	UnterminatedValue
	DroppedAttribute
)

func (k DiagnosticKind) String() string {
	switch k {
	case OutsideBody:
		return "outside-body"
	case UnsupportedTag:
		return "unsupported-tag"
	case UnterminatedTag:
		return "unterminated-tag"
	case UnterminatedValue:
		return "unterminated-value"
	case DroppedAttribute:
		return "dropped-attribute"
	default:
		return fmt.Sprintf("diagnostic(%d)", int(k))
	}
}

// Diagnostic locates one degraded region by byte offset into the input.
type Diagnostic struct {
	Kind   DiagnosticKind
	Offset int
	Detail string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s at %d: %s", d.Kind, d.Offset, d.Detail)
}

type options struct {
	scale  float64
	legacy bool
}

// Option tunes Translate and Convert.
type Option func(*options)

// WithRenderScale multiplies every harvested font size by scale.
func WithRenderScale(scale float64) Option {
	return func(o *options) { o.scale = scale }
}

// WithLegacyRules reproduces the old injection rules: a tag gets either a
// font_desc or a color, never both, and a size without a family is dropped.
func WithLegacyRules() Option {
	return func(o *options) { o.legacy = true }
}

// Translate rewrites the supported HTML subset into span markup.
func Translate(s string, opts ...Option) (string, []Diagnostic) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	log := logging.GetLogger("markup")
	log.Debug().Str("html", s).Float64("scale", o.scale).Msg("translating rich text")

	tokens, diags := Tokenize(s, o.scale)
	out, emitDiags := emit(tokens, o)
	diags = append(insideBody(diags, tokens), emitDiags...)

	log.Debug().Str("markup", out).Int("diagnostics", len(diags)).Msg("translated rich text")
	return out, diags
}

// Convert translates s unless it already is span markup, so converting twice
// gives the same result as converting once.
func Convert(s string, opts ...Option) string {
	if IsMarkup(s) {
		return s
	}
	out, _ := Translate(s, opts...)
	return out
}

// Emit renders a token stream produced by Tokenize.
func Emit(tokens []Token, opts ...Option) (string, []Diagnostic) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return emit(tokens, o)
}

func emit(tokens []Token, o options) (string, []Diagnostic) {
	var diags []Diagnostic
	bodyOpen, bodyClose := bodyRange(tokens)

	var b strings.Builder
	for i, tok := range tokens {
		if bodyClose >= 0 && i == bodyClose+1 && tok.Kind == TextToken && tok.Tail {
			// the rest of the </body> segment stays after the closing span
			b.WriteString(tok.Text)
			continue
		}
		if bodyOpen >= 0 && (i < bodyOpen || (bodyClose >= 0 && i > bodyClose)) {
			if tok.Kind != TextToken || strings.TrimSpace(tok.Text) != "" {
				diags = append(diags, Diagnostic{Kind: OutsideBody, Offset: tok.Offset, Detail: describe(tok)})
			}
			continue
		}
		switch tok.Kind {
		case TextToken:
			b.WriteString(tok.Text)
		case CloseToken:
			b.WriteString("</span>")
		case OpenToken:
			writeOpen(&b, tok.Attrs, o.legacy)
		}
	}
	return b.String(), diags
}

// insideBody drops tokenizer diagnostics for regions that body clipping
// discards anyway; those are reported once as OutsideBody by emit.
func insideBody(diags []Diagnostic, tokens []Token) []Diagnostic {
	open, closing := bodyRange(tokens)
	if open < 0 {
		return diags
	}
	lo, hi := tokens[open].Offset, math.MaxInt
	if closing >= 0 {
		hi = tokens[closing].Offset
	}
	kept := diags[:0]
	for _, d := range diags {
		if d.Offset >= lo && d.Offset <= hi {
			kept = append(kept, d)
		}
	}
	return kept
}

// bodyRange finds the first body opening and the first body closing after it.
// Both are -1 when absent.
func bodyRange(tokens []Token) (int, int) {
	open, closing := -1, -1
	for i, tok := range tokens {
		if !tok.Body {
			continue
		}
		if open < 0 && tok.Kind == OpenToken {
			open = i
			continue
		}
		if open >= 0 && tok.Kind == CloseToken {
			closing = i
			break
		}
	}
	return open, closing
}

func writeOpen(b *strings.Builder, a Attributes, legacy bool) {
	b.WriteString("<span")
	switch {
	case a.Family != "":
		desc := a.Family
		if a.Size != "" {
			desc += " " + a.Size
		}
		fmt.Fprintf(b, ` font_desc="%s"`, html.EscapeString(desc))
	case a.Size != "" && !legacy:
		fmt.Fprintf(b, ` font_desc="%s"`, html.EscapeString(a.Size))
	}
	if a.Color != "" && (!legacy || (a.Family == "" && a.HTMLFamily == "")) {
		fmt.Fprintf(b, ` color="%s"`, html.EscapeString(a.Color))
	}
	b.WriteString(">")
}

func describe(tok Token) string {
	switch tok.Kind {
	case OpenToken:
		return "<" + tok.Name + ">"
	case CloseToken:
		return "</" + tok.Name + ">"
	default:
		return tok.Text
	}
}
