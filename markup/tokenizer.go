package markup

import (
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/aymerick/douceur/parser"

	"github.com/ByLCY/textfx/textutil"
)

// TokenKind distinguishes the three token shapes of the flat stream.
type TokenKind int

const (
	TextToken TokenKind = iota
	OpenToken
	CloseToken
)

func (k TokenKind) String() string {
	switch k {
	case OpenToken:
		return "open"
	case CloseToken:
		return "close"
	default:
		return "text"
	}
}

// Attributes are the style values harvested from one opening tag. CSS values
// win over HTML attributes for the same concept.
type Attributes struct {
	Family string
	Size   string // normalized: no unit, already multiplied by the render scale
	Weight string
	Style  string
	Color  string

	// HTMLFamily is the raw face="..." value, kept for the legacy color rule.
	HTMLFamily string
}

// Token is one element of the flat stream produced by Tokenize.
type Token struct {
	Kind   TokenKind
	Name   string // lower-case tag name, empty for text
	Body   bool
	Attrs  Attributes
	Text   string
	Offset int // byte offset of the token in the input
	// Tail marks text that follows a tag's '>' in the same segment.
	Tail bool
}

// keptTags are the tags that survive translation. body delimits the document;
// the others all collapse into spans.
var keptTags = map[string]bool{
	"font": true, "p": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"body": true, "span": true,
}

// Tokenize splits s on '<' and classifies every segment. Unsupported tags
// become text with their '<' dropped. Diagnostics describe everything that was
// degraded on the way.
func Tokenize(s string, scale float64) ([]Token, []Diagnostic) {
	var (
		tokens []Token
		diags  []Diagnostic
	)
	offset := 0
	for i, seg := range strings.Split(s, "<") {
		start := offset
		offset += len(seg) + 1
		if i == 0 {
			if seg != "" {
				tokens = append(tokens, Token{Kind: TextToken, Text: seg, Offset: start})
			}
			continue
		}
		// the '<' itself sits one byte before the segment
		pos := start - 1

		closing := strings.HasPrefix(seg, "/")
		name, rest := splitTagName(strings.TrimPrefix(seg, "/"))
		if !keptTags[name] {
			diags = append(diags, Diagnostic{Kind: UnsupportedTag, Offset: pos, Detail: tagLabel(seg)})
			if seg != "" {
				tokens = append(tokens, Token{Kind: TextToken, Text: seg, Offset: start})
			}
			continue
		}

		inner, trailing := rest, ""
		if gt := strings.IndexByte(rest, '>'); gt >= 0 {
			inner, trailing = rest[:gt], rest[gt+1:]
		} else {
			diags = append(diags, Diagnostic{Kind: UnterminatedTag, Offset: pos, Detail: name})
		}

		tok := Token{Kind: OpenToken, Name: name, Body: name == "body", Offset: pos}
		if closing {
			tok.Kind = CloseToken
		} else {
			tok.Attrs, diags = harvest(inner, scale, pos, diags)
		}
		tokens = append(tokens, tok)
		if trailing != "" {
			tokens = append(tokens, Token{Kind: TextToken, Text: trailing, Offset: offset - 1 - len(trailing), Tail: true})
		}
	}
	return tokens, diags
}

func splitTagName(s string) (string, string) {
	n := 0
	for n < len(s) && isNameByte(s[n]) {
		n++
	}
	return strings.ToLower(s[:n]), s[n:]
}

func isNameByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

func tagLabel(seg string) string {
	if i := strings.IndexAny(seg, " \t\r\n>"); i >= 0 {
		seg = seg[:i]
	}
	if seg == "" {
		return "<"
	}
	return seg
}

type rawAttr struct {
	name       string
	value      string
	terminated bool
}

// parseAttributes scans name="value" pairs. Scanning stops at the first
// unterminated quote, whose value is reported empty.
func parseAttributes(s string) []rawAttr {
	var out []rawAttr
	i := 0
	for i < len(s) {
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		j := i
		for j < len(s) && !isSpace(s[j]) && s[j] != '=' && s[j] != '/' {
			j++
		}
		if j == i {
			i++
			continue
		}
		attr := rawAttr{name: strings.ToLower(s[i:j]), terminated: true}
		i = j
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		if i < len(s) && s[i] == '=' {
			i++
			for i < len(s) && isSpace(s[i]) {
				i++
			}
			if i < len(s) && (s[i] == '"' || s[i] == '\'') {
				q := s[i]
				end := strings.IndexByte(s[i+1:], q)
				if end < 0 {
					attr.terminated = false
					out = append(out, attr)
					return out
				}
				attr.value = s[i+1 : i+1+end]
				i += end + 2
			} else {
				k := i
				for k < len(s) && !isSpace(s[k]) {
					k++
				}
				attr.value = s[i:k]
				i = k
			}
		}
		out = append(out, attr)
	}
	return out
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }

type cssValues struct {
	size, family, weight, style, color string
}

// parseCSS reads the declarations of a style attribute. A declaration counts
// only when it is closed by ';', so an unterminated tail is reported and cut
// before the rest goes to the CSS parser.
func parseCSS(style string, pos int, diags []Diagnostic) (cssValues, []Diagnostic) {
	var css cssValues
	body, tail := "", style
	if i := strings.LastIndexByte(style, ';'); i >= 0 {
		body, tail = style[:i+1], style[i+1:]
	}
	if tail = strings.TrimSpace(tail); tail != "" {
		diags = append(diags, Diagnostic{Kind: UnterminatedValue, Offset: pos, Detail: tail})
	}
	if strings.TrimSpace(body) == "" {
		return css, diags
	}
	decls, err := parser.ParseDeclarations(body)
	if err != nil {
		return css, append(diags, Diagnostic{Kind: DroppedAttribute, Offset: pos, Detail: "style: " + err.Error()})
	}
	for _, d := range decls {
		switch strings.ToLower(strings.TrimSpace(d.Property)) {
		case "font-size":
			css.size = textutil.Trimmed(d.Value, true, true, true)
		case "font-family":
			css.family = familyValue(d.Value)
		case "font-weight":
			css.weight = familyValue(d.Value)
		case "font-style":
			css.style = familyValue(d.Value)
		case "color":
			css.color = textutil.Trimmed(d.Value, true, true, true)
		}
	}
	return css, diags
}

func familyValue(v string) string {
	return strings.TrimSpace(textutil.Trimmed(v, false, true, true))
}

func harvest(inner string, scale float64, pos int, diags []Diagnostic) (Attributes, []Diagnostic) {
	var (
		css                cssValues
		htmlSize, htmlFace string
		htmlColor          string
	)
	for _, a := range parseAttributes(inner) {
		if !a.terminated {
			diags = append(diags, Diagnostic{Kind: UnterminatedValue, Offset: pos, Detail: a.name})
			continue
		}
		// values are written back through html.EscapeString, so decode them once here
		a.value = html.UnescapeString(a.value)
		switch a.name {
		case "style":
			css, diags = parseCSS(a.value, pos, diags)
		case "size":
			htmlSize = textutil.Trimmed(a.value, true, true, true)
		case "face":
			htmlFace = familyValue(a.value)
		case "color":
			htmlColor = textutil.Trimmed(a.value, true, true, true)
		default:
			diags = append(diags, Diagnostic{Kind: DroppedAttribute, Offset: pos, Detail: a.name})
		}
	}
	attrs := Attributes{
		Family:     firstNonEmpty(css.family, htmlFace),
		Size:       ScaleFontSize(firstNonEmpty(css.size, htmlSize), scale),
		Weight:     css.weight,
		Style:      css.style,
		Color:      firstNonEmpty(css.color, htmlColor),
		HTMLFamily: htmlFace,
	}
	return attrs, diags
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// ScaleFontSize strips a "pt" unit and multiplies the value by scale with
// round-half-up. Values that are not positive numbers are returned without
// scaling, as is everything when scale <= 0.
func ScaleFontSize(size string, scale float64) string {
	size, _ = textutil.Replace(size, "pt", "")
	if size == "" || scale <= 0 {
		return size
	}
	v, err := strconv.ParseFloat(size, 64)
	if err != nil || v <= 0 {
		return size
	}
	return strconv.Itoa(int(math.Floor(v*scale + 0.5)))
}
