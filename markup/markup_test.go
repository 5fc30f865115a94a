package markup_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/ByLCY/textfx/markup"
)

const editorDocument = `<!DOCTYPE HTML PUBLIC "-//W3C//DTD HTML 4.0//EN" "http://www.w3.org/TR/REC-html40/strict.dtd">
<html><head><meta name="qrichtext" content="1" /><style type="text/css">
p, li { white-space: pre-wrap; }
</style></head><body style=" font-family:'Sans'; font-size:10pt; font-weight:400; font-style:normal;">
<p align="center" style=" margin-top:0px;"><span style=" font-size:20pt; color:#ff0000;">Big red</span> small</p></body></html>`

func TestClassifier(t *testing.T) {
	if !markup.IsHTML("<p>hi</p>") || markup.IsHTML("plain text") {
		t.Fatalf("IsHTML misclassified input")
	}
	if !markup.IsRichText(editorDocument, true) {
		t.Fatalf("editor document should be strict rich text")
	}
	if markup.IsRichText("<body>x</body>", true) || !markup.IsRichText("<body>x</body>", false) {
		t.Fatalf("strict mode must require the meta marker")
	}
	if !markup.IsLegacyRichText(`<font face="Sans">x</font>`) || markup.IsLegacyRichText(` <font>`) {
		t.Fatalf("legacy detection must look at the prefix only")
	}
	if !markup.IsMarkup(`<span color="red">x</span>`) {
		t.Fatalf("span markup should be recognised")
	}
	if markup.IsMarkup(`<p><span>x</span></p>`) {
		t.Fatalf("HTML containing spans is not markup")
	}
	if markup.IsMarkup(`<span>x`) {
		t.Fatalf("an unclosed span is not markup")
	}
}

func TestScaleFontSize(t *testing.T) {
	cases := []struct {
		size  string
		scale float64
		want  string
	}{
		{"10", 1.5, "15"},
		{"10", 0.33, "3"},
		{"12pt", 1, "12"},
		{"12pt", 0, "12"},
		{"large", 2, "large"},
		{"", 2, ""},
		{"-3", 2, "-3"},
	}
	for _, tc := range cases {
		if got := markup.ScaleFontSize(tc.size, tc.scale); got != tc.want {
			t.Fatalf("ScaleFontSize(%q, %v) = %q, want %q", tc.size, tc.scale, got, tc.want)
		}
	}
}

func TestTranslateBodyClipping(t *testing.T) {
	out, diags := markup.Translate(`<p>outside</p><body><p>inside</p></body><p>outside2</p>`)
	if out != "<span><span>inside</span></span>" {
		t.Fatalf("unexpected markup %q", out)
	}
	if strings.Contains(out, "outside") {
		t.Fatalf("content outside body leaked: %q", out)
	}
	outside := 0
	for _, d := range diags {
		if d.Kind == markup.OutsideBody {
			outside++
		}
	}
	if outside == 0 {
		t.Fatalf("expected outside-body diagnostics, got %v", diags)
	}
}

func TestTranslateWithoutBodyKeepsEverything(t *testing.T) {
	out, _ := markup.Translate(`lead <p>one</p><h2>two</h2>`)
	if out != "lead <span>one</span><span>two</span>" {
		t.Fatalf("unexpected markup %q", out)
	}
}

func TestTranslateHarvestsCSSAndHTML(t *testing.T) {
	out, _ := markup.Translate(`<span style="font-family:'DejaVu Sans'; font-size:12pt; color:#00ff00;">a</span>`, markup.WithRenderScale(2))
	want := `<span font_desc="DejaVu Sans 24" color="#00ff00">a</span>`
	if out != want {
		t.Fatalf("got %q want %q", out, want)
	}

	out, _ = markup.Translate(`<font face="Serif" size="9" color="blue">b</font>`)
	want = `<span font_desc="Serif 9" color="blue">b</span>`
	if out != want {
		t.Fatalf("got %q want %q", out, want)
	}
}

func TestTranslateCSSWinsOverHTML(t *testing.T) {
	out, _ := markup.Translate(`<font face="Serif" style="font-family:Mono;">x</font>`)
	if out != `<span font_desc="Mono">x</span>` {
		t.Fatalf("CSS should take precedence, got %q", out)
	}
}

func TestTranslateLegacyRules(t *testing.T) {
	src := `<font face="Serif" color="red">x</font><span style="font-size:8pt;">y</span>`
	out, _ := markup.Translate(src, markup.WithLegacyRules())
	if out != `<span font_desc="Serif">x</span><span>y</span>` {
		t.Fatalf("legacy rules not applied: %q", out)
	}
	out, _ = markup.Translate(src)
	if out != `<span font_desc="Serif" color="red">x</span><span font_desc="8">y</span>` {
		t.Fatalf("default rules not applied: %q", out)
	}
}

func TestTranslateDegradesUnsupportedTags(t *testing.T) {
	out, diags := markup.Translate(`<p>a<br />b</p>`)
	if out != "<span>abr />b</span>" {
		t.Fatalf("unexpected markup %q", out)
	}
	if len(diags) != 1 || diags[0].Kind != markup.UnsupportedTag || diags[0].Detail != "br" {
		t.Fatalf("unexpected diagnostics %v", diags)
	}
}

func TestTranslateMatchesTagNamesExactly(t *testing.T) {
	out, _ := markup.Translate(`<pre>x</pre> a/p`)
	if strings.Contains(out, "span") {
		t.Fatalf("pre must not be treated as p: %q", out)
	}
	if !strings.HasSuffix(out, " a/p") {
		t.Fatalf("text containing /p must survive: %q", out)
	}
}

func TestTranslateUnterminatedValues(t *testing.T) {
	out, diags := markup.Translate(`<span style="color:red">x</span><font face="Sans>y</font>`)
	if out != "<span>x</span><span>y</span>" {
		t.Fatalf("unterminated values must be skipped, got %q", out)
	}
	kinds := map[markup.DiagnosticKind]int{}
	for _, d := range diags {
		kinds[d.Kind]++
	}
	if kinds[markup.UnterminatedValue] != 2 {
		t.Fatalf("expected two unterminated values, got %v", diags)
	}
}

func TestTranslateDropsForeignAttributes(t *testing.T) {
	out, diags := markup.Translate(`<p align="center" dir='rtl'>x</p>`)
	if out != "<span>x</span>" {
		t.Fatalf("unexpected markup %q", out)
	}
	if len(diags) != 2 || diags[0].Kind != markup.DroppedAttribute {
		t.Fatalf("unexpected diagnostics %v", diags)
	}
}

func TestConvertIsIdempotent(t *testing.T) {
	once := markup.Convert(editorDocument, markup.WithRenderScale(1))
	twice := markup.Convert(once, markup.WithRenderScale(1))
	if once != twice {
		t.Fatalf("second conversion changed the markup:\n%s\n%s", once, twice)
	}
	if _, err := markup.ParseString(once); err != nil {
		t.Fatalf("converted editor document must parse: %v\n%s", err, once)
	}
}

func TestConvertEditorDocument(t *testing.T) {
	out := markup.Convert(editorDocument, markup.WithRenderScale(1))
	want := "<span font_desc=\"Sans 10\">\n<span><span font_desc=\"20\" color=\"#ff0000\">Big red</span> small</span></span>"
	if out != want {
		t.Fatalf("got %q\nwant %q", out, want)
	}
}

func TestParseRuns(t *testing.T) {
	doc, err := markup.ParseString(`a<span font_desc="Sans 12">b &amp; <span color='red'>c</span></span>d`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	runs := doc.Runs()
	if len(runs) != 4 {
		t.Fatalf("expected 4 runs, got %d: %+v", len(runs), runs)
	}
	if runs[1].Text != "b & " || len(runs[1].Attrs) != 1 || runs[1].Attrs[0].Value != "Sans 12" {
		t.Fatalf("unexpected second run %+v", runs[1])
	}
	if runs[2].Text != "c" || len(runs[2].Attrs) != 2 || runs[2].Attrs[1].Key != "color" {
		t.Fatalf("unexpected third run %+v", runs[2])
	}
	if doc.Text() != "ab & cd" {
		t.Fatalf("unexpected text %q", doc.Text())
	}
}

func TestParseErrors(t *testing.T) {
	bad := []string{
		`<span>unclosed`,
		`stray</span>`,
		`a & b`,
		`<b>bold</b>`,
	}
	for _, src := range bad {
		if _, err := markup.ParseString(src); err == nil {
			t.Fatalf("expected an error for %q", src)
		}
	}
	_, err := markup.ParseString(`<span align="center">x</span>`)
	if !errors.Is(err, markup.ErrUnknownAttribute) {
		t.Fatalf("expected ErrUnknownAttribute, got %v", err)
	}
}

func TestTranslateEditorDocumentHasNoUnsupportedTags(t *testing.T) {
	_, diags := markup.Translate(editorDocument)
	for _, d := range diags {
		if d.Kind == markup.UnsupportedTag {
			t.Fatalf("tags outside the body must not count as unsupported: %v", diags)
		}
	}
	_, diags = markup.Translate(`<html><body><p>a<br/>b</p></body></html>`)
	found := false
	for _, d := range diags {
		found = found || (d.Kind == markup.UnsupportedTag && d.Detail == "br/")
	}
	if !found {
		t.Fatalf("an unsupported tag inside the body must still be reported: %v", diags)
	}
}

func TestTranslateDecodesAttributeEntities(t *testing.T) {
	out, _ := markup.Translate(`<font face="A &amp; B" color="&#35;ff0000">x</font>`)
	if out != `<span font_desc="A &amp; B" color="#ff0000">x</span>` {
		t.Fatalf("entities must be encoded exactly once, got %q", out)
	}
	doc, err := markup.ParseString(out)
	if err != nil {
		t.Fatalf("translated markup must parse: %v", err)
	}
	runs := doc.Runs()
	if len(runs) != 1 || runs[0].Attrs[0].Value != "A & B" {
		t.Fatalf("unexpected runs %+v", runs)
	}
}

func TestTranslateKeepsTextAfterBodyClose(t *testing.T) {
	out, _ := markup.Translate(`<body><p>a</p></body> tail<p>gone</p>`)
	if out != "<span><span>a</span></span> tail" {
		t.Fatalf("unexpected markup %q", out)
	}
}

func TestTranslateCSSDeclarations(t *testing.T) {
	out, diags := markup.Translate(`<span style=" font-family:'Noto Sans'; margin-top:0px; font-size:9pt; tail:1">x</span>`)
	if out != `<span font_desc="Noto Sans 9">x</span>` {
		t.Fatalf("unexpected markup %q", out)
	}
	if len(diags) != 1 || diags[0].Kind != markup.UnterminatedValue || diags[0].Detail != "tail:1" {
		t.Fatalf("unexpected diagnostics %v", diags)
	}
}
