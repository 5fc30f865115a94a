// Package subtitle reads SRT files into timed text records.
package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ByLCY/textfx/textutil"
)

// Separator splits the start and end time of a timestamp line.
const Separator = " --> "

// Record is one subtitle: a time span in seconds and its text. Multi-line
// text is joined with "\n".
type Record struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Duration returns End - Start.
func (r Record) Duration() float64 { return r.End - r.Start }

// Skipped describes a block that was dropped while parsing.
type Skipped struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Document is the parsed content of an SRT stream.
type Document struct {
	Records []Record  `json:"records"`
	Skipped []Skipped `json:"skipped,omitempty"`
}

// At returns the record shown at time t, if any.
func (d *Document) At(t float64) (Record, bool) {
	for _, r := range d.Records {
		if t >= r.Start && t < r.End {
			return r, true
		}
	}
	return Record{}, false
}

// ParseFile opens path and parses it.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open subtitle file %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads SRT data. Malformed blocks never fail the parse; they are
// listed in Document.Skipped. A byte order mark selects UTF-8 or UTF-16.
func Parse(r io.Reader) (*Document, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	doc := &Document{}
	p := parser{doc: doc, cur: pending{Record: Record{Start: -1, End: -1}}}
	for scanner.Scan() {
		p.line++
		p.feed(strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read subtitles: %w", err)
	}
	p.commit()
	return doc, nil
}

type pending struct {
	Record
	line int
}

type parser struct {
	doc   *Document
	cur   pending
	found bool
	line  int
}

func (p *parser) feed(line string) {
	if textutil.Contains(line, Separator) {
		start, end := splitTimes(line)
		s, e := textutil.StrTimeToSecs(start), textutil.StrTimeToSecs(end)
		if s >= 0 && e >= 0 {
			p.found = true
			p.commit()
			p.cur = pending{Record: Record{Start: s, End: e}, line: p.line}
			return
		}
		p.skip(p.line, fmt.Sprintf("malformed timestamp %q", line))
	}
	if strings.TrimSpace(line) == "" {
		p.found = false
		return
	}
	if !p.found || isSequenceNumber(line) {
		return
	}
	if p.cur.Text == "" {
		p.cur.Text = line
	} else {
		p.cur.Text += "\n" + line
	}
}

func (p *parser) commit() {
	if p.cur.Start < 0 || p.cur.End < 0 {
		return
	}
	if p.cur.Text == "" {
		p.skip(p.cur.line, "no text")
	} else {
		p.doc.Records = append(p.doc.Records, p.cur.Record)
	}
	p.cur = pending{Record: Record{Start: -1, End: -1}}
}

func (p *parser) skip(line int, reason string) {
	p.doc.Skipped = append(p.doc.Skipped, Skipped{Line: line, Reason: reason})
}

// splitTimes keeps the last two fields when the separator repeats.
func splitTimes(line string) (string, string) {
	parts := strings.Split(line, Separator)
	return parts[len(parts)-2], parts[len(parts)-1]
}

func isSequenceNumber(line string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(line))
	return err == nil && n > 0
}

// FormatTimestamp writes seconds as an SRT timestamp "HH:MM:SS,mmm".
// Negative values are written as zero.
func FormatTimestamp(secs float64) string {
	if secs < 0 {
		secs = 0
	}
	ms := int64(secs*1000 + 0.5)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", ms/3600000, ms/60000%60, ms/1000%60, ms%1000)
}
