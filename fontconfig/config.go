// Package fontconfig keeps a caller-owned catalog of font files and resolves
// font descriptions against it.
package fontconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
	"github.com/emirpasic/gods/sets/treeset"
	findfont "github.com/flopp/go-findfont"
	"github.com/rs/zerolog"
	"golang.org/x/image/font/sfnt"

	"github.com/ByLCY/textfx/fonts"
	"github.com/ByLCY/textfx/internal/logging"
	"github.com/ByLCY/textfx/layout"
)

// ErrNoFont is returned when a description matches no face at all.
var ErrNoFont = errors.New("no font available")

var fontExts = map[string]bool{".ttf": true, ".otf": true, ".ttc": true, ".otc": true}

// Face is one font face of the catalog, either a file on disk or a built-in.
type Face struct {
	Family string
	Style  string
	Weight layout.Weight
	Italic bool
	Path   string // empty for built-in faces
	Index  int    // face index inside a collection
	name   string // built-in name
}

// Builtin reports whether the face ships with the binary.
func (f Face) Builtin() bool { return f.name != "" }

// Load returns the raw bytes of the file holding the face.
func (f Face) Load() ([]byte, error) {
	if f.Builtin() {
		return fonts.Load(f.name)
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", f.Path, err)
	}
	return data, nil
}

// Key identifies the face for caching.
func (f Face) Key() string {
	if f.Builtin() {
		return fonts.Prefix + f.name
	}
	return fmt.Sprintf("%s#%d", f.Path, f.Index)
}

// Config is a font catalog. The zero value is not usable; call New or NewEmpty.
// A Config may be shared; scanning happens once, lazily, under a mutex.
type Config struct {
	mu      sync.Mutex
	system  bool
	dirs    []string
	files   []string
	scanned bool
	faces   []Face
	log     zerolog.Logger
}

// New returns a config that includes the system font catalog.
func New() *Config {
	return &Config{system: true, log: logging.GetLogger("fontconfig")}
}

// NewEmpty returns a config holding only built-in fonts and what is added to it.
func NewEmpty() *Config {
	return &Config{log: logging.GetLogger("fontconfig")}
}

// DefaultDirs lists the per-user and system font directories.
func DefaultDirs() []string {
	out := make([]string, len(xdg.FontDirs))
	copy(out, xdg.FontDirs)
	return out
}

// AddDir registers a directory whose fonts are scanned recursively.
func (c *Config) AddDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("add font dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("add font dir: %s is not a directory", dir)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dirs = append(c.dirs, dir)
	c.scanned = false
	return nil
}

// AddFile registers a single font file. A bare file name is looked up in the
// system font directories.
func (c *Config) AddFile(path string) error {
	if !strings.ContainsRune(path, filepath.Separator) {
		if _, err := os.Stat(path); err != nil {
			found, ferr := findfont.Find(path)
			if ferr != nil {
				return fmt.Errorf("add font file: %w", ferr)
			}
			path = found
		}
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("add font file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("add font file: %s is a directory", path)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files = append(c.files, path)
	c.scanned = false
	return nil
}

// Faces returns every known face: added files first, then directories, then
// system fonts, then built-ins.
func (c *Config) Faces() []Face {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scanLocked()
	out := make([]Face, len(c.faces))
	copy(out, c.faces)
	return out
}

// Families returns the sorted, de-duplicated family names.
func (c *Config) Families() []string {
	set := treeset.NewWithStringComparator()
	for _, f := range c.Faces() {
		set.Add(f.Family)
	}
	out := make([]string, 0, set.Size())
	for _, v := range set.Values() {
		out = append(out, v.(string))
	}
	return out
}

func (c *Config) scanLocked() {
	if c.scanned {
		return
	}
	var paths []string
	paths = append(paths, c.files...)
	for _, dir := range c.dirs {
		_ = filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
			if err == nil && !d.IsDir() && fontExts[strings.ToLower(filepath.Ext(p))] {
				paths = append(paths, p)
			}
			return nil
		})
	}
	if c.system {
		paths = append(paths, findfont.List()...)
	}

	seen := map[string]bool{}
	c.faces = c.faces[:0]
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		faces, err := readFaces(p)
		if err != nil {
			c.log.Debug().Err(err).Str("path", p).Msg("skip font file")
			continue
		}
		c.faces = append(c.faces, faces...)
	}
	for _, b := range fonts.All() {
		weight := layout.Weight(b.Weight)
		c.faces = append(c.faces, Face{
			Family: b.Family,
			Style:  styleName(weight, b.Italic),
			Weight: weight,
			Italic: b.Italic,
			name:   b.Name,
		})
	}
	c.scanned = true
	c.log.Debug().Int("files", len(seen)).Int("faces", len(c.faces)).Msg("font scan finished")
}

func readFaces(path string) ([]Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var parsed []*sfnt.Font
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttc", ".otc":
		coll, err := sfnt.ParseCollection(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		for i := 0; i < coll.NumFonts(); i++ {
			f, err := coll.Font(i)
			if err != nil {
				return nil, fmt.Errorf("parse %s#%d: %w", path, i, err)
			}
			parsed = append(parsed, f)
		}
	default:
		f, err := sfnt.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		parsed = append(parsed, f)
	}

	var buf sfnt.Buffer
	out := make([]Face, 0, len(parsed))
	for i, f := range parsed {
		family := fontName(f, &buf, sfnt.NameIDTypographicFamily, sfnt.NameIDFamily)
		if family == "" {
			family = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		sub := fontName(f, &buf, sfnt.NameIDTypographicSubfamily, sfnt.NameIDSubfamily)
		weight, italic := parseSubfamily(sub)
		out = append(out, Face{Family: family, Style: sub, Weight: weight, Italic: italic, Path: path, Index: i})
	}
	return out, nil
}

func fontName(f *sfnt.Font, buf *sfnt.Buffer, ids ...sfnt.NameID) string {
	for _, id := range ids {
		if s, err := f.Name(buf, id); err == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// parseSubfamily reads weight and slant from names like "Bold Italic" or "SemiBold".
func parseSubfamily(sub string) (layout.Weight, bool) {
	weight := layout.WeightNormal
	italic := false
	for _, w := range strings.Fields(strings.ToLower(sub)) {
		switch w {
		case "italic", "oblique":
			italic = true
			continue
		}
		if v, err := layout.ParseWeight(w); err == nil {
			weight = v
		}
	}
	return weight, italic
}

func styleName(w layout.Weight, italic bool) string {
	d := layout.NewFontDescription()
	d.SetWeight(w)
	if italic {
		d.SetSlant(layout.SlantItalic)
	}
	s := d.String()
	if s == "normal" {
		return "Regular"
	}
	return s
}
