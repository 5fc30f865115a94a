// Package config loads render job files (YAML or TOML) with koanf.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ByLCY/textfx/binding"
	"github.com/ByLCY/textfx/style"
	"github.com/ByLCY/textfx/textutil"
)

// Job describes one render: the text, the canvas and the style.
type Job struct {
	Text     string       `koanf:"text"`
	TextFile string       `koanf:"text_file"`
	Data     binding.Data `koanf:"data"`
	RichText bool         `koanf:"rich_text"`

	Width  int     `koanf:"width"`
	Height int     `koanf:"height"`
	ScaleX float64 `koanf:"scale_x"`
	ScaleY float64 `koanf:"scale_y"`
	Flip   bool    `koanf:"flip"`

	Engine        string   `koanf:"engine"`
	FontDirs      []string `koanf:"font_dirs"`
	FontFiles     []string `koanf:"font_files"`
	SystemFonts   bool     `koanf:"system_fonts"`
	StraightAlpha bool     `koanf:"straight_alpha"`
	Output        string   `koanf:"output"`

	Style Style `koanf:"style"`

	dir string
}

// Style 以名称表示枚举值，颜色为 "#rrggbb[aa]" 或 SVG 颜色名。
type Style struct {
	Font    string `koanf:"font"`
	Wrap    string `koanf:"wrap"`
	Align   string `koanf:"align"`
	VAlign  string `koanf:"valign"`
	Justify bool   `koanf:"justify"`

	Weight  string `koanf:"weight"`
	Stretch string `koanf:"stretch"`

	HintStyle   string `koanf:"hint_style"`
	HintMetrics string `koanf:"hint_metrics"`
	Antialias   string `koanf:"antialias"`
	Subpixel    string `koanf:"subpixel"`

	LetterSpacing int     `koanf:"letter_spacing"`
	StrokeWidth   float64 `koanf:"stroke_width"`

	TextColor       string `koanf:"text_color"`
	StrokeColor     string `koanf:"stroke_color"`
	BackgroundColor string `koanf:"background_color"`

	ArcRadius float64 `koanf:"arc_radius"`
	ArcAngle  float64 `koanf:"arc_angle"`

	Markup   bool `koanf:"markup"`
	AutoSize bool `koanf:"auto_size"`
}

// Defaults 返回未在文件中出现的键所使用的值。
func Defaults() map[string]any {
	return map[string]any{
		"width":                  640,
		"height":                 360,
		"scale_x":                1.0,
		"scale_y":                1.0,
		"engine":                 "canvas",
		"output":                 "out.png",
		"style.font":             style.FontString(style.DefaultFamily, "normal", style.DefaultFontSize, 1),
		"style.wrap":             "word",
		"style.align":            "left",
		"style.valign":           "top",
		"style.weight":           "normal",
		"style.stretch":          "normal",
		"style.hint_style":       "default",
		"style.hint_metrics":     "default",
		"style.antialias":        "default",
		"style.subpixel":         "default",
		"style.text_color":       "#ffffff",
		"style.stroke_color":     "#ff0000",
		"style.background_color": "#00000000",
	}
}

// Load 读取 path，按扩展名选择 YAML 或 TOML 解析器。
func Load(path string) (*Job, error) {
	parser, err := parserFor(path)
	if err != nil {
		return nil, err
	}
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("load job %s: %w", path, err)
	}
	job, err := unmarshal(k)
	if err != nil {
		return nil, fmt.Errorf("decode job %s: %w", path, err)
	}
	job.dir = filepath.Dir(path)
	return job, nil
}

// FromDefaults 返回只含默认值的任务，供命令行参数覆盖。
func FromDefaults() (*Job, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	return unmarshal(k)
}

func unmarshal(k *koanf.Koanf) (*Job, error) {
	var job Job
	if err := k.UnmarshalWithConf("", &job, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}
	return &job, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	}
	return nil, fmt.Errorf("unsupported job file %q: want .yaml, .yml or .toml", path)
}

// ResolveText 返回要渲染的文本：text_file 优先（相对任务文件所在目录），
// 再用 data 填充占位符。
func (j *Job) ResolveText() (string, error) {
	text := j.Text
	if j.TextFile != "" {
		path := j.TextFile
		if !filepath.IsAbs(path) && j.dir != "" {
			path = filepath.Join(j.dir, path)
		}
		s, err := textutil.ReadTextFile(path)
		if err != nil {
			return "", fmt.Errorf("read text file: %w", err)
		}
		text = s
	}
	return binding.Interpolate(text, j.Data), nil
}

// Request 返回渲染请求。
func (j *Job) Request() style.Request {
	return style.Request{
		Width:  j.Width,
		Height: j.Height,
		ScaleX: j.ScaleX,
		ScaleY: j.ScaleY,
		Flip:   j.Flip,
	}
}

// Validate 检查画布尺寸与缩放。
func (j *Job) Validate() error {
	if j.Width < 0 || j.Height < 0 {
		return fmt.Errorf("canvas size must not be negative: %dx%d", j.Width, j.Height)
	}
	if j.ScaleX < 0 || j.ScaleY < 0 {
		return fmt.Errorf("scale must not be negative: %gx%g", j.ScaleX, j.ScaleY)
	}
	return nil
}

// Descriptor 将按名称书写的样式解析为 style.Descriptor，遇到第一个无效字段即返回错误。
func (j *Job) Descriptor() (style.Descriptor, error) {
	s := j.Style
	d := style.DefaultDescriptor()
	d.Font = s.Font
	d.Justify = s.Justify
	d.LetterSpacing = s.LetterSpacing
	d.StrokeWidth = s.StrokeWidth
	d.ArcRadius = s.ArcRadius
	d.ArcAngle = s.ArcAngle
	d.Markup = s.Markup
	d.AutoSize = s.AutoSize

	p := fieldParser{}
	parseField(&p, "style.wrap", s.Wrap, style.ParseWrap, &d.Wrap)
	parseField(&p, "style.align", s.Align, style.ParseAlign, &d.Align)
	parseField(&p, "style.valign", s.VAlign, style.ParseVAlign, &d.VAlign)
	parseField(&p, "style.weight", s.Weight, style.ParseWeight, &d.Weight)
	parseField(&p, "style.stretch", s.Stretch, style.ParseStretch, &d.Stretch)
	parseField(&p, "style.hint_style", s.HintStyle, style.ParseHintStyle, &d.HintStyle)
	parseField(&p, "style.hint_metrics", s.HintMetrics, style.ParseHintMetrics, &d.HintMetrics)
	parseField(&p, "style.antialias", s.Antialias, style.ParseAntialias, &d.Antialias)
	parseField(&p, "style.subpixel", s.Subpixel, style.ParseSubpixel, &d.Subpixel)
	parseField(&p, "style.text_color", s.TextColor, style.ParseColor, &d.TextColor)
	parseField(&p, "style.stroke_color", s.StrokeColor, style.ParseColor, &d.StrokeColor)
	parseField(&p, "style.background_color", s.BackgroundColor, style.ParseColor, &d.BackgroundColor)
	return d, p.err
}

type fieldParser struct{ err error }

// parseField 仅解析非空字段，保留第一个错误。
func parseField[T any](p *fieldParser, key, value string, parse func(string) (T, error), dst *T) {
	if p.err != nil || value == "" {
		return
	}
	v, err := parse(value)
	if err != nil {
		p.err = fmt.Errorf("%s: %w", key, err)
		return
	}
	*dst = v
}
