// Package ggrenderer paints layouts with github.com/gogpu/gg. Metrics and
// advances come from gg's text package; glyph outlines are read with
// golang.org/x/image/font/sfnt and filled as gg paths so that arc rotation,
// flipping and stroking go through one code path.
package ggrenderer

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/draw"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/ByLCY/textfx/fontconfig"
	"github.com/ByLCY/textfx/layout"
	"github.com/ByLCY/textfx/renderer"
)

// Engine draws layouts via gg.
type Engine struct{}

var _ renderer.Engine = Engine{}

func New() Engine { return Engine{} }

func (Engine) Name() string { return "gg" }

func (Engine) FontMap(cfg *fontconfig.Config) layout.FontMap {
	return &fontMap{cfg: cfg, sources: map[string]*source{}, faces: map[faceKey]*face{}}
}

func (Engine) NewPainter(width, height int) (renderer.Painter, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("无效的表面尺寸 %dx%d", width, height)
	}
	return &painter{dc: gg.NewContext(width, height), w: width, h: height}, nil
}

// hinting 把 layout 的提示风格映射到 gg 的三档提示。
func hinting(h layout.HintStyle) (text.Hinting, bool) {
	switch h {
	case layout.HintStyleNone:
		return text.HintingNone, true
	case layout.HintStyleSlight, layout.HintStyleMedium:
		return text.HintingVertical, true
	case layout.HintStyleFull:
		return text.HintingFull, true
	}
	return 0, false
}

type source struct {
	src  *text.FontSource
	font *sfnt.Font
}

type faceKey struct {
	file    string
	size    float64
	hinting layout.HintStyle
}

type fontMap struct {
	cfg     *fontconfig.Config
	mu      sync.Mutex
	sources map[string]*source
	faces   map[faceKey]*face
}

func (m *fontMap) Face(desc layout.FontDescription, opts layout.FontOptions) (layout.Face, error) {
	fc, err := m.cfg.Match(desc)
	if err != nil {
		return nil, err
	}
	size := renderer.FaceSize(desc)

	m.mu.Lock()
	defer m.mu.Unlock()
	key := faceKey{file: fc.Key(), size: size, hinting: opts.HintStyle}
	if f, ok := m.faces[key]; ok {
		return f, nil
	}
	src, err := m.sourceLocked(fc)
	if err != nil {
		return nil, err
	}
	var fopts []text.FaceOption
	if h, ok := hinting(opts.HintStyle); ok {
		fopts = append(fopts, text.WithHinting(h))
	}
	tf := src.src.Face(size, fopts...)
	tm := tf.Metrics()
	f := &face{
		tf:      tf,
		font:    src.font,
		ppem:    fixed.Int26_6(math.Round(size * 64)),
		metrics: layout.Metrics{Ascent: tm.Ascent, Descent: tm.Descent, LineGap: tm.LineGap},
	}
	m.faces[key] = f
	return f, nil
}

func (m *fontMap) sourceLocked(fc fontconfig.Face) (*source, error) {
	if s, ok := m.sources[fc.Key()]; ok {
		return s, nil
	}
	data, err := fc.Load()
	if err != nil {
		return nil, err
	}
	coll, err := sfnt.ParseCollection(data)
	if err != nil {
		return nil, fmt.Errorf("解析字体 %s 失败: %w", fc.Key(), err)
	}
	font, err := coll.Font(fc.Index)
	if err != nil {
		return nil, fmt.Errorf("解析字体 %s 失败: %w", fc.Key(), err)
	}
	src, err := text.NewFontSource(data)
	if err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", fc.Key(), err)
	}
	s := &source{src: src, font: font}
	m.sources[fc.Key()] = s
	return s, nil
}

type face struct {
	tf      text.Face
	font    *sfnt.Font
	ppem    fixed.Int26_6
	metrics layout.Metrics
}

func (f *face) Advance(s string) float64 { return f.tf.Advance(s) }

func (f *face) Metrics() layout.Metrics { return f.metrics }

type painter struct {
	dc   *gg.Context
	buf  sfnt.Buffer
	w, h int
	flip bool
}

func (p *painter) Size() (int, int) { return p.w, p.h }

func (p *painter) SetFlip(flip bool) { p.flip = flip }

func (p *painter) y(v float64) float64 {
	if p.flip {
		return float64(p.h) - v
	}
	return v
}

func setColor(dc *gg.Context, c color.NRGBA) {
	dc.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, float64(c.A)/255)
}

func (p *painter) FillRect(x, y, w, h float64, c color.NRGBA) error {
	setColor(p.dc, c)
	top := math.Min(p.y(y), p.y(y+h))
	p.dc.DrawRectangle(x, top, w, h)
	return p.dc.Fill()
}

// outline 把字形轮廓按旋转、平移与翻转加入当前路径。
func (p *painter) outline(g layout.Glyph, f *face, dx, dy float64) error {
	sin, cos := math.Sincos(g.Angle)
	ox, oy := dx+g.X, dy+g.Y
	pt := func(q fixed.Point26_6) (float64, float64) {
		lx, ly := float64(q.X)/64, float64(q.Y)/64
		return ox + lx*cos - ly*sin, p.y(oy + lx*sin + ly*cos)
	}
	pen := 0.0
	for _, r := range g.Text {
		gid, err := f.font.GlyphIndex(&p.buf, r)
		if err != nil {
			return fmt.Errorf("查找字形 %q 失败: %w", r, err)
		}
		segs, err := f.font.LoadGlyph(&p.buf, gid, f.ppem, nil)
		if err != nil {
			return fmt.Errorf("加载字形 %q 失败: %w", r, err)
		}
		shift := func(q fixed.Point26_6) (float64, float64) {
			q.X += fixed.Int26_6(math.Round(pen * 64))
			return pt(q)
		}
		started := false
		for _, s := range segs {
			switch s.Op {
			case sfnt.SegmentOpMoveTo:
				if started {
					p.dc.ClosePath()
				}
				started = true
				x, y := shift(s.Args[0])
				p.dc.MoveTo(x, y)
			case sfnt.SegmentOpLineTo:
				x, y := shift(s.Args[0])
				p.dc.LineTo(x, y)
			case sfnt.SegmentOpQuadTo:
				cx, cy := shift(s.Args[0])
				x, y := shift(s.Args[1])
				p.dc.QuadraticTo(cx, cy, x, y)
			case sfnt.SegmentOpCubeTo:
				c1x, c1y := shift(s.Args[0])
				c2x, c2y := shift(s.Args[1])
				x, y := shift(s.Args[2])
				p.dc.CubicTo(c1x, c1y, c2x, c2y, x, y)
			}
		}
		if started {
			p.dc.ClosePath()
		}
		pen += f.tf.Advance(string(r))
	}
	return nil
}

func (p *painter) DrawGlyphs(glyphs []layout.Glyph, dx, dy float64, paint renderer.Paint) error {
	for _, g := range glyphs {
		if _, ok := g.Face.(*face); !ok {
			return fmt.Errorf("字形 %q 的字体不属于 gg 引擎", g.Text)
		}
	}
	if paint.StrokeWidth > 0 {
		p.dc.SetLineWidth(paint.StrokeWidth)
		setColor(p.dc, paint.Stroke)
		for _, g := range glyphs {
			if err := p.outline(g, g.Face.(*face), dx, dy); err != nil {
				return err
			}
		}
		if err := p.dc.Stroke(); err != nil {
			return fmt.Errorf("描边失败: %w", err)
		}
	}
	if paint.NoFill {
		return nil
	}
	for _, g := range glyphs {
		if err := p.outline(g, g.Face.(*face), dx, dy); err != nil {
			return err
		}
		setColor(p.dc, renderer.GlyphColor(g, paint))
		if err := p.dc.Fill(); err != nil {
			return fmt.Errorf("填充失败: %w", err)
		}
	}
	return nil
}

func (p *painter) BGRA() ([]byte, error) {
	img := p.dc.Image()
	rgba, ok := img.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(img.Bounds())
		draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	}
	return renderer.BGRAFromRGBA(rgba), nil
}

func (p *painter) Close() error { return p.dc.Close() }
