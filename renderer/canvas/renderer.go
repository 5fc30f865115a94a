package canvasrenderer

import (
	"fmt"
	"image/color"
	"math"
	"sync"

	"github.com/rs/zerolog"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/textfx/fontconfig"
	"github.com/ByLCY/textfx/internal/logging"
	"github.com/ByLCY/textfx/layout"
	"github.com/ByLCY/textfx/renderer"
)

// 画布以 mm 为单位；按 1mm = 1px 光栅化，字号需要从像素换算成 pt。

// Engine draws layouts via github.com/tdewolff/canvas.
type Engine struct{}

var _ renderer.Engine = Engine{}

// New returns the canvas engine.
func New() Engine { return Engine{} }

func (Engine) Name() string { return "canvas" }

// FontMap 返回绑定到 cfg 的字体映射，字体族按字体文件缓存。
func (Engine) FontMap(cfg *fontconfig.Config) layout.FontMap {
	return &fontMap{
		cfg:      cfg,
		families: map[string]*canvas.FontFamily{},
		faces:    map[faceKey]*face{},
		log:      logging.GetLogger("canvas"),
	}
}

func (Engine) NewPainter(width, height int) (renderer.Painter, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("无效的表面尺寸 %dx%d", width, height)
	}
	c := canvas.New(float64(width), float64(height))
	return &painter{c: c, ctx: canvas.NewContext(c), w: width, h: height}, nil
}

type faceKey struct {
	file string
	size float64
}

type fontMap struct {
	cfg *fontconfig.Config
	log zerolog.Logger

	mu       sync.Mutex
	families map[string]*canvas.FontFamily
	faces    map[faceKey]*face
	warned   bool
}

func (m *fontMap) Face(desc layout.FontDescription, opts layout.FontOptions) (layout.Face, error) {
	fc, err := m.cfg.Match(desc)
	if err != nil {
		return nil, err
	}
	size := renderer.FaceSize(desc)

	m.mu.Lock()
	defer m.mu.Unlock()
	if opts != (layout.FontOptions{}) && !m.warned {
		m.warned = true
		m.log.Debug().Interface("options", opts).Msg("font options are not supported by this engine")
	}
	key := faceKey{file: fc.Key(), size: size}
	if f, ok := m.faces[key]; ok {
		return f, nil
	}
	family, err := m.familyLocked(fc)
	if err != nil {
		return nil, err
	}
	ff := family.Face(size*layout.MmToPt, canvas.Black, canvas.FontRegular, canvas.FontNormal)
	fm := ff.Metrics()
	f := &face{ff: ff, metrics: layout.Metrics{
		Ascent:  fm.Ascent,
		Descent: math.Abs(fm.Descent),
		LineGap: math.Max(fm.LineHeight-fm.Ascent-math.Abs(fm.Descent), 0),
	}}
	m.faces[key] = f
	return f, nil
}

func (m *fontMap) familyLocked(fc fontconfig.Face) (*canvas.FontFamily, error) {
	if family, ok := m.families[fc.Key()]; ok {
		return family, nil
	}
	data, err := fc.Load()
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily(fc.Family)
	if err := family.LoadFont(data, fc.Index, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", fc.Key(), err)
	}
	m.families[fc.Key()] = family
	return family, nil
}

type face struct {
	ff      *canvas.FontFace
	metrics layout.Metrics
}

func (f *face) Advance(s string) float64 { return f.ff.TextWidth(s) }

func (f *face) Metrics() layout.Metrics { return f.metrics }

type painter struct {
	c    *canvas.Canvas
	ctx  *canvas.Context
	w, h int
	flip bool
}

var transparent = color.RGBA{}

func (p *painter) Size() (int, int) { return p.w, p.h }

func (p *painter) SetFlip(flip bool) { p.flip = flip }

// view 把 y 向下的屏幕坐标映射到画布的 y 向上坐标；翻转时两者恰好一致。
func (p *painter) view() canvas.Matrix {
	if p.flip {
		return canvas.Identity
	}
	return canvas.Identity.Translate(0, float64(p.h)).Scale(1, -1)
}

func (p *painter) FillRect(x, y, w, h float64, c color.NRGBA) error {
	rect := canvas.Rectangle(w, h).Transform(p.view().Translate(x, y))
	p.ctx.SetStrokeColor(transparent)
	p.ctx.SetFillColor(c)
	p.ctx.DrawPath(0, 0, rect)
	return nil
}

func (p *painter) DrawGlyphs(glyphs []layout.Glyph, dx, dy float64, paint renderer.Paint) error {
	paths := make([]*canvas.Path, 0, len(glyphs))
	for _, g := range glyphs {
		f, ok := g.Face.(*face)
		if !ok {
			return fmt.Errorf("字形 %q 的字体不属于 canvas 引擎", g.Text)
		}
		path, _, _ := f.ff.ToPath(g.Text)
		m := p.view().Translate(dx+g.X, dy+g.Y).Rotate(g.Angle * 180 / math.Pi).Scale(1, -1)
		paths = append(paths, path.Transform(m))
	}

	// 先描边后填充，填充覆盖描边的内侧一半
	if paint.StrokeWidth > 0 {
		p.ctx.SetFillColor(transparent)
		p.ctx.SetStrokeColor(paint.Stroke)
		p.ctx.SetStrokeWidth(paint.StrokeWidth)
		for _, path := range paths {
			p.ctx.DrawPath(0, 0, path)
		}
	}
	if paint.NoFill {
		return nil
	}
	p.ctx.SetStrokeColor(transparent)
	for i, path := range paths {
		p.ctx.SetFillColor(renderer.GlyphColor(glyphs[i], paint))
		p.ctx.DrawPath(0, 0, path)
	}
	return nil
}

func (p *painter) BGRA() ([]byte, error) {
	img := rasterizer.Draw(p.c, canvas.DPMM(1), canvas.DefaultColorSpace)
	if b := img.Bounds(); b.Dx() != p.w || b.Dy() != p.h {
		return nil, fmt.Errorf("光栅尺寸 %dx%d 与表面 %dx%d 不一致", b.Dx(), b.Dy(), p.w, p.h)
	}
	return renderer.BGRAFromRGBA(img), nil
}

func (p *painter) Close() error {
	p.c, p.ctx = nil, nil
	return nil
}
