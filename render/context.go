package render

import (
	"image/color"

	"github.com/ByLCY/textfx/layout"
	"github.com/ByLCY/textfx/renderer"
	"github.com/ByLCY/textfx/style"
)

// drawContext 记录绘制状态；第一次出错后状态保持为该错误，之后的操作全部跳过。
type drawContext struct {
	surface *surface
	err     error

	originX, originY float64
	source           color.NRGBA
	lineWidth        float64
	stroke           *color.NRGBA
	fill             bool
}

func newContext(s *surface) *drawContext {
	return &drawContext{surface: s, source: color.NRGBA{A: 255}}
}

func (c *drawContext) setFlip(flip bool) {
	if c.err == nil {
		c.surface.painter.SetFlip(flip)
	}
}

func (c *drawContext) setSource(col style.Color) { c.source = col.RGBA8() }

func (c *drawContext) setLineWidth(w float64) { c.lineWidth = w }

// paintRect 用当前颜色填充整个表面。
func (c *drawContext) paintRect() {
	if c.err != nil {
		return
	}
	w, h := c.surface.painter.Size()
	c.err = c.surface.painter.FillRect(0, 0, float64(w), float64(h), c.source)
}

func (c *drawContext) moveTo(x, y float64) { c.originX, c.originY = x, y }

// strokePreserve 以当前颜色为布局轮廓描边，轮廓保留给随后的填充。
func (c *drawContext) strokePreserve() {
	col := c.source
	c.stroke = &col
}

// fillPath 以当前颜色填充保留的轮廓。
func (c *drawContext) fillPath() { c.fill = true }

// showLayout 执行排版并按累积的描边/填充状态绘制。
func (c *drawContext) showLayout(l *layout.Layout) {
	if c.err != nil {
		return
	}
	lines, err := l.Lines()
	if err != nil {
		c.err = err
		return
	}
	paint := renderer.Paint{Fill: c.source, NoFill: !c.fill}
	if c.stroke != nil && c.lineWidth > 0 {
		paint.Stroke = *c.stroke
		paint.StrokeWidth = c.lineWidth
	}
	if paint.NoFill && paint.StrokeWidth == 0 {
		return
	}
	c.err = c.surface.painter.DrawGlyphs(renderer.Glyphs(lines), c.originX, c.originY, paint)
}

func (c *drawContext) status() error { return c.err }
