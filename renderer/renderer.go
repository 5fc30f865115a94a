package renderer

import (
	"image"
	"image/color"

	"github.com/ByLCY/textfx/fontconfig"
	"github.com/ByLCY/textfx/layout"
)

// DefaultSize 是字体描述未给出字号时使用的像素字号。
const DefaultSize = 64

// Engine 是光栅化后端：提供绑定到字体配置的字体映射，并创建绘制表面。
type Engine interface {
	Name() string
	FontMap(cfg *fontconfig.Config) layout.FontMap
	NewPainter(width, height int) (Painter, error)
}

// Paint 描述一次文字绘制：先描边（StrokeWidth > 0），再按 Fill 填充。
type Paint struct {
	Fill        color.NRGBA
	NoFill      bool
	StrokeWidth float64
	Stroke      color.NRGBA
}

// Painter 在一块固定尺寸的表面上绘制，坐标以左上角为原点、y 向下。
type Painter interface {
	Size() (int, int)
	// SetFlip 使之后的绘制上下翻转。
	SetFlip(flip bool)
	FillRect(x, y, w, h float64, c color.NRGBA) error
	// DrawGlyphs 在 (dx, dy) 偏移处绘制字形；字形自带颜色时覆盖 Paint.Fill。
	DrawGlyphs(glyphs []layout.Glyph, dx, dy float64, p Paint) error
	// BGRA 返回预乘 alpha 的 BGRA 像素，逐行存放，每行 width*4 字节。
	BGRA() ([]byte, error)
	Close() error
}

// Glyphs 按绘制顺序展开所有行的字形。
func Glyphs(lines []layout.Line) []layout.Glyph {
	var out []layout.Glyph
	for _, ln := range lines {
		out = append(out, ln.Glyphs...)
	}
	return out
}

// FaceSize 返回描述中的字号，未设置时使用 DefaultSize。
func FaceSize(d layout.FontDescription) float64 {
	if d.Size <= 0 {
		return DefaultSize
	}
	return d.Size
}

// BGRAFromRGBA 把 image.RGBA 的像素按 B,G,R,A 顺序复制出来。
func BGRAFromRGBA(img *image.RGBA) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+w*4]
		dst := out[y*w*4 : (y+1)*w*4]
		for x := 0; x < w*4; x += 4 {
			dst[x+0] = src[x+2]
			dst[x+1] = src[x+1]
			dst[x+2] = src[x+0]
			dst[x+3] = src[x+3]
		}
	}
	return out
}

// FlipRows 原地上下翻转逐行像素。
func FlipRows(pix []byte, width, height int) {
	stride := width * 4
	tmp := make([]byte, stride)
	for top, bottom := 0, height-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := pix[top*stride : (top+1)*stride]
		b := pix[bottom*stride : (bottom+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}

// GlyphColor 返回字形的填充色。
func GlyphColor(g layout.Glyph, p Paint) color.NRGBA {
	if g.Color != nil {
		return *g.Color
	}
	return p.Fill
}
