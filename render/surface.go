package render

import (
	"fmt"

	"github.com/ByLCY/textfx/renderer"
)

// MaxSurfaceSide 是单边允许的最大像素数，超出或小于 1 时会被截断。
const MaxSurfaceSide = 32767

func clampSide(v int) int {
	return max(1, min(v, MaxSurfaceSide))
}

// surface 是一块离屏 BGRA 表面；实际尺寸可能与请求不同。
type surface struct {
	painter       renderer.Painter
	width, height int
	destroyed     bool
}

func newSurface(engine renderer.Engine, width, height int) (*surface, error) {
	w, h := clampSide(width), clampSide(height)
	p, err := engine.NewPainter(w, h)
	if err != nil {
		return nil, fmt.Errorf("创建 %dx%d 表面失败: %w", w, h, err)
	}
	return &surface{painter: p, width: w, height: h}, nil
}

func (s *surface) Width() int { return s.width }
func (s *surface) Height() int { return s.height }

// data 返回预乘 alpha 的 BGRA 像素。
func (s *surface) data() ([]byte, error) {
	return s.painter.BGRA()
}

func (s *surface) destroy() error {
	if s == nil || s.destroyed {
		return nil
	}
	s.destroyed = true
	return s.painter.Close()
}
