package render

import (
	"context"

	"github.com/ByLCY/textfx/fontconfig"
	"github.com/ByLCY/textfx/style"
)

// Rect 是以像素计的区域。
type Rect struct {
	Width, Height int
}

// RegionOfDefinition 返回输出区域。画布宽或高为 0 且开启 AutoSize 时，
// 以宿主给出的区域为表面、渲染比例 1 只做测量，并改用排版尺寸；否则使用画布尺寸。
// 区域为空时 ok 为 false。
func (r *Renderer) RegionOfDefinition(ctx context.Context, canvas, host Rect, cfg *fontconfig.Config, text string, st style.Descriptor) (Rect, bool) {
	w, h := canvas.Width, canvas.Height
	if (w == 0 || h == 0) && st.AutoSize {
		req := style.Request{Width: host.Width, Height: host.Height, ScaleX: 1, ScaleY: 1, RoDOnly: true}
		res := r.Render(ctx, req, cfg, text, st)
		if res.Success {
			w, h = res.LayoutWidth, res.LayoutHeight
		}
	}
	if w > 0 && h > 0 {
		return Rect{Width: w, Height: h}, true
	}
	return Rect{}, false
}
