package render

import (
	"context"

	"github.com/ByLCY/textfx/fontconfig"
	"github.com/ByLCY/textfx/markup"
	"github.com/ByLCY/textfx/style"
)

// RichText 是富文本渲染的排版参数。
type RichText struct {
	Wrap    style.Wrap
	Align   style.Align
	Justify bool
}

// RenderRichText 渲染编辑器导出的 HTML：先转换为 span 标记，断行宽度取画布宽度。
// 不绘制背景，也不使用样式中的字体描述。
func (r *Renderer) RenderRichText(ctx context.Context, req style.Request, cfg *fontconfig.Config, html string, rt RichText) Result {
	var res Result
	j, ok := r.begin(cfg, req, &res)
	if !ok {
		return res
	}
	defer j.release(r.log)
	c, l := j.ctx, j.layout

	if req.Flip {
		c.setFlip(true)
	}
	if markup.IsLegacyRichText(html) {
		res.Warning = LegacyRichTextWarning
	}
	src := html
	if markup.IsHTML(src) {
		src = r.translate(src, req.Scale(), &res)
	}
	if src != "" {
		if err := l.SetMarkup(src); err != nil {
			res.Error = err.Error()
			res.Err = wrapError(err, ErrMarkupParseFailure, "markup rejected, rendering plain text")
			l.SetText(html)
		}
	}
	if req.Width > 0 && rt.Wrap != style.WrapNone {
		l.SetWidth(float64(req.Width))
	}
	applyWrap(l, rt.Wrap)
	applyAlign(l, rt.Align)
	applyJustify(l, rt.Justify)
	if cancelled(ctx, &res) {
		return res
	}

	c.setSource(style.Color{A: 1})
	c.fillPath()
	c.showLayout(l)

	r.finish(ctx, j, req, &res)
	return res
}

// translate 把 HTML 转成 span 标记。遇到不支持的标签时记录 ErrUnsupportedMarkup（不影响成功）。
func (r *Renderer) translate(src string, scale float64, res *Result) string {
	out, diags := markup.Translate(src, markup.WithRenderScale(scale))
	for _, d := range diags {
		if d.Kind == markup.UnsupportedTag && res.Err == nil {
			res.Err = newError(ErrUnsupportedMarkup, d.String())
		}
	}
	if len(diags) > 0 {
		r.log.Debug().Int("diagnostics", len(diags)).Str("markup", out).Msg("html translated with skipped regions")
	}
	return out
}
