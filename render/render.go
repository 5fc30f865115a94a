// Package render turns styled text into an RGBA pixel buffer.
package render

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/ByLCY/textfx/fontconfig"
	"github.com/ByLCY/textfx/internal/logging"
	"github.com/ByLCY/textfx/layout"
	"github.com/ByLCY/textfx/markup"
	"github.com/ByLCY/textfx/renderer"
	canvasrenderer "github.com/ByLCY/textfx/renderer/canvas"
	"github.com/ByLCY/textfx/style"
)

// LegacyRichTextWarning 在输入为旧式 <font> 富文本时写入 Result.Warning。
const LegacyRichTextWarning = "legacy rich text has limited support"

// Result 是一次渲染的结果。Buffer 为 RGBA 像素，仅在成功且尺寸一致时存在。
type Result struct {
	Success       bool
	Buffer        []byte
	SurfaceWidth  int
	SurfaceHeight int
	LayoutWidth   int
	LayoutHeight  int
	// Error 是标记解析失败时的说明，Warning 是旧式富文本提示，两者都不影响 Success。
	Error   string
	Warning string
	// Err 携带错误种类：失败时为致命错误，否则为第一个可恢复的问题。
	Err error
}

// Release 丢弃像素缓冲，可多次调用。
func (r *Result) Release() { r.Buffer = nil }

// Kind 返回 Err 的种类，没有错误时返回空串。
func (r *Result) Kind() ErrorKind {
	var e *Error
	if errors.As(r.Err, &e) {
		return e.Kind
	}
	return ""
}

// Renderer 驱动排版与光栅化。零值不可用，请使用 New。
type Renderer struct {
	engine   renderer.Engine
	straight bool
	dumpPath string
	log      zerolog.Logger
}

type Option func(*Renderer)

// WithEngine 选择光栅化后端，默认使用 canvas。
func WithEngine(e renderer.Engine) Option {
	return func(r *Renderer) { r.engine = e }
}

// WithStraightAlpha 让提取的像素还原为直通 alpha；默认保持光栅器输出的预乘 alpha。
func WithStraightAlpha() Option {
	return func(r *Renderer) { r.straight = true }
}

// WithLayoutDump 在每次渲染结束时把排版结果写成 JSON，写入失败只记录日志。
func WithLayoutDump(path string) Option {
	return func(r *Renderer) { r.dumpPath = path }
}

func New(opts ...Option) *Renderer {
	r := &Renderer{engine: canvasrenderer.New(), log: logging.GetLogger("render")}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Engine 返回当前后端。
func (r *Renderer) Engine() renderer.Engine { return r.engine }

// job 是一次渲染中需要在各步骤之间传递的状态，所有资源在 release 中释放。
type job struct {
	surface *surface
	ctx     *drawContext
	layout  *layout.Layout
}

func (j *job) release(log zerolog.Logger) {
	j.layout = nil
	j.ctx = nil
	if err := j.surface.destroy(); err != nil {
		log.Debug().Err(err).Msg("destroy surface")
	}
}

func (r *Renderer) begin(cfg *fontconfig.Config, req style.Request, res *Result) (*job, bool) {
	if cfg == nil {
		res.Err = newError(ErrConfigurationMissing, "font configuration is required")
		return nil, false
	}
	fonts := r.engine.FontMap(cfg)
	s, err := newSurface(r.engine, req.Width, req.Height)
	if err != nil {
		res.Err = wrapError(err, ErrRenderFailure, "allocate surface")
		return nil, false
	}
	return &job{surface: s, ctx: newContext(s), layout: layout.New(fonts)}, true
}

func cancelled(ctx context.Context, res *Result) bool {
	if err := ctx.Err(); err != nil {
		res.Success = false
		res.Err = wrapError(err, ErrRenderFailure, "render cancelled")
		return true
	}
	return false
}

// Render 按样式渲染 text。cfg 为 nil 时立即失败。
func (r *Renderer) Render(ctx context.Context, req style.Request, cfg *fontconfig.Config, text string, st style.Descriptor) Result {
	var res Result
	j, ok := r.begin(cfg, req, &res)
	if !ok {
		return res
	}
	defer j.release(r.log)
	c, l := j.ctx, j.layout
	scale := req.Scale()

	if req.Flip && !req.RoDOnly {
		c.setFlip(true)
	}
	if !req.RoDOnly {
		c.setSource(st.BackgroundColor)
		c.paintRect()
	}
	l.SetFontOptions(fontOptions(st))

	useMarkup := st.Markup
	if useMarkup {
		if markup.IsLegacyRichText(text) {
			res.Warning = LegacyRichTextWarning
		}
		src := text
		if markup.IsHTML(src) {
			src = r.translate(src, scale, &res)
		}
		if err := l.SetMarkup(src); err != nil {
			res.Error = err.Error()
			res.Err = wrapError(err, ErrMarkupParseFailure, "markup rejected, rendering plain text")
			r.log.Debug().Err(err).Msg("markup fallback to plain text")
			useMarkup = false
		}
	}
	if !useMarkup {
		l.SetText(text)
	}

	font := st.Font
	if font == "" {
		font = style.FontString(style.DefaultFamily, "normal", style.DefaultFontSize, scale)
	}
	desc := layout.ParseFontDescription(font)
	applyWeight(&desc, st.Weight)
	applyStretch(&desc, st.Stretch)
	l.SetFontDescription(desc)
	if st.ArcRadius > 0 {
		l.SetArc(layout.Arc{Radius: st.ArcRadius * scale, Angle: st.ArcAngle})
	}
	if cancelled(ctx, &res) {
		return res
	}

	if !req.RoDOnly {
		applyWrap(l, st.Wrap)
		applyAlign(l, st.Align)
		if st.VAlign != style.VAlignTop {
			_, th, err := l.PixelSize()
			if err == nil {
				switch st.VAlign {
				case style.VAlignMiddle:
					c.moveTo(0, float64((req.Height-th)/2))
				case style.VAlignBottom:
					c.moveTo(0, float64(req.Height-th))
				}
			}
		}
		applyJustify(l, st.Justify)
	}

	if st.LetterSpacing != 0 && !useMarkup {
		attrs := layout.NewAttrList()
		attrs.Insert(layout.NewLetterSpacing(layout.ScaledUnits(float64(st.LetterSpacing), scale)))
		l.SetAttributes(attrs)
	}

	if st.StrokeWidth > 0 {
		c.setLineWidth(layout.RoundHalfUp(st.StrokeWidth, scale))
		c.setSource(st.StrokeColor)
		c.strokePreserve()
	}
	if !req.RoDOnly {
		c.setSource(st.TextColor)
		c.fillPath()
	}
	c.showLayout(l)

	r.finish(ctx, j, req, &res)
	return res
}

// finish 记录布局尺寸、判断状态并提取像素。
func (r *Renderer) finish(ctx context.Context, j *job, req style.Request, res *Result) {
	if w, h, err := j.layout.PixelSize(); err == nil {
		res.LayoutWidth, res.LayoutHeight = w, h
	}
	if r.dumpPath != "" {
		if err := layout.WriteDebugJSON(j.layout, r.dumpPath); err != nil {
			r.log.Warn().Err(err).Str("path", r.dumpPath).Msg("write layout dump")
		}
	}
	if err := j.ctx.status(); err != nil {
		res.Success = false
		res.Err = wrapError(err, ErrRenderFailure, "paint")
		return
	}
	res.Success = true
	if cancelled(ctx, res) {
		return
	}

	res.SurfaceWidth, res.SurfaceHeight = j.surface.Width(), j.surface.Height()
	skip := req.RoDOnly || req.NoBuffer
	if res.SurfaceWidth != req.Width || res.SurfaceHeight != req.Height {
		skip = true
		if res.Err == nil {
			res.Err = newError(ErrSizeMismatch, "surface size differs from the request")
		}
	}
	if skip {
		return
	}
	data, err := j.surface.data()
	if err != nil {
		res.Success = false
		res.Err = wrapError(err, ErrRenderFailure, "read surface")
		return
	}
	res.Buffer = ReorderBGRAtoRGBA(data, res.SurfaceWidth, res.SurfaceHeight)
	if r.straight {
		unpremultiply(res.Buffer)
	}
	r.log.Debug().
		Int("width", res.SurfaceWidth).
		Int("height", res.SurfaceHeight).
		Int("layoutWidth", res.LayoutWidth).
		Int("layoutHeight", res.LayoutHeight).
		Msg("rendered")
}
