package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/textfx/fontconfig"
	"github.com/ByLCY/textfx/layout"
	"github.com/ByLCY/textfx/renderer"
	canvasrenderer "github.com/ByLCY/textfx/renderer/canvas"
	ggrenderer "github.com/ByLCY/textfx/renderer/gg"
	"github.com/ByLCY/textfx/style"
)

var engines = []renderer.Engine{canvasrenderer.New(), ggrenderer.New()}

func smallStyle() style.Descriptor {
	st := style.DefaultDescriptor()
	st.Font = "Sans 20"
	return st
}

// inkHalves 统计上下两半中 alpha 非零的像素数（RGBA 缓冲）。
func inkHalves(buf []byte, w, h int) (top, bottom int) {
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if buf[(y*w+x)*4+3] == 0 {
				continue
			}
			if y < h/2 {
				top++
			} else {
				bottom++
			}
		}
	}
	return top, bottom
}

func TestTransparentBuffer(t *testing.T) {
	for _, e := range engines {
		t.Run(e.Name(), func(t *testing.T) {
			r := New(WithEngine(e))
			res := r.Render(context.Background(), style.Request{Width: 100, Height: 50}, fontconfig.NewEmpty(), "", style.DefaultDescriptor())
			defer res.Release()
			require.True(t, res.Success, "%v", res.Err)
			assert.Equal(t, 100, res.SurfaceWidth)
			assert.Equal(t, 50, res.SurfaceHeight)
			require.Len(t, res.Buffer, 20000)
			for i := 3; i < len(res.Buffer); i += 4 {
				if res.Buffer[i] != 0 {
					t.Fatalf("第 %d 个像素 alpha 应为 0", i/4)
				}
			}
		})
	}
}

func TestZeroSizeHasNoBuffer(t *testing.T) {
	r := New()
	res := r.Render(context.Background(), style.Request{}, fontconfig.NewEmpty(), "x", smallStyle())
	assert.True(t, res.Success)
	assert.Nil(t, res.Buffer)
	assert.Equal(t, 1, res.SurfaceWidth)
	assert.Equal(t, ErrSizeMismatch, res.Kind())
}

func TestOversizeIsClamped(t *testing.T) {
	assert.Equal(t, MaxSurfaceSide, clampSide(MaxSurfaceSide+10))
	assert.Equal(t, 1, clampSide(-5))
	assert.Equal(t, 7, clampSide(7))
}

func TestMissingConfiguration(t *testing.T) {
	res := New().Render(context.Background(), style.Request{Width: 10, Height: 10}, nil, "x", smallStyle())
	assert.False(t, res.Success)
	assert.Nil(t, res.Buffer)
	assert.True(t, errors.Is(res.Err, ErrConfigurationMissing))
	assert.False(t, errors.Is(res.Err, ErrRenderFailure))
}

func TestReorderBGRAtoRGBA(t *testing.T) {
	assert.Equal(t, []byte{30, 20, 10, 255}, ReorderBGRAtoRGBA([]byte{10, 20, 30, 255}, 1, 1))
	assert.Nil(t, ReorderBGRAtoRGBA([]byte{1, 2, 3}, 1, 1))
	assert.Nil(t, ReorderBGRAtoRGBA(nil, 0, 0))
}

func TestUnpremultiply(t *testing.T) {
	pix := []byte{64, 0, 0, 128, 9, 9, 9, 0, 200, 100, 50, 255}
	unpremultiply(pix)
	assert.Equal(t, []byte{128, 0, 0, 128, 9, 9, 9, 0, 200, 100, 50, 255}, pix)
}

func TestBackgroundIsRGBA(t *testing.T) {
	for _, e := range engines {
		t.Run(e.Name(), func(t *testing.T) {
			st := smallStyle()
			st.BackgroundColor = style.Color{R: 1, A: 1}
			res := New(WithEngine(e)).Render(context.Background(), style.Request{Width: 4, Height: 4}, fontconfig.NewEmpty(), "", st)
			require.True(t, res.Success)
			require.Len(t, res.Buffer, 64)
			assert.Equal(t, []byte{255, 0, 0, 255}, res.Buffer[20:24])
		})
	}
}

func TestMarkupFallbackToPlainText(t *testing.T) {
	st := smallStyle()
	st.Markup = true
	res := New().Render(context.Background(), style.Request{Width: 200, Height: 40}, fontconfig.NewEmpty(), `<span bogus="1">hi</span>`, st)
	assert.True(t, res.Success)
	assert.NotEmpty(t, res.Error)
	assert.Equal(t, ErrMarkupParseFailure, res.Kind())
	assert.NotNil(t, res.Buffer)
	assert.Greater(t, res.LayoutWidth, 0)
}

func TestHTMLIsTranslatedInMarkupMode(t *testing.T) {
	st := smallStyle()
	st.Markup = true
	html := `<html><body><p style="color:#ff0000;">hi</p></body></html>`
	res := New().Render(context.Background(), style.Request{Width: 200, Height: 40}, fontconfig.NewEmpty(), html, st)
	assert.True(t, res.Success)
	assert.Empty(t, res.Error)
	assert.Nil(t, res.Err)
	assert.Greater(t, res.LayoutWidth, 0)
}

func TestLegacyWarning(t *testing.T) {
	st := smallStyle()
	st.Markup = true
	res := New().Render(context.Background(), style.Request{Width: 100, Height: 40}, fontconfig.NewEmpty(), `<font color="#ff0000">hi</font>`, st)
	assert.Equal(t, LegacyRichTextWarning, res.Warning)
	assert.True(t, res.Success)

	rich := New().RenderRichText(context.Background(), style.Request{Width: 100, Height: 40}, fontconfig.NewEmpty(), `<font color="#ff0000">hi</font>`, RichText{Wrap: style.WrapWord})
	assert.Equal(t, LegacyRichTextWarning, rich.Warning)
}

func TestRoDOnlyMeasuresWithoutBuffer(t *testing.T) {
	res := New().Render(context.Background(), style.Request{Width: 300, Height: 100, RoDOnly: true}, fontconfig.NewEmpty(), "Hello", smallStyle())
	assert.True(t, res.Success)
	assert.Nil(t, res.Buffer)
	assert.Greater(t, res.LayoutWidth, 0)
	assert.Greater(t, res.LayoutHeight, 0)
}

func TestNoBuffer(t *testing.T) {
	res := New().Render(context.Background(), style.Request{Width: 30, Height: 30, NoBuffer: true}, fontconfig.NewEmpty(), "x", smallStyle())
	assert.True(t, res.Success)
	assert.Nil(t, res.Buffer)
	assert.Nil(t, res.Err)
}

func TestLetterSpacingIgnoredInMarkupMode(t *testing.T) {
	measure := func(text string, markupMode bool, spacing int) int {
		st := smallStyle()
		st.Markup = markupMode
		st.LetterSpacing = spacing
		res := New().Render(context.Background(), style.Request{Width: 10, Height: 10, RoDOnly: true}, fontconfig.NewEmpty(), text, st)
		require.True(t, res.Success)
		return res.LayoutWidth
	}
	base := measure("abc", false, 0)
	assert.Equal(t, base+30, measure("abc", false, 10))
	assert.Equal(t, base, measure("<span>abc</span>", true, 10))
}

func TestLetterSpacingScales(t *testing.T) {
	st := smallStyle()
	st.LetterSpacing = 2
	one := New().Render(context.Background(), style.Request{Width: 10, Height: 10, RoDOnly: true}, fontconfig.NewEmpty(), "ab", st)
	st.LetterSpacing = 0
	zero := New().Render(context.Background(), style.Request{Width: 10, Height: 10, RoDOnly: true}, fontconfig.NewEmpty(), "ab", st)
	st.LetterSpacing = 2
	scaled := New().Render(context.Background(), style.Request{Width: 10, Height: 10, ScaleX: 2, RoDOnly: true}, fontconfig.NewEmpty(), "ab", st)
	assert.Equal(t, zero.LayoutWidth+4, one.LayoutWidth)
	assert.Equal(t, zero.LayoutWidth+8, scaled.LayoutWidth)
}

func TestVerticalAlignAndFlip(t *testing.T) {
	const w, h = 64, 64
	cases := []struct {
		name   string
		valign style.VAlign
		flip   bool
		top    bool
	}{
		{"top", style.VAlignTop, false, true},
		{"bottom", style.VAlignBottom, false, false},
		{"top flipped", style.VAlignTop, true, false},
		{"bottom flipped", style.VAlignBottom, true, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := smallStyle()
			st.VAlign = tc.valign
			res := New().Render(context.Background(), style.Request{Width: w, Height: h, Flip: tc.flip}, fontconfig.NewEmpty(), "HH", st)
			require.True(t, res.Success)
			top, bottom := inkHalves(res.Buffer, w, h)
			if tc.top {
				assert.Positive(t, top)
				assert.Zero(t, bottom)
			} else {
				assert.Zero(t, top)
				assert.Positive(t, bottom)
			}
		})
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := New().Render(ctx, style.Request{Width: 10, Height: 10}, fontconfig.NewEmpty(), "x", smallStyle())
	assert.False(t, res.Success)
	assert.Equal(t, ErrRenderFailure, res.Kind())
	assert.ErrorIs(t, res.Err, context.Canceled)
}

func TestRegionOfDefinition(t *testing.T) {
	r := New()
	cfg := fontconfig.NewEmpty()
	st := smallStyle()

	got, ok := r.RegionOfDefinition(context.Background(), Rect{200, 100}, Rect{}, cfg, "Hello", st)
	assert.True(t, ok)
	assert.Equal(t, Rect{200, 100}, got)

	_, ok = r.RegionOfDefinition(context.Background(), Rect{}, Rect{}, cfg, "Hello", st)
	assert.False(t, ok, "画布为空且未开启自动尺寸时没有区域")

	st.AutoSize = true
	got, ok = r.RegionOfDefinition(context.Background(), Rect{}, Rect{640, 480}, cfg, "Hello", st)
	assert.True(t, ok)
	assert.Greater(t, got.Width, 20)
	assert.Greater(t, got.Height, 10)

	st.AutoSize = true
	_, ok = r.RegionOfDefinition(context.Background(), Rect{}, Rect{640, 480}, nil, "Hello", st)
	assert.False(t, ok)
}

func TestRichTextWrapsAtCanvasWidth(t *testing.T) {
	html := `<html><body><p style="font-size:10pt;">one two three four five six</p></body></html>`
	cfg := fontconfig.NewEmpty()
	narrow := New().RenderRichText(context.Background(), style.Request{Width: 60, Height: 200}, cfg, html, RichText{Wrap: style.WrapWord})
	wide := New().RenderRichText(context.Background(), style.Request{Width: 1000, Height: 200}, cfg, html, RichText{Wrap: style.WrapWord})
	none := New().RenderRichText(context.Background(), style.Request{Width: 60, Height: 200}, cfg, html, RichText{Wrap: style.WrapNone})
	require.True(t, narrow.Success)
	assert.Greater(t, narrow.LayoutHeight, wide.LayoutHeight)
	assert.Equal(t, wide.LayoutHeight, none.LayoutHeight)
	assert.NotNil(t, narrow.Buffer)
}

func TestMapperDefaults(t *testing.T) {
	l := layout.New(nil)
	applyWrap(l, style.WrapNone)
	assert.Equal(t, layout.WrapWord, l.Wrap())
	applyWrap(l, style.WrapWordChar)
	assert.Equal(t, layout.WrapWordChar, l.Wrap())
	applyAlign(l, style.AlignCenter)
	assert.Equal(t, layout.AlignCenter, l.Alignment())
	applyAlign(l, style.Align(99))
	assert.Equal(t, layout.AlignLeft, l.Alignment())

	opts := fontOptions(style.Descriptor{HintStyle: style.HintStyleFull, Antialias: style.AntialiasGray, Subpixel: style.SubpixelVBGR})
	assert.Equal(t, layout.HintStyleFull, opts.HintStyle)
	assert.Equal(t, layout.AntialiasGray, opts.Antialias)
	assert.Equal(t, layout.SubpixelVBGR, opts.SubpixelOrder)
	assert.Equal(t, layout.HintMetricsDefault, opts.HintMetrics)

	d := layout.NewFontDescription()
	applyWeight(&d, style.WeightBold)
	applyStretch(&d, style.StretchCondensed)
	assert.Equal(t, layout.WeightBold, d.Weight)
	assert.Equal(t, layout.StretchCondensed, d.Stretch)
}

func TestErrorIs(t *testing.T) {
	cause := errors.New("boom")
	err := wrapError(cause, ErrRenderFailure, "paint")
	assert.ErrorIs(t, err, ErrRenderFailure)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, &Error{Kind: ErrRenderFailure})
	assert.NotErrorIs(t, err, ErrSizeMismatch)
	assert.Contains(t, err.Error(), "RENDER_FAILURE")
	assert.True(t, ErrConfigurationMissing.Fatal())
	assert.False(t, ErrSizeMismatch.Fatal())
	assert.Nil(t, wrapError(nil, ErrRenderFailure, "x"))
}

func TestLayoutDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	res := New(WithLayoutDump(path)).Render(context.Background(), style.Request{Width: 50, Height: 30}, fontconfig.NewEmpty(), "ab", smallStyle())
	require.True(t, res.Success)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"text": "ab"`)
}

func TestUnsupportedTagIsRecoverable(t *testing.T) {
	res := New().RenderRichText(context.Background(), style.Request{Width: 80, Height: 40}, fontconfig.NewEmpty(), `<p>a<br />b</p>`, RichText{})
	assert.True(t, res.Success)
	assert.Equal(t, ErrUnsupportedMarkup, res.Kind())
	assert.Empty(t, res.Error)
	assert.NotNil(t, res.Buffer)
}

func TestRichTextFallbackUsesOriginalInput(t *testing.T) {
	const html = `<p>a &bogus b</p>`
	cfg := fontconfig.NewEmpty()
	rich := New().RenderRichText(context.Background(), style.Request{Width: 10, Height: 10, RoDOnly: true}, cfg, html, RichText{})
	require.True(t, rich.Success)
	assert.Equal(t, ErrMarkupParseFailure, rich.Kind())
	assert.NotEmpty(t, rich.Error)

	st := style.DefaultDescriptor()
	st.Font = ""
	plain := New().Render(context.Background(), style.Request{Width: 10, Height: 10, RoDOnly: true}, cfg, html, st)
	require.True(t, plain.Success)
	assert.Equal(t, plain.LayoutWidth, rich.LayoutWidth, "the fallback shows the input, not the translated spans")
}

func TestEditorDocumentHeadIsNotUnsupported(t *testing.T) {
	html := `<html><head><meta name="qrichtext" content="1" /><style type="text/css">p { margin: 0; }</style></head>` +
		`<body style=" font-size:10pt;"><p>hi</p></body></html>`
	res := New().RenderRichText(context.Background(), style.Request{Width: 80, Height: 40}, fontconfig.NewEmpty(), html, RichText{})
	assert.True(t, res.Success)
	assert.Nil(t, res.Err)
	assert.Empty(t, res.Error)
}
