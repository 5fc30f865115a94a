package cli

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ByLCY/textfx/config"
	"github.com/ByLCY/textfx/fontconfig"
	"github.com/ByLCY/textfx/internal/logging"
	"github.com/ByLCY/textfx/render"
)

// jobFlags 是 render、rod、srt 共用的参数，只有显式给出的参数才会覆盖任务文件。
type jobFlags struct {
	jobFile  string
	text     string
	width    int
	height   int
	scale    float64
	font     string
	engine   string
	fontDirs []string
	system   bool
	markup   bool
	rich     bool
	output   string
	dump     string
}

func (f *jobFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.jobFile, "job", "j", "", "YAML or TOML job file")
	fs.StringVarP(&f.text, "text", "t", "", "text to render")
	fs.IntVar(&f.width, "width", 0, "canvas width in pixels")
	fs.IntVar(&f.height, "height", 0, "canvas height in pixels")
	fs.Float64Var(&f.scale, "scale", 1, "render scale for font size, stroke and letter spacing")
	fs.StringVarP(&f.font, "font", "f", "", `font description, e.g. "Sans bold 48"`)
	fs.StringVar(&f.engine, "engine", "", "raster engine: canvas or gg")
	fs.StringSliceVar(&f.fontDirs, "font-dir", nil, "extra font directory (repeatable)")
	fs.BoolVar(&f.system, "system-fonts", false, "also scan the system font directories")
	fs.BoolVar(&f.markup, "markup", false, "interpret the text as span markup or HTML")
	fs.BoolVar(&f.rich, "rich", false, "render the text as editor rich text")
	fs.StringVarP(&f.output, "out", "o", "", "output PNG path")
	fs.StringVar(&f.dump, "dump-layout", "", "write the layout as JSON to this path")
}

// load 读取任务文件（或默认值）并应用命令行覆盖。
func (f *jobFlags) load(cmd *cobra.Command) (*config.Job, error) {
	var (
		job *config.Job
		err error
	)
	if f.jobFile != "" {
		job, err = config.Load(f.jobFile)
	} else {
		job, err = config.FromDefaults()
	}
	if err != nil {
		return nil, err
	}
	fs := cmd.Flags()
	if fs.Changed("text") {
		job.Text, job.TextFile = f.text, ""
	}
	if fs.Changed("width") {
		job.Width = f.width
	}
	if fs.Changed("height") {
		job.Height = f.height
	}
	if fs.Changed("scale") {
		job.ScaleX, job.ScaleY = f.scale, f.scale
	}
	if fs.Changed("font") {
		job.Style.Font = f.font
	}
	if fs.Changed("engine") {
		job.Engine = f.engine
	}
	if fs.Changed("markup") {
		job.Style.Markup = f.markup
	}
	if fs.Changed("rich") {
		job.RichText = f.rich
	}
	if fs.Changed("out") {
		job.Output = f.output
	}
	job.FontDirs = append(job.FontDirs, f.fontDirs...)
	job.SystemFonts = job.SystemFonts || f.system
	return job, job.Validate()
}

// fontConfig 按任务构建字体配置，调用方独占返回值。
func fontConfig(job *config.Job) (*fontconfig.Config, error) {
	cfg := fontconfig.NewEmpty()
	if job.SystemFonts {
		cfg = fontconfig.New()
	}
	for _, dir := range job.FontDirs {
		if err := cfg.AddDir(dir); err != nil {
			return nil, err
		}
	}
	for _, file := range job.FontFiles {
		if err := cfg.AddFile(file); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func newRenderer(job *config.Job, dump string) (*render.Renderer, error) {
	engine, err := engineByName(job.Engine)
	if err != nil {
		return nil, err
	}
	opts := []render.Option{render.WithEngine(engine)}
	if job.StraightAlpha {
		opts = append(opts, render.WithStraightAlpha())
	}
	if dump != "" {
		opts = append(opts, render.WithLayoutDump(dump))
	}
	return render.New(opts...), nil
}

// renderJob 渲染一个任务并返回结果；渲染失败或没有像素时返回错误。
func renderJob(ctx context.Context, r *render.Renderer, cfg *fontconfig.Config, job *config.Job) (render.Result, error) {
	logger := logging.GetLogger("cli")
	text, err := job.ResolveText()
	if err != nil {
		return render.Result{}, err
	}
	desc, err := job.Descriptor()
	if err != nil {
		return render.Result{}, err
	}
	var res render.Result
	if job.RichText {
		res = r.RenderRichText(ctx, job.Request(), cfg, text, render.RichText{Wrap: desc.Wrap, Align: desc.Align, Justify: desc.Justify})
	} else {
		res = r.Render(ctx, job.Request(), cfg, text, desc)
	}
	if res.Warning != "" {
		logger.Warn().Msg(res.Warning)
	}
	if res.Error != "" {
		logger.Warn().Str("error", res.Error).Msg("markup rejected, rendered as plain text")
	}
	if !res.Success {
		return res, fmt.Errorf("渲染失败: %w", res.Err)
	}
	if res.Buffer == nil {
		return res, fmt.Errorf("没有可写出的像素: %w", res.Err)
	}
	return res, nil
}

// writePNG 写出 RGBA 缓冲；straight 表示缓冲为直通 alpha。
func writePNG(path string, res render.Result, straight bool) error {
	rect := image.Rect(0, 0, res.SurfaceWidth, res.SurfaceHeight)
	var img image.Image
	if straight {
		img = &image.NRGBA{Pix: res.Buffer, Stride: res.SurfaceWidth * 4, Rect: rect}
	} else {
		img = &image.RGBA{Pix: res.Buffer, Stride: res.SurfaceWidth * 4, Rect: rect}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建输出目录失败: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建输出文件失败: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return f.Close()
}
