package cli

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestEngineByName(t *testing.T) {
	e, err := engineByName("")
	require.NoError(t, err)
	assert.Equal(t, "canvas", e.Name())
	e, err = engineByName("GG")
	require.NoError(t, err)
	assert.Equal(t, "gg", e.Name())
	_, err = engineByName("cairo")
	assert.ErrorContains(t, err, "canvas, gg")
}

func TestTranslateCommand(t *testing.T) {
	html := `<html><body><p style="font-size:10pt;">hi</p></body></html>`
	out, _, err := run(t, html, "translate", "--scale", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "hi")
	assert.Contains(t, out, "<span")
}

func TestFontsCommand(t *testing.T) {
	out, _, err := run(t, "", "fonts")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Go Mono", "Go Smallcaps"}, strings.Split(strings.TrimSpace(out), "\n"))

	_, _, err = run(t, "", "fonts", "--dir", "a", "--file", "b")
	assert.Error(t, err)
	_, _, err = run(t, "", "fonts", "--dir", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestRenderCommandWritesPNG(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out", "hello.png")
	dump := filepath.Join(dir, "layout.json")
	for _, engine := range []string{"canvas", "gg"} {
		t.Run(engine, func(t *testing.T) {
			stdout, _, err := run(t, "", "render", "--text", "Hi", "--width", "80", "--height", "40",
				"--font", "Sans 20", "--engine", engine, "-o", outPath, "--dump-layout", dump)
			require.NoError(t, err)
			assert.Contains(t, stdout, outPath)

			f, err := os.Open(outPath)
			require.NoError(t, err)
			defer f.Close()
			img, err := png.Decode(f)
			require.NoError(t, err)
			assert.Equal(t, 80, img.Bounds().Dx())
			assert.Equal(t, 40, img.Bounds().Dy())
			assert.FileExists(t, dump)
		})
	}
}

func TestRenderCommandErrors(t *testing.T) {
	_, _, err := run(t, "", "render", "--text", "x", "--engine", "nope")
	assert.Error(t, err)
	_, _, err = run(t, "", "render", "--text", "x", "--width", "0", "--height", "0", "-o", filepath.Join(t.TempDir(), "x.png"))
	assert.ErrorContains(t, err, "没有可写出的像素")
	_, _, err = run(t, "", "render", "--text", "x", "--width", "-3")
	assert.Error(t, err)
}

func TestRoDCommand(t *testing.T) {
	out, _, err := run(t, "", "rod", "--text", "x", "--width", "300", "--height", "100")
	require.NoError(t, err)
	assert.Equal(t, "300x100\n", out)

	out, _, err = run(t, "", "rod", "--text", "Hello", "--width", "0", "--height", "0", "--font", "Sans 20", "--auto-size")
	require.NoError(t, err)
	assert.NotEqual(t, "0x0\n", out)

	_, _, err = run(t, "", "rod", "--text", "Hello", "--width", "0", "--height", "0")
	assert.ErrorContains(t, err, "区域为空")
}

const srtSample = `1
00:00:01,000 --> 00:00:02,000
第一条

2
00:00:02,500 --> 00:00:04,000
second
line
`

func TestSRTCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.srt")
	require.NoError(t, os.WriteFile(path, []byte(srtSample), 0o644))

	out, _, err := run(t, "", "srt", path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "1\t00:00:01,000 --> 00:00:02,000\t\"第一条\"", lines[0])
	assert.Contains(t, lines[1], `"second\nline"`)

	frames := filepath.Join(dir, "frames")
	out, _, err = run(t, "", "srt", path, "--out-dir", frames, "--width", "120", "--height", "60",
		"--font", "Sans 16", "--template", "${index}: ${lines[0]}")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(frames, "0002.png"))
	assert.FileExists(t, filepath.Join(frames, "0001.png"))
	assert.FileExists(t, filepath.Join(frames, "0002.png"))

	_, _, err = run(t, "", "srt", filepath.Join(dir, "missing.srt"))
	assert.Error(t, err)
}

func TestJobFileWithOverrides(t *testing.T) {
	dir := t.TempDir()
	job := filepath.Join(dir, "job.yaml")
	require.NoError(t, os.WriteFile(job, []byte("text: from file\nwidth: 50\nheight: 20\nstyle:\n  font: Sans 12\n"), 0o644))
	outPath := filepath.Join(dir, "job.png")
	_, _, err := run(t, "", "render", "--job", job, "--width", "64", "-o", outPath)
	require.NoError(t, err)

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 20, cfg.Height)
}
