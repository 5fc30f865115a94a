package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/textfx/style"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "job.yaml", `
text: "Hello ${name}"
width: 320
height: 120
scale_x: 2
engine: gg
font_dirs: ["/tmp/fonts"]
data:
  name: world
style:
  font: "Sans bold 40"
  align: center
  valign: middle
  wrap: word-char
  text_color: "#ff000080"
  background_color: black
  letter_spacing: 3
  arc_radius: 200
`)
	job, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 320, job.Width)
	assert.Equal(t, 120, job.Height)
	assert.Equal(t, 2.0, job.ScaleX)
	assert.Equal(t, 1.0, job.ScaleY, "未给出的键取默认值")
	assert.Equal(t, "gg", job.Engine)
	assert.Equal(t, []string{"/tmp/fonts"}, job.FontDirs)
	assert.Equal(t, "out.png", job.Output)

	text, err := job.ResolveText()
	require.NoError(t, err)
	assert.Equal(t, "Hello world", text)

	d, err := job.Descriptor()
	require.NoError(t, err)
	assert.Equal(t, "Sans bold 40", d.Font)
	assert.Equal(t, style.AlignCenter, d.Align)
	assert.Equal(t, style.VAlignMiddle, d.VAlign)
	assert.Equal(t, style.WrapWordChar, d.Wrap)
	assert.Equal(t, 3, d.LetterSpacing)
	assert.Equal(t, 200.0, d.ArcRadius)
	assert.InDelta(t, 1.0, d.TextColor.R, 1e-9)
	assert.InDelta(t, 128.0/255, d.TextColor.A, 1e-9)
	assert.Equal(t, style.Color{A: 1}, d.BackgroundColor)
	assert.Equal(t, style.Color{R: 1, A: 1}, d.StrokeColor)

	req := job.Request()
	assert.Equal(t, style.Request{Width: 320, Height: 120, ScaleX: 2, ScaleY: 1}, req)
}

func TestLoadTOMLWithTextFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "body.txt", "第 ${n} 行")
	path := writeFile(t, dir, "job.toml", `
text_file = "body.txt"
width = 100
height = 50

[data]
n = 3

[style]
weight = "bold"
markup = true
`)
	job, err := Load(path)
	require.NoError(t, err)
	text, err := job.ResolveText()
	require.NoError(t, err)
	assert.Equal(t, "第 3 行", text)

	d, err := job.Descriptor()
	require.NoError(t, err)
	assert.Equal(t, style.WeightBold, d.Weight)
	assert.True(t, d.Markup)
	assert.Equal(t, "canvas", job.Engine)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(writeFile(t, dir, "job.json", `{}`))
	assert.ErrorContains(t, err, "unsupported job file")

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	job, err := Load(writeFile(t, dir, "bad.yaml", "style:\n  align: sideways\n"))
	require.NoError(t, err)
	_, err = job.Descriptor()
	assert.ErrorContains(t, err, "style.align")

	job, err = Load(writeFile(t, dir, "missing-text.yaml", "text_file: nope.txt\n"))
	require.NoError(t, err)
	_, err = job.ResolveText()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	job, err := FromDefaults()
	require.NoError(t, err)
	assert.NoError(t, job.Validate())
	assert.Equal(t, 640, job.Width)

	job.Width = -1
	assert.Error(t, job.Validate())
	job.Width, job.ScaleY = 10, -2
	assert.Error(t, job.Validate())
}
