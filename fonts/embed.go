package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/gofont/gosmallcapsitalic"
)

// Prefix 标记内置字体名，例如 "embed:Go-Bold"。
const Prefix = "embed:"

// Builtin 描述一款随程序分发的字体。
type Builtin struct {
	Name   string
	Family string
	Weight int // OpenType 数值字重
	Italic bool
	data   []byte
}

var builtins = []Builtin{
	{"Go-Regular", "Go", 400, false, goregular.TTF},
	{"Go-Italic", "Go", 400, true, goitalic.TTF},
	{"Go-Medium", "Go", 500, false, gomedium.TTF},
	{"Go-MediumItalic", "Go", 500, true, gomediumitalic.TTF},
	{"Go-Bold", "Go", 700, false, gobold.TTF},
	{"Go-BoldItalic", "Go", 700, true, gobolditalic.TTF},
	{"Go-Mono", "Go Mono", 400, false, gomono.TTF},
	{"Go-Mono-Italic", "Go Mono", 400, true, gomonoitalic.TTF},
	{"Go-Mono-Bold", "Go Mono", 700, false, gomonobold.TTF},
	{"Go-Mono-BoldItalic", "Go Mono", 700, true, gomonobolditalic.TTF},
	{"Go-Smallcaps", "Go Smallcaps", 400, false, gosmallcaps.TTF},
	{"Go-Smallcaps-Italic", "Go Smallcaps", 400, true, gosmallcapsitalic.TTF},
}

// Default 是找不到任何字体时使用的内置字体。
const Default = "Go-Regular"

// All 返回全部内置字体（不含字节数据的副本可安全修改）。
func All() []Builtin {
	out := make([]Builtin, len(builtins))
	copy(out, builtins)
	return out
}

// Data 返回字体文件内容。
func (b Builtin) Data() []byte { return b.data }

// Load 返回内置字体的字节数据，name 可写为 "embed:Go-Bold" 或直接 "Go-Bold"，大小写不敏感。
func Load(name string) ([]byte, error) {
	clean := strings.TrimPrefix(name, Prefix)
	for _, b := range builtins {
		if strings.EqualFold(b.Name, clean) {
			return b.data, nil
		}
	}
	return nil, fmt.Errorf("读取内置字体 %s 失败: 不存在", name)
}
