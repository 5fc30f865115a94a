// Package binding fills ${...} placeholders in text templates, for example
// from subtitle records.
package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ByLCY/textfx/subtitle"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Data 是模板可引用的值，支持嵌套 map 与切片。
type Data map[string]any

// Interpolate 将 ${path.to.value} 与 ${list[0]} 形式的占位符替换为 data 中的值。
// 路径不存在时保留原占位符。
func Interpolate(text string, data Data) string {
	if len(data) == 0 {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		path := strings.TrimSpace(match[2 : len(match)-1])
		if path == "" {
			return match
		}
		if val, ok := Lookup(data, path); ok {
			return format(val)
		}
		return match
	})
}

// Placeholders 按出现顺序返回模板中的路径（去重）。
func Placeholders(text string) []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range exprPattern.FindAllStringSubmatch(text, -1) {
		p := strings.TrimSpace(m[1])
		if p != "" && !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// SubtitleData 暴露一条字幕的字段：index 从 1 开始，时间为秒，
// srtStart/srtEnd 为 SRT 时间戳文本。
func SubtitleData(index int, rec subtitle.Record) Data {
	return Data{
		"index":    index,
		"start":    rec.Start,
		"end":      rec.End,
		"duration": rec.Duration(),
		"srtStart": subtitle.FormatTimestamp(rec.Start),
		"srtEnd":   subtitle.FormatTimestamp(rec.End),
		"text":     rec.Text,
		"lines":    toAny(strings.Split(rec.Text, "\n")),
	}
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func format(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	default:
		return fmt.Sprint(v)
	}
}

// Lookup 解析点分路径，段内可带 [n] 下标。
func Lookup(data Data, path string) (any, bool) {
	var current any = map[string]any(data)
	for _, segment := range strings.Split(path, ".") {
		name, indexes, ok := parseSegment(segment)
		if !ok {
			return nil, false
		}
		if name != "" {
			if current, ok = descendMap(current, name); !ok {
				return nil, false
			}
		}
		for _, idx := range indexes {
			if current, ok = descendArray(current, idx); !ok {
				return nil, false
			}
		}
	}
	return current, true
}

func parseSegment(segment string) (string, []int, bool) {
	i := strings.IndexByte(segment, '[')
	if i == -1 {
		return segment, nil, true
	}
	name, rest := segment[:i], segment[i:]
	var indexes []int
	for rest != "" {
		end := strings.IndexByte(rest, ']')
		if rest[0] != '[' || end == -1 {
			return "", nil, false
		}
		n, err := strconv.Atoi(rest[1:end])
		if err != nil {
			return "", nil, false
		}
		indexes = append(indexes, n)
		rest = rest[end+1:]
	}
	return name, indexes, true
}

func descendMap(current any, key string) (any, bool) {
	switch c := current.(type) {
	case map[string]any:
		val, ok := c[key]
		return val, ok
	case Data:
		val, ok := c[key]
		return val, ok
	default:
		return nil, false
	}
}

func descendArray(current any, idx int) (any, bool) {
	c, ok := current.([]any)
	if !ok || idx < 0 || idx >= len(c) {
		return nil, false
	}
	return c[idx], true
}
