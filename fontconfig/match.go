package fontconfig

import (
	"fmt"
	"strings"

	"github.com/ByLCY/textfx/layout"
)

// generic 把通用族名映射到内置字体族。
var generic = map[string]string{
	"sans":       "Go",
	"sans-serif": "Go",
	"serif":      "Go",
	"system-ui":  "Go",
	"monospace":  "Go Mono",
	"mono":       "Go Mono",
}

// Match 返回与描述最接近的字体：先按族名依次查找，都不存在时退回通用族名映射，最后使用内置默认字体。
func (c *Config) Match(desc layout.FontDescription) (Face, error) {
	faces := c.Faces()
	if len(faces) == 0 {
		return Face{}, ErrNoFont
	}
	italic := desc.Slant != layout.SlantNormal
	families := desc.Families()
	for _, fam := range families {
		if f, ok := best(faces, fam, desc.Weight, italic); ok {
			return f, nil
		}
	}
	for _, fam := range families {
		if alias, ok := generic[strings.ToLower(fam)]; ok {
			if f, ok := best(faces, alias, desc.Weight, italic); ok {
				c.log.Debug().Str("family", fam).Str("alias", alias).Msg("generic family")
				return f, nil
			}
		}
	}
	if f, ok := best(faces, "Go", desc.Weight, italic); ok {
		if len(families) > 0 {
			c.log.Debug().Strs("families", families).Str("fallback", f.Family).Msg("font family not found")
		}
		return f, nil
	}
	return Face{}, fmt.Errorf("%w: %s", ErrNoFont, desc)
}

func best(faces []Face, family string, weight layout.Weight, italic bool) (Face, bool) {
	var found Face
	score := -1
	for _, f := range faces {
		if !strings.EqualFold(f.Family, family) {
			continue
		}
		s := int(f.Weight - weight)
		if s < 0 {
			s = -s
		}
		if f.Italic != italic {
			s += 1000
		}
		if score < 0 || s < score {
			found, score = f, s
		}
	}
	return found, score >= 0
}
