package layout

import (
	"encoding/json"
	"os"
)

type debugDump struct {
	Font  string     `json:"font"`
	Width float64    `json:"width"`
	Wrap  WrapMode   `json:"wrap"`
	Align Alignment  `json:"align"`
	Arc   *Arc       `json:"arc,omitempty"`
	Size  [2]float64 `json:"size"`
	Lines []Line     `json:"lines"`
}

// WriteDebugJSON 将布局结果输出为 JSON，便于调试或可视化。
func WriteDebugJSON(l *Layout, path string) error {
	if l == nil {
		return nil
	}
	lines, err := l.Lines()
	if err != nil {
		return err
	}
	dump := debugDump{
		Font:  l.desc.String(),
		Width: l.width,
		Wrap:  l.wrap,
		Align: l.align,
		Size:  l.size,
		Lines: lines,
	}
	if l.arc.Radius > 0 {
		arc := l.arc
		dump.Arc = &arc
	}
	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
