package layout

import "math"

// 排版内部以像素为单位；与外部约定的整数“排版单位”按 1/1024 像素计。
// 分辨率固定为 72 dpi，字号 N 即 N 像素的 em。

// Scale 是一个像素对应的排版单位数。
const Scale = 1024

// pt 与 mm 的换算常量，矢量引擎以 mm 为绘制单位时使用。
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// Units 将像素转为排版单位（四舍五入）。
func Units(px float64) int { return int(math.Floor(px*Scale + 0.5)) }

// PixelsFromUnits 将排版单位转回像素。
func PixelsFromUnits(u int) float64 { return float64(u) / Scale }

// ScaledUnits 计算 floor(v*Scale*scale+0.5)，用于字距等随渲染缩放变化的量。
func ScaledUnits(v, scale float64) int { return int(math.Floor(v*Scale*scale + 0.5)) }

// RoundHalfUp 计算 floor(v*scale+0.5)。
func RoundHalfUp(v, scale float64) float64 { return math.Floor(v*scale + 0.5) }
