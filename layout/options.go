package layout

// Face 是排版所需的最小字体接口，由具体引擎实现。
type Face interface {
	// Advance 返回文本的水平步进（像素）。
	Advance(s string) float64
	Metrics() Metrics
}

// FontMap 根据字体描述解析出 Face，由引擎后端结合字体配置实现。
type FontMap interface {
	Face(desc FontDescription, opts FontOptions) (Face, error)
}
