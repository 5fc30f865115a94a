package layout

// AttrKind 属性种类。
type AttrKind int

const (
	AttrLetterSpacing AttrKind = iota
)

// Attribute 作用于字节区间 [Start, End)，End < 0 表示到文本末尾。
type Attribute struct {
	Kind  AttrKind
	Start int
	End   int
	Value int // 排版单位（1/1024 像素）
}

// NewLetterSpacing 创建覆盖全文的字距属性。
func NewLetterSpacing(units int) Attribute {
	return Attribute{Kind: AttrLetterSpacing, Start: 0, End: -1, Value: units}
}

// AttrList 是有序属性列表，后插入者优先。
type AttrList struct {
	attrs []Attribute
}

func NewAttrList() *AttrList { return &AttrList{} }

func (l *AttrList) Insert(a Attribute) { l.attrs = append(l.attrs, a) }

func (l *AttrList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.attrs)
}

// value 返回 offset 处某类属性的值。
func (l *AttrList) value(kind AttrKind, offset int) (int, bool) {
	if l == nil {
		return 0, false
	}
	for i := len(l.attrs) - 1; i >= 0; i-- {
		a := l.attrs[i]
		if a.Kind != kind || offset < a.Start || (a.End >= 0 && offset >= a.End) {
			continue
		}
		return a.Value, true
	}
	return 0, false
}
