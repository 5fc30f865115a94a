package render

// ReorderBGRAtoRGBA 复制 width*height 个像素并把通道顺序 2,1,0,3 换成 0,1,2,3，alpha 不变。
func ReorderBGRAtoRGBA(src []byte, width, height int) []byte {
	n := width * height * 4
	if width <= 0 || height <= 0 || len(src) < n {
		return nil
	}
	out := make([]byte, n)
	for i := 0; i < n; i += 4 {
		out[i+0] = src[i+2]
		out[i+1] = src[i+1]
		out[i+2] = src[i+0]
		out[i+3] = src[i+3]
	}
	return out
}

// unpremultiply 原地把预乘 alpha 的 RGBA 还原为直通 alpha。
func unpremultiply(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		a := uint32(pix[i+3])
		if a == 0 || a == 255 {
			continue
		}
		for c := 0; c < 3; c++ {
			pix[i+c] = uint8(min(255, (uint32(pix[i+c])*255+a/2)/a))
		}
	}
}
