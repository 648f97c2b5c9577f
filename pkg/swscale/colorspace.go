package swscale

// BT.601 limited-range conversion in 8-bit fixed point.

func rgbToYUV(r, g, b uint8) (y, u, v uint8) {
	ri, gi, bi := int32(r), int32(g), int32(b)
	y = uint8(((66*ri + 129*gi + 25*bi + 128) >> 8) + 16)
	u = uint8(((-38*ri - 74*gi + 112*bi + 128) >> 8) + 128)
	v = uint8(((112*ri - 94*gi - 18*bi + 128) >> 8) + 128)
	return y, u, v
}

func yuvToRGB(y, u, v uint8) (r, g, b uint8) {
	c := int32(y) - 16
	d := int32(u) - 128
	e := int32(v) - 128
	r = clip8((298*c + 409*e + 128) >> 8)
	g = clip8((298*c - 100*d - 208*e + 128) >> 8)
	b = clip8((298*c + 516*d + 128) >> 8)
	return r, g, b
}

func grayToLuma(g uint8) uint8 {
	return uint8((int32(g)*219+127)/255 + 16)
}

func lumaToGray(y uint8) uint8 {
	return clip8(((int32(y)-16)*255 + 109) / 219)
}

func clip8(v int32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
