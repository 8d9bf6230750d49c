package fractal

// PackRGB packs 8-bit channels into a 0x00RRGGBB pixel.
func PackRGB(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// UnpackRGB splits a 0x00RRGGBB pixel into channels.
func UnpackRGB(p uint32) (r, g, b uint8) {
	return uint8(p >> 16), uint8(p >> 8), uint8(p)
}

// Shade maps an orbit length onto the fixed blue palette. n is normalized
// against maxBudget and scaled to 0..255; green and blue are 0.4 and 0.8 of
// red, each channel truncated.
func Shade(n, maxBudget int) uint32 {
	s := float64(n) / float64(maxBudget) * 255
	return PackRGB(uint8(s), uint8(s*0.4), uint8(s*0.8))
}
