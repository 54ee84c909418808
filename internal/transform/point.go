package transform

import "gonum.org/v1/gonum/floats"

// Brighten multiplies every sample by factor. Values are not clamped;
// factor <= 0 is accepted and produces non-physical output.
func (e *Engine) Brighten(img *Image, factor float64) *Image {
	if img == nil {
		return nil
	}
	out := newLike(img)
	floats.ScaleTo(out.pix, factor, img.pix)
	return out
}

// AdjustContrast scales each sample's deviation from mid by factor:
// (v-mid)*factor+mid. factor == 1 returns an exact copy.
func (e *Engine) AdjustContrast(img *Image, factor, mid float64) *Image {
	if img == nil {
		return nil
	}
	if factor == 1 {
		return img.Clone()
	}
	out := img.Clone()
	floats.AddConst(-mid, out.pix)
	floats.Scale(factor, out.pix)
	floats.AddConst(mid, out.pix)
	return out
}
