package transform

// window returns the inclusive bounds of the (2r+1)-square centered on
// (x, y), clamped to the image on each axis independently.
func window(x, y, r, width, height int) (x0, x1, y0, y1 int) {
	return max(0, x-r), min(width-1, x+r), max(0, y-r), min(height-1, y+r)
}

// reduceFunc turns a weighted neighborhood sum and the number of in-bounds
// neighbors into an output sample.
type reduceFunc func(sum float64, count int) float64

// neighborhood computes every output sample from the clipped
// (2r+1)-square around it. weight receives kernel indices relative to the
// unclipped window; a nil weight sums samples unweighted.
func (e *Engine) neighborhood(img *Image, r int, weight func(i, j int) float64, reduce reduceFunc) *Image {
	out := newLike(img)
	w, h, ch := img.width, img.height, img.channels

	e.forStrips(img, func(xs, xe int) {
		acc := make([]float64, ch)
		for x := xs; x < xe; x++ {
			for y := 0; y < h; y++ {
				x0, x1, y0, y1 := window(x, y, r, w, h)
				clear(acc)
				for xi := x0; xi <= x1; xi++ {
					for yi := y0; yi <= y1; yi++ {
						base := img.index(xi, yi, 0)
						if weight == nil {
							for c := 0; c < ch; c++ {
								acc[c] += img.pix[base+c]
							}
							continue
						}
						kv := weight(xi-x+r, yi-y+r)
						for c := 0; c < ch; c++ {
							acc[c] += img.pix[base+c] * kv
						}
					}
				}
				count := (x1 - x0 + 1) * (y1 - y0 + 1)
				dst := out.index(x, y, 0)
				for c := 0; c < ch; c++ {
					out.pix[dst+c] = reduce(acc[c], count)
				}
			}
		}
	})
	return out
}
