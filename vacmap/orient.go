package vacmap

import "image"

// CorrectOrientation maps the decoded grid's frame into the viewer's
// frame: the dumps come out upside down relative to the robot app, so
// the image is rotated 180 degrees and then mirrored horizontally. The
// two together amount to a vertical flip, but they are kept as separate
// steps to mirror how the transform was established against the app.
func CorrectOrientation(img *image.NRGBA) *image.NRGBA {
	return mirrorHorizontal(rotate180(img))
}

func rotate180(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.SetNRGBA(w-1-x, h-1-y, src.NRGBAAt(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

func mirrorHorizontal(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.SetNRGBA(w-1-x, y, src.NRGBAAt(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}
