package scan

import (
	"image"
	"image/draw"
)

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// LowerHalf returns the rows from the vertical midpoint to the bottom of img.
func LowerHalf(img image.Image) image.Image {
	b := img.Bounds()
	r := image.Rect(b.Min.X, b.Min.Y+b.Dy()/2, b.Max.X, b.Max.Y)
	if sub, ok := img.(subImager); ok {
		return sub.SubImage(r)
	}
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
	return dst
}
