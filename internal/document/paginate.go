package document

import (
	"image"
	"image/draw"
	"math"
)

// A4 page size in millimetres
const (
	PageWidthMM  = 210.0
	PageHeightMM = 297.0
)

// Band is a horizontal slice of the raster, [Top, Bottom) in pixels
type Band struct {
	Top    int
	Bottom int
}

// Height of the band in pixels
func (b Band) Height() int { return b.Bottom - b.Top }

// BandHeight is the pixel height of one A4 page for a raster of the given
// pixel width
func BandHeight(rasterWidth int) int {
	return int(math.Round(float64(rasterWidth) * PageHeightMM / PageWidthMM))
}

// Paginate splits a raster of the given height into contiguous bands of at
// most bandHeight pixels. The last band may be shorter. An empty raster
// still yields a single empty page.
func Paginate(height, bandHeight int) []Band {
	if bandHeight <= 0 {
		bandHeight = 1
	}
	if height <= 0 {
		return []Band{{Top: 0, Bottom: 0}}
	}

	bands := make([]Band, 0, (height+bandHeight-1)/bandHeight)
	for top := 0; top < height; top += bandHeight {
		bottom := top + bandHeight
		if bottom > height {
			bottom = height
		}
		bands = append(bands, Band{Top: top, Bottom: bottom})
	}
	return bands
}

// Slice copies each band of src into its own image
func Slice(src image.Image, bands []Band) []image.Image {
	bounds := src.Bounds()
	out := make([]image.Image, 0, len(bands))
	for _, b := range bands {
		h := b.Height()
		if h <= 0 {
			h = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), h))
		draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
		draw.Draw(dst, image.Rect(0, 0, bounds.Dx(), b.Height()), src, image.Pt(bounds.Min.X, bounds.Min.Y+b.Top), draw.Src)
		out = append(out, dst)
	}
	return out
}
