package vacmap

import (
	"math"

	"github.com/paulmach/orb"
)

// Projection converts between the world frame (meters) and the pixel
// frame: pixel = floor((world - origin) / resolution) per axis.
type Projection struct {
	Resolution float64
	OriginX    float64
	OriginY    float64
	Width      int
	Height     int
}

// NewProjection builds the projection for a decoded grid.
func NewProjection(g *OccupancyGrid) Projection {
	return Projection{
		Resolution: g.Resolution,
		OriginX:    g.OriginX,
		OriginY:    g.OriginY,
		Width:      g.Width,
		Height:     g.Height,
	}
}

// WorldToPixel maps a world-frame point (meters) to its pixel. The result
// may lie outside the canvas; callers drop out-of-bounds pixels at the
// point of use rather than clamping.
func (p Projection) WorldToPixel(w WorldPoint) PixelPoint {
	return PixelPoint{
		X: int(math.Floor((w.X - p.OriginX) / p.Resolution)),
		Y: int(math.Floor((w.Y - p.OriginY) / p.Resolution)),
	}
}

// PixelToWorld is the inverse mapping, used for diagnostics. It returns
// the world coordinate of the pixel's origin corner, so a round trip lands
// within one resolution unit of the input.
func (p Projection) PixelToWorld(px PixelPoint) WorldPoint {
	return WorldPoint{
		X: p.OriginX + float64(px.X)*p.Resolution,
		Y: p.OriginY + float64(px.Y)*p.Resolution,
	}
}

// CentimeterToPixel maps a polygon vertex, which the area documents
// express in centimeters, to its pixel. Charger poses are already in
// meters and go through WorldToPixel directly.
func (p Projection) CentimeterToPixel(x, y float64) PixelPoint {
	return p.WorldToPixel(WorldPoint{X: x / 100.0, Y: y / 100.0})
}

// InBounds reports whether the pixel lies on the canvas.
func (p Projection) InBounds(px PixelPoint) bool {
	return px.X >= 0 && px.X < p.Width && px.Y >= 0 && px.Y < p.Height
}

// RingToPixels projects a centimeter-frame polygon ring into pixel
// vertices. A trailing closing vertex, when present, is dropped.
func (p Projection) RingToPixels(ring orb.Ring) []PixelPoint {
	n := len(ring)
	if n > 1 && ring[0] == ring[n-1] {
		n--
	}
	verts := make([]PixelPoint, 0, n)
	for i := 0; i < n; i++ {
		verts = append(verts, p.CentimeterToPixel(ring[i][0], ring[i][1]))
	}
	return verts
}
