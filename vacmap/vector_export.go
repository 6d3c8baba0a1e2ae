package vacmap

import (
	"image/color"
	"io"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/svg"
)

// nrgbaToRGBA premultiplies alpha, as the canvas library expects
// premultiplied RGBA.
func nrgbaToRGBA(c color.NRGBA) color.RGBA {
	if c.A == 0 {
		return color.RGBA{0, 0, 0, 0}
	}
	if c.A == 255 {
		return color.RGBA{c.R, c.G, c.B, 255}
	}
	alpha32 := uint32(c.A)
	return color.RGBA{
		R: uint8((uint32(c.R) * alpha32) / 255),
		G: uint8((uint32(c.G) * alpha32) / 255),
		B: uint8((uint32(c.B) * alpha32) / 255),
		A: c.A,
	}
}

// WriteFloorPlanSVG writes the map as vector graphics: occupancy cells
// as filled rectangles, rooms and forbidden zones as polygons, the
// charger as a circle. Canvas coordinates grow upward from the bottom,
// which matches the viewer orientation of the raster output, so pixel
// coordinates pass through unflipped.
func WriteFloorPlanSVG(w io.Writer, g *OccupancyGrid, ov Overlays, cfg RenderConfig) error {
	width, height := float64(g.Width), float64(g.Height)
	renderer := svg.New(w, width, height, nil)
	proj := NewProjection(g)

	bgStyle := canvas.DefaultStyle
	bgStyle.Fill = canvas.Paint{Color: nrgbaToRGBA(colorUnknown)}
	renderer.RenderPath(canvas.Rectangle(width, height), bgStyle, canvas.Identity)

	cellStyle := canvas.DefaultStyle
	cellStyle.Stroke = canvas.Paint{Color: canvas.Transparent}
	for _, class := range []struct {
		state CellState
		fill  color.NRGBA
	}{
		{CellFree, colorFree},
		{CellObstacle, colorObstacle},
	} {
		cellStyle.Fill = canvas.Paint{Color: nrgbaToRGBA(class.fill)}
		for y := 0; y < g.Height; y++ {
			// Merge horizontal runs so the SVG stays small.
			run := -1
			for x := 0; x <= g.Width; x++ {
				in := x < g.Width && g.At(x, y) == class.state
				if in && run < 0 {
					run = x
				}
				if !in && run >= 0 {
					rect := canvas.Rectangle(float64(x-run), 1).Translate(float64(run), float64(y))
					renderer.RenderPath(rect, cellStyle, canvas.Identity)
					run = -1
				}
			}
		}
	}

	for _, room := range collectRooms(ov, proj) {
		roomStyle := canvas.DefaultStyle
		roomStyle.Fill = canvas.Paint{Color: nrgbaToRGBA(room.Fill)}
		roomStyle.Stroke = canvas.Paint{Color: canvas.Transparent}
		renderer.RenderPath(pathFromVerts(room.Verts), roomStyle, canvas.Identity)
	}

	for _, zone := range ov.Zones {
		verts := proj.RingToPixels(zone.Vertices)
		if len(verts) < 3 {
			continue
		}
		fill, line := noGoFill, noGoLine
		if zone.Type == ZoneNoMop {
			fill, line = noMopFill, noMopLine
		}
		zoneStyle := canvas.DefaultStyle
		zoneStyle.Fill = canvas.Paint{Color: nrgbaToRGBA(fill)}
		zoneStyle.Stroke = canvas.Paint{Color: nrgbaToRGBA(line)}
		zoneStyle.StrokeWidth = 1.0
		renderer.RenderPath(pathFromVerts(verts), zoneStyle, canvas.Identity)
	}

	if ov.Charger != nil {
		at := proj.WorldToPixel(WorldPoint{X: ov.Charger.X, Y: ov.Charger.Y})
		chargerStyle := canvas.DefaultStyle
		chargerStyle.Fill = canvas.Paint{Color: nrgbaToRGBA(chargerFill)}
		chargerStyle.Stroke = canvas.Paint{Color: nrgbaToRGBA(chargerRing)}
		chargerStyle.StrokeWidth = 1.0
		chargerPath := canvas.Circle(6.0)
		chargerPath = chargerPath.Translate(float64(at.X), float64(at.Y))
		renderer.RenderPath(chargerPath, chargerStyle, canvas.Identity)
	}

	return renderer.Close()
}

func pathFromVerts(verts []PixelPoint) *canvas.Path {
	cp := &canvas.Path{}
	for i, v := range verts {
		if i == 0 {
			cp.MoveTo(float64(v.X), float64(v.Y))
		} else {
			cp.LineTo(float64(v.X), float64(v.Y))
		}
	}
	cp.Close()
	return cp
}
