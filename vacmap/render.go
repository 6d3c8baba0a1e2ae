package vacmap

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Base layer colors.
var (
	colorFree     = color.NRGBA{255, 255, 255, 255}
	colorUnknown  = color.NRGBA{230, 230, 230, 255}
	colorObstacle = color.NRGBA{40, 40, 40, 255}
)

// Room fill palette, cycled through before falling back to generated
// hues.
var roomPalette = []color.NRGBA{
	{255, 195, 0, 255},
	{200, 80, 80, 255},
	{30, 144, 255, 255},
	{0, 230, 170, 255},
	{100, 210, 255, 255},
}

// Forbidden zone and charger colors.
var (
	noGoFill  = color.NRGBA{255, 0, 0, 80}
	noGoLine  = color.NRGBA{255, 0, 0, 220}
	noGoHatch = color.NRGBA{255, 0, 0, 180}

	noMopFill  = color.NRGBA{30, 80, 255, 80}
	noMopLine  = color.NRGBA{30, 80, 255, 220}
	noMopHatch = color.NRGBA{30, 80, 255, 180}

	chargerFill = color.NRGBA{220, 30, 30, 255}
	chargerBolt = color.NRGBA{255, 255, 255, 255}
	chargerRing = color.NRGBA{255, 255, 0, 200}

	labelLight  = color.NRGBA{255, 255, 255, 230}
	labelDark   = color.NRGBA{0, 0, 0, 255}
	captionGray = color.NRGBA{100, 100, 100, 200}
)

// RoomColors returns n distinct fill colors: the fixed palette first,
// then evenly spaced hues for the overflow.
func RoomColors(n int) []color.NRGBA {
	colors := make([]color.NRGBA, 0, n)
	for i := 0; i < n; i++ {
		if i < len(roomPalette) {
			colors = append(colors, roomPalette[i])
			continue
		}
		h := float64(i-len(roomPalette)) / float64(n-len(roomPalette))
		colors = append(colors, hsvColor(h, 0.8, 0.9))
	}
	return colors
}

func hsvColor(h, s, v float64) color.NRGBA {
	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return color.NRGBA{uint8(r * 255), uint8(g * 255), uint8(b * 255), 255}
}

// RenderConfig holds the tunable rendering parameters. All fields have
// sensible defaults; see DefaultRenderConfig.
type RenderConfig struct {
	Upscale        int      `yaml:"upscale"`
	MinRoomSize    int      `yaml:"min_room_size"`
	MinLabelPixels int      `yaml:"min_label_pixels"`
	HatchSpacing   int      `yaml:"hatch_spacing"`
	StampRadius    int      `yaml:"stamp_radius"`
	FontPaths      []string `yaml:"font_paths"`
	FontSize       float64  `yaml:"font_size"`
	Debug          bool     `yaml:"debug"`
}

// DefaultRenderConfig returns the standard configuration.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Upscale:        2,
		MinRoomSize:    100,
		MinLabelPixels: 50,
		HatchSpacing:   20,
		StampRadius:    1,
		FontPaths:      DefaultFontPaths,
		FontSize:       13,
	}
}

// Overlays collects everything drawn over the base occupancy layer.
// Regions is only consulted when Rooms is empty: named rooms from the
// area document take precedence over segmentation output.
type Overlays struct {
	Rooms   []RoomArea
	Regions []Region
	Zones   []ForbiddenZone
	Charger *ChargerPose
}

// RenderMap draws the base layer and composites the overlay layers over
// it in a fixed order: rooms, forbidden zones, charger, labels. Each
// overlay is built on its own transparent canvas and blended with
// draw.Over, so overlapping shapes mix rather than clobber.
func RenderMap(g *OccupancyGrid, ov Overlays, cfg RenderConfig, face font.Face) *image.NRGBA {
	proj := NewProjection(g)
	out := RenderBase(g)

	rooms := collectRooms(ov, proj)
	if len(rooms) > 0 {
		layer := newLayer(g.Width, g.Height)
		for _, room := range rooms {
			fillPolygon(layer, room.Verts, room.Fill)
		}
		draw.Draw(out, out.Bounds(), layer, image.Point{}, draw.Over)
	}

	if len(ov.Zones) > 0 {
		layer := newLayer(g.Width, g.Height)
		for _, zone := range ov.Zones {
			drawForbiddenZone(layer, proj, zone, cfg)
		}
		draw.Draw(out, out.Bounds(), layer, image.Point{}, draw.Over)
	}

	if ov.Charger != nil {
		layer := newLayer(g.Width, g.Height)
		drawCharger(layer, proj.WorldToPixel(WorldPoint{X: ov.Charger.X, Y: ov.Charger.Y}))
		draw.Draw(out, out.Bounds(), layer, image.Point{}, draw.Over)
	}

	if len(rooms) > 0 && face != nil {
		layer := newLayer(g.Width, g.Height)
		for _, room := range rooms {
			if anchor, ok := labelAnchor(room.Verts); ok {
				drawLabel(layer, room.Name, anchor, face)
			}
		}
		draw.Draw(out, out.Bounds(), layer, image.Point{}, draw.Over)
	}

	return out
}

// RenderBase paints the occupancy classes onto an opaque canvas.
func RenderBase(g *OccupancyGrid) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			var c color.NRGBA
			switch g.At(x, y) {
			case CellFree:
				c = colorFree
			case CellObstacle:
				c = colorObstacle
			default:
				c = colorUnknown
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

type renderRoom struct {
	Name  string
	Verts []PixelPoint
	Fill  color.NRGBA
}

// collectRooms resolves the room source: area-document rooms when
// present, segmentation regions otherwise. Degenerate polygons (fewer
// than three vertices) are dropped here, before any drawing.
func collectRooms(ov Overlays, proj Projection) []renderRoom {
	var rooms []renderRoom
	if len(ov.Rooms) > 0 {
		colors := RoomColors(len(ov.Rooms))
		for i, room := range ov.Rooms {
			verts := proj.RingToPixels(room.Vertices)
			if len(verts) < 3 {
				continue
			}
			name := room.Name
			if name == "" {
				name = fmt.Sprintf("room%d", room.ID)
			}
			fill := colors[i]
			fill.A = 180
			rooms = append(rooms, renderRoom{Name: name, Verts: verts, Fill: fill})
		}
		return rooms
	}

	colors := RoomColors(len(ov.Regions))
	for i, region := range ov.Regions {
		verts := make([]PixelPoint, 0, len(region.Boundary))
		n := len(region.Boundary)
		if n > 1 && region.Boundary[0] == region.Boundary[n-1] {
			n--
		}
		for j := 0; j < n; j++ {
			verts = append(verts, PixelPoint{
				X: int(region.Boundary[j][0]),
				Y: int(region.Boundary[j][1]),
			})
		}
		if len(verts) < 3 {
			continue
		}
		fill := colors[i]
		fill.A = 180
		rooms = append(rooms, renderRoom{
			Name:  fmt.Sprintf("room%d", region.ID),
			Verts: verts,
			Fill:  fill,
		})
	}
	return rooms
}

// labelAnchor picks the label position for a room polygon: the centroid
// when the polygon has usable area, the vertex mean otherwise.
func labelAnchor(verts []PixelPoint) (PixelPoint, bool) {
	if len(verts) == 0 {
		return PixelPoint{}, false
	}
	ring := make(orb.Ring, 0, len(verts)+1)
	for _, v := range verts {
		ring = append(ring, orb.Point{float64(v.X), float64(v.Y)})
	}
	ring = append(ring, ring[0])

	centroid, area := planar.CentroidArea(ring)
	if math.Abs(area) > 1e-9 {
		return PixelPoint{X: int(centroid[0]), Y: int(centroid[1])}, true
	}

	var sx, sy int
	for _, v := range verts {
		sx += v.X
		sy += v.Y
	}
	return PixelPoint{X: sx / len(verts), Y: sy / len(verts)}, true
}

func drawForbiddenZone(layer *image.NRGBA, proj Projection, zone ForbiddenZone, cfg RenderConfig) {
	verts := proj.RingToPixels(zone.Vertices)
	if len(verts) < 3 {
		return
	}

	fill, line, hatch := noGoFill, noGoLine, noGoHatch
	if zone.Type == ZoneNoMop {
		fill, line, hatch = noMopFill, noMopLine, noMopHatch
	}

	fillPolygon(layer, verts, fill)
	// No-go zones are cross-hatched; no-mop zones get a single direction.
	hatchPolygon(layer, verts, hatch, cfg.HatchSpacing, zone.Type == ZoneNoGo)
	outlinePolygon(layer, verts, line, cfg.StampRadius)
}

// --- primitive raster helpers ---

func newLayer(w, h int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, w, h))
}

// setPx writes one pixel, silently dropping out-of-canvas coordinates.
func setPx(img *image.NRGBA, x, y int, c color.NRGBA) {
	if !image.Pt(x, y).In(img.Bounds()) {
		return
	}
	img.SetNRGBA(x, y, c)
}

// stamp paints a filled (2r+1)-square around (x, y).
func stamp(img *image.NRGBA, x, y, r int, c color.NRGBA) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			setPx(img, x+dx, y+dy, c)
		}
	}
}

// stampLine draws a segment by stamping along its parameterization,
// oversampled enough that no gaps appear at any slope.
func stampLine(img *image.NRGBA, a, b PixelPoint, r int, c color.NRGBA) {
	dx, dy := b.X-a.X, b.Y-a.Y
	span := dx
	if span < 0 {
		span = -span
	}
	if dy > span {
		span = dy
	}
	if -dy > span {
		span = -dy
	}
	steps := span*3 + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := a.X + int(math.Round(t*float64(dx)))
		y := a.Y + int(math.Round(t*float64(dy)))
		stamp(img, x, y, r, c)
	}
}

// fillPolygon paints the interior of a polygon using an even-odd
// integer scanline sweep. Scanlines fully outside the canvas contribute
// nothing; partial overlap is clipped per pixel.
func fillPolygon(img *image.NRGBA, verts []PixelPoint, c color.NRGBA) {
	if len(verts) < 3 {
		return
	}

	minY, maxY := verts[0].Y, verts[0].Y
	for _, v := range verts[1:] {
		if v.Y < minY {
			minY = v.Y
		}
		if v.Y > maxY {
			maxY = v.Y
		}
	}

	for y := minY; y <= maxY; y++ {
		var xs []float64
		for i := range verts {
			a, b := verts[i], verts[(i+1)%len(verts)]
			if a.Y == b.Y {
				continue
			}
			if (y >= a.Y) != (y >= b.Y) {
				t := float64(y-a.Y) / float64(b.Y-a.Y)
				xs = append(xs, float64(a.X)+t*float64(b.X-a.X))
			}
		}
		if len(xs) < 2 {
			continue
		}
		sortFloats(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := int(math.Ceil(xs[i])); x <= int(math.Floor(xs[i+1])); x++ {
				setPx(img, x, y, c)
			}
		}
	}
}

func sortFloats(xs []float64) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j] < xs[j-1]; j-- {
			xs[j], xs[j-1] = xs[j-1], xs[j]
		}
	}
}

func outlinePolygon(img *image.NRGBA, verts []PixelPoint, c color.NRGBA, r int) {
	for i := range verts {
		stampLine(img, verts[i], verts[(i+1)%len(verts)], r, c)
	}
}

// hatchPolygon draws diagonal hatch strokes across the polygon's
// bounding box, clipped to the interior by an even-odd test per pixel.
func hatchPolygon(img *image.NRGBA, verts []PixelPoint, c color.NRGBA, spacing int, cross bool) {
	if len(verts) < 3 || spacing <= 0 {
		return
	}

	minX, minY := verts[0].X, verts[0].Y
	maxX, maxY := minX, minY
	for _, v := range verts[1:] {
		if v.X < minX {
			minX = v.X
		}
		if v.X > maxX {
			maxX = v.X
		}
		if v.Y < minY {
			minY = v.Y
		}
		if v.Y > maxY {
			maxY = v.Y
		}
	}
	h := maxY - minY

	clipped := func(a, b PixelPoint) {
		dx, dy := b.X-a.X, b.Y-a.Y
		span := h
		if span < 1 {
			span = 1
		}
		steps := span * 3
		for i := 0; i <= steps; i++ {
			t := float64(i) / float64(steps)
			x := a.X + int(math.Round(t*float64(dx)))
			y := a.Y + int(math.Round(t*float64(dy)))
			if pointInPolygon(x, y, verts) {
				setPx(img, x, y, c)
			}
		}
	}

	for i := minX; i <= maxX+h; i += spacing {
		clipped(PixelPoint{X: i, Y: minY}, PixelPoint{X: i - h, Y: maxY})
		if cross {
			clipped(PixelPoint{X: i - h, Y: minY}, PixelPoint{X: i, Y: maxY})
		}
	}
}

func pointInPolygon(x, y int, verts []PixelPoint) bool {
	inside := false
	for i := range verts {
		a, b := verts[i], verts[(i+1)%len(verts)]
		if (a.Y > y) != (b.Y > y) {
			t := float64(y-a.Y) / float64(b.Y-a.Y)
			if float64(x) < float64(a.X)+t*float64(b.X-a.X) {
				inside = !inside
			}
		}
	}
	return inside
}

func fillCircle(img *image.NRGBA, cx, cy, r int, c color.NRGBA) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				setPx(img, cx+dx, cy+dy, c)
			}
		}
	}
}

func strokeCircle(img *image.NRGBA, cx, cy, r int, c color.NRGBA) {
	steps := 8 * r
	if steps < 16 {
		steps = 16
	}
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		setPx(img, cx+int(math.Round(float64(r)*math.Cos(a))), cy+int(math.Round(float64(r)*math.Sin(a))), c)
	}
}

// drawCharger marks the dock: a filled circle, a lightning bolt polyline
// through it, and an outer ring.
func drawCharger(img *image.NRGBA, at PixelPoint) {
	const radius = 6
	fillCircle(img, at.X, at.Y, radius, chargerFill)

	bolt := [5]PixelPoint{
		{at.X, at.Y - 4},
		{at.X - 2, at.Y - 1},
		{at.X, at.Y + 1},
		{at.X + 2, at.Y - 1},
		{at.X, at.Y + 4},
	}
	for i := 0; i+1 < len(bolt); i++ {
		stampLine(img, bolt[i], bolt[i+1], 0, chargerBolt)
	}

	strokeCircle(img, at.X, at.Y, radius+2, chargerRing)
}

// --- text ---

func drawString(img *image.NRGBA, text string, x, y int, face font.Face, c color.NRGBA) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// drawLabel draws text centered at the anchor with a light underdraw at
// four offsets so dark text stays readable over dark fills.
func drawLabel(img *image.NRGBA, text string, at PixelPoint, face font.Face) {
	width := font.MeasureString(face, text).Ceil()
	x := at.X - width/2
	y := at.Y + face.Metrics().Ascent.Ceil()/2

	for _, off := range [4][2]int{{0, 2}, {2, 0}, {0, -2}, {-2, 0}} {
		drawString(img, text, x+off[0], y+off[1], face, labelLight)
	}
	drawString(img, text, x, y, face, labelDark)
}

// RenderRegionLabels paints each segmented region's pixels in its own
// color over the base layer. Used for debug output only.
func RenderRegionLabels(g *OccupancyGrid, regions []Region) *image.NRGBA {
	img := RenderBase(g)
	colors := RoomColors(len(regions))
	for i, region := range regions {
		for _, p := range region.Pixels {
			setPx(img, p.X, p.Y, colors[i])
		}
	}
	return img
}

// DrawCaption writes a small caption in the bottom-left corner. The
// caller invokes this after orientation correction so the text reads
// normally in the final image.
func DrawCaption(img *image.NRGBA, text string, face font.Face) {
	if text == "" || face == nil {
		return
	}
	drawString(img, text, 10, img.Bounds().Dy()-8, face, captionGray)
}
