package vacmap

import (
	"bytes"
	"image"
	"testing"

	"github.com/paulmach/orb"
	"golang.org/x/image/font/basicfont"
)

// openGrid returns a fully free grid with world origin at (0, 0).
func openGrid(w, h int) *OccupancyGrid {
	cells := make([]CellState, w*h)
	for i := range cells {
		cells[i] = CellFree
	}
	return &OccupancyGrid{Width: w, Height: h, Resolution: 0.05, Cells: cells}
}

func TestRenderBase(t *testing.T) {
	g := makeGrid(t, []string{
		".#",
		"?.",
	})
	img := RenderBase(g)

	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Fatalf("bounds = %v, want 2x2", img.Bounds())
	}
	if got := img.NRGBAAt(0, 0); got != colorFree {
		t.Errorf("free cell = %v, want %v", got, colorFree)
	}
	if got := img.NRGBAAt(1, 0); got != colorObstacle {
		t.Errorf("obstacle cell = %v, want %v", got, colorObstacle)
	}
	if got := img.NRGBAAt(0, 1); got != colorUnknown {
		t.Errorf("unknown cell = %v, want %v", got, colorUnknown)
	}
}

func TestRenderMap_ForbiddenZoneTint(t *testing.T) {
	g := openGrid(40, 40)
	cfg := DefaultRenderConfig()

	// 50x50 cm zone starting at the world origin: cells 0..9 each axis.
	zone := ForbiddenZone{
		Type:     ZoneNoGo,
		Vertices: orb.Ring{{0, 0}, {50, 0}, {50, 50}, {0, 50}, {0, 0}},
	}
	img := RenderMap(g, Overlays{Zones: []ForbiddenZone{zone}}, cfg, nil)

	inside := img.NRGBAAt(5, 5)
	outside := img.NRGBAAt(30, 30)
	if inside == outside {
		t.Error("zone interior not tinted")
	}
	if outside != colorFree {
		t.Errorf("outside zone = %v, want untouched free color", outside)
	}
	// The tint must lean red.
	if inside.R <= inside.B {
		t.Errorf("no-go tint = %v, want red-dominant", inside)
	}
}

func TestRenderMap_OffCanvasZoneIgnored(t *testing.T) {
	g := openGrid(20, 20)
	cfg := DefaultRenderConfig()

	baseline := RenderMap(g, Overlays{}, cfg, nil)

	// Entirely outside the 1m x 1m canvas.
	zone := ForbiddenZone{
		Type:     ZoneNoGo,
		Vertices: orb.Ring{{500, 500}, {600, 500}, {600, 600}, {500, 600}, {500, 500}},
	}
	withZone := RenderMap(g, Overlays{Zones: []ForbiddenZone{zone}}, cfg, nil)

	if !bytes.Equal(baseline.Pix, withZone.Pix) {
		t.Error("off-canvas zone changed the output")
	}
}

func TestRenderMap_DegeneratePolygonSkipped(t *testing.T) {
	g := openGrid(20, 20)
	cfg := DefaultRenderConfig()

	baseline := RenderMap(g, Overlays{}, cfg, nil)
	withLine := RenderMap(g, Overlays{
		Rooms: []RoomArea{{ID: 1, Vertices: orb.Ring{{0, 0}, {50, 50}}}},
	}, cfg, basicfont.Face7x13)

	if !bytes.Equal(baseline.Pix, withLine.Pix) {
		t.Error("two-vertex polygon changed the output")
	}
}

func TestRenderMap_ChargerVisible(t *testing.T) {
	g := openGrid(40, 40)
	cfg := DefaultRenderConfig()

	charger := &ChargerPose{X: 1.0, Y: 1.0} // cell (20, 20)
	img := RenderMap(g, Overlays{Charger: charger}, cfg, nil)

	center := img.NRGBAAt(20, 20)
	if center == colorFree {
		t.Error("charger center not drawn")
	}
}

func TestRenderMap_Deterministic(t *testing.T) {
	g := openGrid(30, 30)
	cfg := DefaultRenderConfig()
	ov := Overlays{
		Rooms: []RoomArea{
			{ID: 1, Name: "Hall", Vertices: orb.Ring{{0, 0}, {70, 0}, {70, 70}, {0, 70}, {0, 0}}},
		},
		Charger: &ChargerPose{X: 0.5, Y: 0.5},
	}

	first := RenderMap(g, ov, cfg, basicfont.Face7x13)
	for i := 0; i < 3; i++ {
		again := RenderMap(g, ov, cfg, basicfont.Face7x13)
		if !bytes.Equal(first.Pix, again.Pix) {
			t.Fatalf("render %d differs from first", i)
		}
	}
}

func TestRoomColors(t *testing.T) {
	colors := RoomColors(8)
	if len(colors) != 8 {
		t.Fatalf("len = %d, want 8", len(colors))
	}
	for i := range roomPalette {
		if colors[i] != roomPalette[i] {
			t.Errorf("colors[%d] = %v, want palette color %v", i, colors[i], roomPalette[i])
		}
	}
	seen := make(map[[4]uint8]bool)
	for _, c := range colors {
		key := [4]uint8{c.R, c.G, c.B, c.A}
		if seen[key] {
			t.Errorf("duplicate color %v", c)
		}
		seen[key] = true
	}
}

func TestFillPolygon_StaysInside(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	verts := []PixelPoint{{2, 2}, {7, 2}, {7, 7}, {2, 7}}
	fillPolygon(img, verts, colorObstacle)

	if img.NRGBAAt(4, 4) != colorObstacle {
		t.Error("interior not filled")
	}
	if img.NRGBAAt(0, 0).A != 0 || img.NRGBAAt(9, 9).A != 0 {
		t.Error("fill leaked outside polygon")
	}
}

func TestSetPx_OutOfBoundsSilent(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	// Must not panic.
	setPx(img, -1, 0, colorFree)
	setPx(img, 0, -1, colorFree)
	setPx(img, 4, 0, colorFree)
	setPx(img, 100, 100, colorFree)
}

func TestDrawCaption(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 200, 50))
	DrawCaption(img, "Generated: 2026-08-29 12:00:00", basicfont.Face7x13)

	touched := false
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			touched = true
			break
		}
	}
	if !touched {
		t.Error("caption drew nothing")
	}

	// Empty text and nil face are no-ops.
	blank := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	DrawCaption(blank, "", basicfont.Face7x13)
	DrawCaption(blank, "x", nil)
	for i := 3; i < len(blank.Pix); i += 4 {
		if blank.Pix[i] != 0 {
			t.Fatal("no-op caption modified the image")
		}
	}
}

func TestLabelAnchor(t *testing.T) {
	anchor, ok := labelAnchor([]PixelPoint{{0, 0}, {10, 0}, {10, 10}, {0, 10}})
	if !ok {
		t.Fatal("labelAnchor() not ok")
	}
	if anchor.X != 5 || anchor.Y != 5 {
		t.Errorf("anchor = %v, want {5 5}", anchor)
	}

	// Collinear points have no area; falls back to the vertex mean.
	anchor, ok = labelAnchor([]PixelPoint{{0, 0}, {4, 0}, {8, 0}})
	if !ok {
		t.Fatal("labelAnchor() not ok for degenerate polygon")
	}
	if anchor.X != 4 || anchor.Y != 0 {
		t.Errorf("anchor = %v, want {4 0}", anchor)
	}

	if _, ok := labelAnchor(nil); ok {
		t.Error("labelAnchor(nil) ok = true, want false")
	}
}
