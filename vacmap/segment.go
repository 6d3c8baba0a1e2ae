package vacmap

import (
	"sort"

	"github.com/paulmach/orb"
)

// SegmentOptions tunes room segmentation. Zero values select the
// defaults.
type SegmentOptions struct {
	MinRoomSize    int     // smallest component kept by flood fill (default 100)
	MinLabelPixels int     // smallest label accepted from a segment channel (default 50)
	SimplifyFactor float64 // hull simplification strength in [0,1) (default 0.8)
}

func (o SegmentOptions) withDefaults() SegmentOptions {
	if o.MinRoomSize <= 0 {
		o.MinRoomSize = 100
	}
	if o.MinLabelPixels <= 0 {
		o.MinLabelPixels = 50
	}
	if o.SimplifyFactor <= 0 || o.SimplifyFactor >= 1 {
		o.SimplifyFactor = 0.8
	}
	return o
}

// Layouts observed for the auxiliary segment channel across robot models,
// tried in order before falling back to an offset scan.
var segmentLayouts = []struct {
	header      int
	columnMajor bool
}{
	{16, false},
	{20, false},
	{32, false},
	{16, true},
	{20, true},
	{0, false},
	{0, true},
}

// SegmentRooms labels the free space of a grid into rooms. When a segment
// channel is supplied and any of its known layouts yields usable labels,
// those labels are reused; otherwise the rooms are recomputed by flood
// fill over the grid itself.
func SegmentRooms(g *OccupancyGrid, segmentData []byte, opts SegmentOptions) []Region {
	opts = opts.withDefaults()
	if len(segmentData) > 0 {
		if regions, ok := parseSegmentChannel(segmentData, g.Width, g.Height, opts); ok {
			return regions
		}
	}
	return FloodFillRooms(g, opts)
}

// FloodFillRooms finds 4-connected components of Free cells. A visited
// arena sized to the grid guarantees each cell is processed at most once
// across the whole pass, regardless of seed order. Components smaller
// than MinRoomSize are discarded; survivors are sorted by descending
// area, ties keeping discovery order.
func FloodFillRooms(g *OccupancyGrid, opts SegmentOptions) []Region {
	opts = opts.withDefaults()
	visited := make([]bool, len(g.Cells))

	var regions []Region
	id := 0
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			idx := g.Index(x, y)
			if visited[idx] || g.Cells[idx] != CellFree {
				continue
			}
			pixels := fillFrom(g, x, y, visited)
			if len(pixels) < opts.MinRoomSize {
				continue
			}
			id++
			regions = append(regions, Region{ID: id, Pixels: pixels, Area: len(pixels)})
		}
	}

	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].Area > regions[j].Area
	})
	for i := range regions {
		regions[i].Boundary = RegionBoundary(regions[i].Pixels, opts.SimplifyFactor)
	}
	return regions
}

// fillFrom runs a breadth-first fill from (x, y) over 4-connected Free
// cells, marking the visited arena as it goes.
func fillFrom(g *OccupancyGrid, x, y int, visited []bool) []PixelPoint {
	start := g.Index(x, y)
	visited[start] = true
	queue := []int{start}
	pixels := []PixelPoint{{X: x, Y: y}}

	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		cx, cy := idx%g.Width, idx/g.Width

		for _, d := range [4][2]int{{0, 1}, {1, 0}, {0, -1}, {-1, 0}} {
			nx, ny := cx+d[0], cy+d[1]
			if !g.InBounds(nx, ny) {
				continue
			}
			n := g.Index(nx, ny)
			if visited[n] || g.Cells[n] != CellFree {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
			pixels = append(pixels, PixelPoint{X: nx, Y: ny})
		}
	}
	return pixels
}

// parseSegmentChannel tries to recover room labels from the auxiliary
// channel. It walks the known (header, order) layouts first, then scans
// offsets up to 1 KiB in 4-byte steps, accepting the first interpretation
// that yields at least one label above the minimum pixel count.
func parseSegmentChannel(data []byte, width, height int, opts SegmentOptions) ([]Region, bool) {
	need := width * height
	if need <= 0 || len(data) < need {
		return nil, false
	}

	for _, layout := range segmentLayouts {
		if layout.header+need > len(data) {
			continue
		}
		regions := labelRegions(data[layout.header:layout.header+need], width, height, layout.columnMajor, opts)
		if len(regions) > 0 {
			return regions, true
		}
	}

	// Some firmwares put the labels behind headers not in the known set.
	bound := len(data) - need
	if bound > 1024 {
		bound = 1024
	}
	for _, off := range ScanOffsets(bound, 4) {
		if _, err := ProbeFormat(data[off:], width, height, ProbeOptions{
			Offsets:     []int{0},
			Elems:       []ElemType{ElemUint8},
			MaxDistinct: 20,
		}); err != nil {
			continue
		}
		regions := labelRegions(data[off:off+need], width, height, false, opts)
		if len(regions) > 0 {
			return regions, true
		}
	}
	return nil, false
}

// labelRegions groups cells by label byte. Label 0 is background. An
// interpretation with no labels, or with 20 or more (noise rather than
// rooms), is rejected.
func labelRegions(raw []byte, width, height int, columnMajor bool, opts SegmentOptions) []Region {
	byLabel := make(map[byte][]PixelPoint)
	for i, b := range raw {
		if b == 0 {
			continue
		}
		var x, y int
		if columnMajor {
			x, y = i/height, i%height
		} else {
			x, y = i%width, i/width
		}
		byLabel[b] = append(byLabel[b], PixelPoint{X: x, Y: y})
	}
	if len(byLabel) == 0 || len(byLabel) >= 20 {
		return nil
	}

	labels := make([]int, 0, len(byLabel))
	for b := range byLabel {
		labels = append(labels, int(b))
	}
	sort.Ints(labels)

	var regions []Region
	for _, l := range labels {
		pixels := byLabel[byte(l)]
		if len(pixels) <= opts.MinLabelPixels {
			continue
		}
		regions = append(regions, Region{ID: l, Pixels: pixels, Area: len(pixels)})
	}
	if len(regions) == 0 {
		return nil
	}

	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].Area > regions[j].Area
	})
	for i := range regions {
		regions[i].Boundary = RegionBoundary(regions[i].Pixels, opts.SimplifyFactor)
	}
	return regions
}

// RegionBoundary approximates the outline of a pixel set in the pixel
// frame. Sparse sets (< 20 points) get their axis-aligned bounding box;
// anything larger gets a convex hull thinned by keeping every k-th
// vertex, k derived from the simplification factor.
func RegionBoundary(pixels []PixelPoint, simplifyFactor float64) orb.Ring {
	if len(pixels) == 0 {
		return nil
	}
	if len(pixels) < 20 {
		return boundingRing(pixels)
	}

	points := make([]orb.Point, len(pixels))
	for i, p := range pixels {
		points[i] = orb.Point{float64(p.X), float64(p.Y)}
	}
	hull := convexHull(points)

	if simplifyFactor > 0 && simplifyFactor < 1 && len(hull) > 10 {
		step := int(float64(len(hull)) * (1.0 - simplifyFactor))
		if step < 1 {
			step = 1
		}
		kept := make([]orb.Point, 0, len(hull)/step+1)
		for i := 0; i < len(hull); i += step {
			kept = append(kept, hull[i])
		}
		hull = kept
	}

	ring := orb.Ring(hull)
	if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}
	return ring
}

// boundingRing returns the closed axis-aligned bounding box of a pixel
// set.
func boundingRing(pixels []PixelPoint) orb.Ring {
	minX, minY := pixels[0].X, pixels[0].Y
	maxX, maxY := minX, minY
	for _, p := range pixels[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return orb.Ring{
		{float64(minX), float64(minY)},
		{float64(maxX), float64(minY)},
		{float64(maxX), float64(maxY)},
		{float64(minX), float64(maxY)},
		{float64(minX), float64(minY)},
	}
}

// convexHull computes the convex hull of a point set using the monotone
// chain algorithm. Returns points in counter-clockwise order.
func convexHull(points []orb.Point) []orb.Point {
	if len(points) < 3 {
		result := make([]orb.Point, len(points))
		copy(result, points)
		return result
	}

	sorted := make([]orb.Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i][0] != sorted[j][0] {
			return sorted[i][0] < sorted[j][0]
		}
		return sorted[i][1] < sorted[j][1]
	})

	cross := func(o, a, b orb.Point) float64 {
		return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
	}

	n := len(sorted)
	hull := make([]orb.Point, 0, 2*n)

	// Lower hull
	for _, p := range sorted {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	// Upper hull
	lower := len(hull) + 1
	for i := n - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	return hull[:len(hull)-1]
}
