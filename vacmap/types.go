package vacmap

import "github.com/paulmach/orb"

// CellState classifies one occupancy grid cell.
type CellState uint8

const (
	CellUnknown CellState = iota
	CellFree
	CellObstacle
)

// Raw byte values used by the map dump. Anything else is an obstacle.
const (
	rawFree    = 0x00
	rawUnknown = 0x7F
)

// OccupancyGrid is the decoded map: a row-major grid of cell states plus
// the world-frame metadata needed to project coordinates onto it.
type OccupancyGrid struct {
	Width      int
	Height     int
	Resolution float64 // meters per pixel
	OriginX    float64 // world coordinate of pixel (0,0)
	OriginY    float64
	Cells      []CellState // row-major, len == Width*Height
}

// At returns the state of cell (x, y). Callers must stay in bounds.
func (g *OccupancyGrid) At(x, y int) CellState {
	return g.Cells[y*g.Width+x]
}

// Index returns the row-major index of cell (x, y).
func (g *OccupancyGrid) Index(x, y int) int {
	return y*g.Width + x
}

// InBounds reports whether (x, y) lies inside the grid.
func (g *OccupancyGrid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// WorldPoint is a position in the world frame (meters).
type WorldPoint struct {
	X float64
	Y float64
}

// PixelPoint is a position in the pixel frame.
type PixelPoint struct {
	X int
	Y int
}

// MapInfo carries the grid geometry from map_record.json.
type MapInfo struct {
	Width      int
	Height     int
	Resolution float64 // meters per pixel
	XMin       float64 // world origin
	YMin       float64
}

// ChargerPose is the dock position in the world frame. Unlike the polygon
// documents, the pose is already in meters. Heading is kept for callers
// that want to orient an icon; the renderer currently does not.
type ChargerPose struct {
	X       float64
	Y       float64
	Heading float64
}

// ZoneType distinguishes the two kinds of forbidden area.
type ZoneType string

const (
	ZoneNoGo  ZoneType = "no-go"
	ZoneNoMop ZoneType = "no-mop"
)

// ForbiddenZone is an avoid-area polygon. Vertices are in world
// centimeters, as delivered by area_info.json.
type ForbiddenZone struct {
	Vertices orb.Ring
	Type     ZoneType
}

// RoomArea is a named room polygon from area_info.json, also in world
// centimeters.
type RoomArea struct {
	ID       int
	Name     string
	Vertices orb.Ring
}

// AreaInfo groups the polygon metadata document.
type AreaInfo struct {
	Forbidden []ForbiddenZone
	Rooms     []RoomArea
}

// Region is a connected component of free space produced by segmentation.
// Regions are transient: they exist between the segmenter and the
// renderer and are not retained across conversions.
type Region struct {
	ID       int
	Pixels   []PixelPoint
	Boundary orb.Ring // simplified outline in the pixel frame
	Area     int      // cell count
}
