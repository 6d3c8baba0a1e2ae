package vacmap

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
)

// ParseMapInfo parses map_record.json. All five fields are required and
// validated before any decode begins.
func ParseMapInfo(data []byte) (MapInfo, error) {
	var doc struct {
		Width      *int     `json:"width"`
		Height     *int     `json:"height"`
		Resolution *float64 `json:"resolution"`
		XMin       *float64 `json:"x_min"`
		YMin       *float64 `json:"y_min"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return MapInfo{}, fmt.Errorf("map_record: %w", err)
	}

	switch {
	case doc.Width == nil || *doc.Width <= 0:
		return MapInfo{}, &MalformedMetadataError{Doc: "map_record", Field: "width"}
	case doc.Height == nil || *doc.Height <= 0:
		return MapInfo{}, &MalformedMetadataError{Doc: "map_record", Field: "height"}
	case doc.Resolution == nil || *doc.Resolution <= 0:
		return MapInfo{}, &MalformedMetadataError{Doc: "map_record", Field: "resolution"}
	case doc.XMin == nil:
		return MapInfo{}, &MalformedMetadataError{Doc: "map_record", Field: "x_min"}
	case doc.YMin == nil:
		return MapInfo{}, &MalformedMetadataError{Doc: "map_record", Field: "y_min"}
	}

	return MapInfo{
		Width:      *doc.Width,
		Height:     *doc.Height,
		Resolution: *doc.Resolution,
		XMin:       *doc.XMin,
		YMin:       *doc.YMin,
	}, nil
}

// ParseChargerPose parses charger_pose.json. The pose is a two-element
// [x, y] array in meters; charger_phi is optional.
func ParseChargerPose(data []byte) (ChargerPose, error) {
	var doc struct {
		Pose []float64 `json:"charger_pose"`
		Phi  *float64  `json:"charger_phi"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return ChargerPose{}, fmt.Errorf("charger_pose: %w", err)
	}
	if len(doc.Pose) < 2 {
		return ChargerPose{}, &MalformedMetadataError{Doc: "charger_pose", Field: "charger_pose"}
	}

	pose := ChargerPose{X: doc.Pose[0], Y: doc.Pose[1]}
	if doc.Phi != nil {
		pose.Heading = *doc.Phi
	}
	return pose, nil
}

// ParseAreaInfo parses area_info.json: forbidden zones plus optional room
// polygons. Vertex coordinates are in world centimeters and are kept that
// way; the projection divides by 100 at draw time. Polygons with fewer
// than three vertices are kept here and skipped silently by the renderer.
func ParseAreaInfo(data []byte) (AreaInfo, error) {
	var doc struct {
		Forbid []struct {
			Vertexs    [][]float64 `json:"vertexs"`
			ForbidType string      `json:"forbidType"`
		} `json:"forbidAreaValue"`
		Areas []struct {
			Vertexs [][]float64 `json:"vertexs"`
			ID      *int        `json:"id"`
			Name    string      `json:"name"`
		} `json:"areaValue"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return AreaInfo{}, fmt.Errorf("area_info: %w", err)
	}

	var info AreaInfo
	for _, area := range doc.Forbid {
		ring, err := ringFromVertices(area.Vertexs)
		if err != nil {
			return AreaInfo{}, &MalformedMetadataError{Doc: "area_info", Field: "forbidAreaValue.vertexs"}
		}
		zone := ForbiddenZone{Vertices: ring, Type: ZoneNoGo}
		if area.ForbidType == "mop" {
			zone.Type = ZoneNoMop
		}
		info.Forbidden = append(info.Forbidden, zone)
	}

	for i, area := range doc.Areas {
		ring, err := ringFromVertices(area.Vertexs)
		if err != nil {
			return AreaInfo{}, &MalformedMetadataError{Doc: "area_info", Field: "areaValue.vertexs"}
		}
		id := i + 1
		if area.ID != nil {
			id = *area.ID
		}
		info.Rooms = append(info.Rooms, RoomArea{ID: id, Name: area.Name, Vertices: ring})
	}

	return info, nil
}

// ringFromVertices converts [[x, y], ...] pairs to an orb.Ring, closing
// it when it has enough vertices to enclose area.
func ringFromVertices(vertices [][]float64) (orb.Ring, error) {
	ring := make(orb.Ring, 0, len(vertices)+1)
	for _, v := range vertices {
		if len(v) < 2 {
			return nil, fmt.Errorf("vertex with %d coordinates", len(v))
		}
		ring = append(ring, orb.Point{v[0], v[1]})
	}
	if len(ring) >= 3 && ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}
	return ring, nil
}
