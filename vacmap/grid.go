package vacmap

// DecodeGrid interprets data as a row-major byte-per-cell occupancy grid.
// The slice must already start at the header-free offset; use ProbeFormat
// when the layout is not known. Byte values map to states as:
//
//	0x00 -> Free, 0x7F -> Unknown, anything else -> Obstacle
//
// The buffer length is checked before any classification; a short buffer
// yields an InsufficientDataError.
func DecodeGrid(data []byte, info MapInfo) (*OccupancyGrid, error) {
	need := info.Width * info.Height
	if info.Width <= 0 || info.Height <= 0 {
		return nil, &MalformedMetadataError{Doc: "map_record", Field: "width/height"}
	}
	if len(data) < need {
		return nil, &InsufficientDataError{Have: len(data), Need: need}
	}

	cells := make([]CellState, need)
	for i := 0; i < need; i++ {
		cells[i] = classifyCell(data[i])
	}

	return &OccupancyGrid{
		Width:      info.Width,
		Height:     info.Height,
		Resolution: info.Resolution,
		OriginX:    info.XMin,
		OriginY:    info.YMin,
		Cells:      cells,
	}, nil
}

func classifyCell(b byte) CellState {
	switch b {
	case rawFree:
		return CellFree
	case rawUnknown:
		return CellUnknown
	default:
		return CellObstacle
	}
}
