package vacmap

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/font"
)

// ConvertInput bundles everything one conversion needs. SegmentData,
// Charger and Areas are optional; Timestamp, when non-empty, is stamped
// into the caption so callers control it (and tests stay deterministic).
type ConvertInput struct {
	GridData    []byte
	SegmentData []byte
	Info        MapInfo
	Charger     *ChargerPose
	Areas       AreaInfo
	Timestamp   string
}

// ConvertResult is the output of one successful conversion. Grid and
// Overlays are retained so callers can derive secondary artifacts (the
// SVG export, debug dumps) without re-decoding.
type ConvertResult struct {
	PNG      []byte
	Base64   string
	Regions  []Region
	Grid     *OccupancyGrid
	Overlays Overlays
	Debug    map[string]image.Image
}

// Converter turns raw map dumps into rendered images. The zero value is
// not usable; construct with NewConverter.
type Converter struct {
	Config RenderConfig
	Face   font.Face
}

// NewConverter builds a converter, loading the label font once up front.
func NewConverter(cfg RenderConfig) *Converter {
	return &Converter{
		Config: cfg,
		Face:   LoadFace(cfg.FontPaths, cfg.FontSize),
	}
}

// Convert runs the full pipeline: probe, decode, segment, render,
// orient, caption, upscale, encode. It is a pure function of its input;
// any failure returns before anything is produced, so callers never see
// a partial result.
func (c *Converter) Convert(in ConvertInput) (*ConvertResult, error) {
	gridBytes, err := c.locateGrid(in)
	if err != nil {
		return nil, err
	}

	grid, err := DecodeGrid(gridBytes, in.Info)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	opts := SegmentOptions{
		MinRoomSize:    c.Config.MinRoomSize,
		MinLabelPixels: c.Config.MinLabelPixels,
	}
	regions := SegmentRooms(grid, in.SegmentData, opts)

	ov := Overlays{
		Rooms:   in.Areas.Rooms,
		Zones:   in.Areas.Forbidden,
		Charger: in.Charger,
	}
	if len(ov.Rooms) == 0 {
		ov.Regions = regions
	}

	img := RenderMap(grid, ov, c.Config, c.Face)
	img = CorrectOrientation(img)
	if in.Timestamp != "" {
		DrawCaption(img, "Generated: "+in.Timestamp, c.Face)
	}
	img = Upscale(img, c.Config.Upscale)

	pngData, err := EncodePNG(img)
	if err != nil {
		return nil, err
	}

	result := &ConvertResult{
		PNG:      pngData,
		Base64:   EncodeBase64(pngData),
		Regions:  regions,
		Grid:     grid,
		Overlays: ov,
	}
	if c.Config.Debug {
		result.Debug = map[string]image.Image{
			"raw_grid": RenderBase(grid),
		}
		if len(regions) > 0 {
			result.Debug["segment_labels"] = RenderRegionLabels(grid, regions)
		}
	}
	return result, nil
}

// locateGrid finds the occupancy bytes inside the raw dump. The map
// channel is byte-per-cell in every dump seen so far, so only uint8 is
// probed; when no candidate layout passes, the dump is assumed
// headerless and decoded from offset zero, which surfaces a proper
// error from DecodeGrid when even that cannot work.
func (c *Converter) locateGrid(in ConvertInput) ([]byte, error) {
	res, err := ProbeFormat(in.GridData, in.Info.Width, in.Info.Height, ProbeOptions{
		Elems: []ElemType{ElemUint8},
	})
	if err != nil {
		if errors.Is(err, ErrFormatNotFound) {
			return in.GridData, nil
		}
		return nil, err
	}
	return res.GridBytes(in.GridData, in.Info.Width, in.Info.Height), nil
}
