package vacmap

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image/png"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDump builds a headerless dump: a free square bordered by
// obstacles, sized w x h.
func testDump(w, h int) []byte {
	data := make([]byte, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				data = append(data, 0x01)
			} else {
				data = append(data, 0x00)
			}
		}
	}
	return data
}

func testConverter() *Converter {
	cfg := DefaultRenderConfig()
	cfg.MinRoomSize = 10
	return NewConverter(cfg)
}

func TestConvert_FullPipeline(t *testing.T) {
	c := testConverter()
	in := ConvertInput{
		GridData:  testDump(20, 15),
		Info:      MapInfo{Width: 20, Height: 15, Resolution: 0.05, XMin: 0, YMin: 0},
		Charger:   &ChargerPose{X: 0.5, Y: 0.4},
		Timestamp: "2026-08-29 12:00:00",
	}

	result, err := c.Convert(in)
	require.NoError(t, err)

	// Default 2x upscale of a 20x15 grid.
	img, err := png.Decode(bytes.NewReader(result.PNG))
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())

	decoded, err := base64.StdEncoding.DecodeString(result.Base64)
	require.NoError(t, err)
	assert.Equal(t, result.PNG, decoded)

	require.Len(t, result.Regions, 1)
	assert.Equal(t, 18*13, result.Regions[0].Area)

	require.NotNil(t, result.Grid)
	assert.Equal(t, 20, result.Grid.Width)
}

func TestConvert_HeaderlessFallback(t *testing.T) {
	c := testConverter()

	// A dump that fails every probe candidate (single distinct value)
	// still decodes from offset zero.
	data := make([]byte, 6*6)
	in := ConvertInput{
		GridData: data,
		Info:     MapInfo{Width: 6, Height: 6, Resolution: 0.05},
	}
	result, err := c.Convert(in)
	require.NoError(t, err)
	for _, cell := range result.Grid.Cells {
		assert.Equal(t, CellFree, cell)
	}
}

func TestConvert_InsufficientData(t *testing.T) {
	c := testConverter()
	in := ConvertInput{
		GridData: make([]byte, 10),
		Info:     MapInfo{Width: 50, Height: 50, Resolution: 0.05},
	}
	_, err := c.Convert(in)
	var insufficient *InsufficientDataError
	require.True(t, errors.As(err, &insufficient), "error = %v", err)
}

func TestConvert_RoomsSuppressSegmentation(t *testing.T) {
	c := testConverter()
	in := ConvertInput{
		GridData: testDump(20, 20),
		Info:     MapInfo{Width: 20, Height: 20, Resolution: 0.05},
		Areas: AreaInfo{
			Rooms: []RoomArea{
				{ID: 1, Name: "Studio", Vertices: orb.Ring{{0, 0}, {80, 0}, {80, 80}, {0, 80}, {0, 0}}},
			},
		},
	}
	result, err := c.Convert(in)
	require.NoError(t, err)

	// Segmentation still runs and is reported, but the overlay uses the
	// named rooms.
	assert.NotEmpty(t, result.Regions)
	assert.Empty(t, result.Overlays.Regions)
	require.Len(t, result.Overlays.Rooms, 1)
	assert.Equal(t, "Studio", result.Overlays.Rooms[0].Name)
}

func TestConvert_Deterministic(t *testing.T) {
	c := testConverter()
	in := ConvertInput{
		GridData:  testDump(16, 16),
		Info:      MapInfo{Width: 16, Height: 16, Resolution: 0.05},
		Charger:   &ChargerPose{X: 0.3, Y: 0.3},
		Timestamp: "2026-01-01 00:00:00",
	}

	first, err := c.Convert(in)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := c.Convert(in)
		require.NoError(t, err)
		assert.Equal(t, first.PNG, again.PNG, "run %d produced different bytes", i)
	}
}

func TestConvert_DebugImages(t *testing.T) {
	cfg := DefaultRenderConfig()
	cfg.Debug = true
	cfg.MinRoomSize = 10
	c := NewConverter(cfg)

	result, err := c.Convert(ConvertInput{
		GridData: testDump(12, 12),
		Info:     MapInfo{Width: 12, Height: 12, Resolution: 0.05},
	})
	require.NoError(t, err)
	require.Contains(t, result.Debug, "raw_grid")
	assert.Equal(t, 12, result.Debug["raw_grid"].Bounds().Dx())
	require.Contains(t, result.Debug, "segment_labels")
}

func TestConvert_NoTimestampNoCaption(t *testing.T) {
	c := testConverter()
	base := ConvertInput{
		GridData: testDump(16, 16),
		Info:     MapInfo{Width: 16, Height: 16, Resolution: 0.05},
	}

	without, err := c.Convert(base)
	require.NoError(t, err)

	withTS := base
	withTS.Timestamp = "2026-08-29 09:30:00"
	with, err := c.Convert(withTS)
	require.NoError(t, err)

	assert.NotEqual(t, without.PNG, with.PNG, "caption should change the output")
}
