package vacmap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMapInfo(t *testing.T) {
	info, err := ParseMapInfo([]byte(`{
		"width": 120,
		"height": 80,
		"resolution": 0.05,
		"x_min": -3.0,
		"y_min": -2.0
	}`))
	require.NoError(t, err)
	assert.Equal(t, 120, info.Width)
	assert.Equal(t, 80, info.Height)
	assert.Equal(t, 0.05, info.Resolution)
	assert.Equal(t, -3.0, info.XMin)
	assert.Equal(t, -2.0, info.YMin)
}

func TestParseMapInfo_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		json      string
		wantField string
	}{
		{"missing width", `{"height":80,"resolution":0.05,"x_min":0,"y_min":0}`, "width"},
		{"zero height", `{"width":120,"height":0,"resolution":0.05,"x_min":0,"y_min":0}`, "height"},
		{"negative resolution", `{"width":120,"height":80,"resolution":-0.05,"x_min":0,"y_min":0}`, "resolution"},
		{"missing origin", `{"width":120,"height":80,"resolution":0.05,"y_min":0}`, "x_min"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMapInfo([]byte(tt.json))
			var malformed *MalformedMetadataError
			require.True(t, errors.As(err, &malformed), "error = %v", err)
			assert.Equal(t, tt.wantField, malformed.Field)
		})
	}
}

func TestParseMapInfo_BadJSON(t *testing.T) {
	_, err := ParseMapInfo([]byte(`{not json`))
	assert.Error(t, err)
}

func TestParseChargerPose(t *testing.T) {
	pose, err := ParseChargerPose([]byte(`{"charger_pose": [1.5, -0.7], "charger_phi": 1.57}`))
	require.NoError(t, err)
	assert.Equal(t, 1.5, pose.X)
	assert.Equal(t, -0.7, pose.Y)
	assert.Equal(t, 1.57, pose.Heading)

	pose, err = ParseChargerPose([]byte(`{"charger_pose": [0.2, 0.3]}`))
	require.NoError(t, err)
	assert.Zero(t, pose.Heading)
}

func TestParseChargerPose_Invalid(t *testing.T) {
	_, err := ParseChargerPose([]byte(`{"charger_pose": [1.5]}`))
	var malformed *MalformedMetadataError
	require.True(t, errors.As(err, &malformed), "error = %v", err)
	assert.Equal(t, "charger_pose", malformed.Doc)
}

func TestParseAreaInfo(t *testing.T) {
	info, err := ParseAreaInfo([]byte(`{
		"forbidAreaValue": [
			{"vertexs": [[0,0],[100,0],[100,100],[0,100]], "forbidType": "sweep"},
			{"vertexs": [[200,200],[300,200],[300,300]], "forbidType": "mop"}
		],
		"areaValue": [
			{"vertexs": [[0,0],[500,0],[500,400],[0,400]], "id": 7, "name": "Kitchen"},
			{"vertexs": [[600,0],[900,0],[900,400]]}
		]
	}`))
	require.NoError(t, err)

	require.Len(t, info.Forbidden, 2)
	assert.Equal(t, ZoneNoGo, info.Forbidden[0].Type)
	assert.Equal(t, ZoneNoMop, info.Forbidden[1].Type)
	// Four vertices plus the closing one.
	assert.Len(t, info.Forbidden[0].Vertices, 5)

	require.Len(t, info.Rooms, 2)
	assert.Equal(t, 7, info.Rooms[0].ID)
	assert.Equal(t, "Kitchen", info.Rooms[0].Name)
	// Unnamed room defaults to its position in the document.
	assert.Equal(t, 2, info.Rooms[1].ID)
	assert.Empty(t, info.Rooms[1].Name)
}

func TestParseAreaInfo_DegeneratePolygonKept(t *testing.T) {
	// Polygons with fewer than three vertices parse fine; the renderer
	// skips them at draw time.
	info, err := ParseAreaInfo([]byte(`{
		"forbidAreaValue": [{"vertexs": [[0,0],[100,100]], "forbidType": "sweep"}]
	}`))
	require.NoError(t, err)
	require.Len(t, info.Forbidden, 1)
	assert.Len(t, info.Forbidden[0].Vertices, 2)
}

func TestParseAreaInfo_BadVertex(t *testing.T) {
	_, err := ParseAreaInfo([]byte(`{
		"forbidAreaValue": [{"vertexs": [[0],[100,100],[0,100]], "forbidType": "sweep"}]
	}`))
	var malformed *MalformedMetadataError
	require.True(t, errors.As(err, &malformed), "error = %v", err)
}

func TestParseAreaInfo_Empty(t *testing.T) {
	info, err := ParseAreaInfo([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, info.Forbidden)
	assert.Empty(t, info.Rooms)
}
