package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromLatLonKnownCells(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lon     float64
		wantKey int
		wantX   float64
		wantY   float64
	}{
		{
			name:    "Tsukuba reference point",
			lat:     36.103774791666666,
			lon:     140.08785504166664,
			wantKey: 54401027,
			wantX:   0.02840333333142553,
			wantY:   0.45297500000015134,
		},
		{
			name:    "Tokyo station",
			lat:     35.65809922,
			lon:     139.74135746,
			wantKey: 53393589,
			wantX:   0.3085967999991226,
			wantY:   0.9719064000000799,
		},
		{
			name:    "south-west cell corner",
			lat:     33.0,
			lon:     131.5,
			wantKey: 49314400,
			wantX:   0.0,
			wantY:   0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell, ok := FromLatLon(tt.lat, tt.lon)
			require.True(t, ok)
			assert.Equal(t, tt.wantKey, cell.Code.Key())
			assert.InDelta(t, tt.wantX, cell.X, 1e-9)
			assert.InDelta(t, tt.wantY, cell.Y, 1e-9)
		})
	}
}

// The truncation nudge exists so that a longitude such as 138.45, which sits
// exactly on a third-mesh boundary, resolves to the cell east of the
// boundary rather than rounding down into the western one.
func TestFromLatLonBoundaryNudge(t *testing.T) {
	cell, ok := FromLatLon(36.0, 138.45)
	require.True(t, ok)
	assert.Equal(t, 54380306, cell.Code.Key())
	assert.InDelta(t, 0.0, cell.X, 1e-9)
}

// A latitude like 36.0833333333333 used to push the third digit to 10 via
// the nudge; the decimal carry must roll it into the second digit instead.
func TestFromLatLonCarry(t *testing.T) {
	cell, ok := FromLatLon(36.0833333333333, 140.0)
	require.True(t, ok)
	assert.Equal(t, 54401000, cell.Code.Key())
	assert.InDelta(t, 0.0, cell.Y, 1e-9)
}

func TestFromLatLonOutsideWindow(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		lon  float64
	}{
		{"south of window", 19.9, 135.0},
		{"north of window", 46.1, 135.0},
		{"west of window", 35.0, 119.9},
		{"east of window", 35.0, 154.1},
		{"southern hemisphere", -35.0, 139.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := FromLatLon(tt.lat, tt.lon)
			assert.False(t, ok)
		})
	}
}

func TestNeighbors(t *testing.T) {
	tests := []struct {
		name      string
		code      Code
		wantEast  int
		wantNorth int
		wantNE    int
	}{
		{
			name:      "interior cell",
			code:      Code{First: 5440, Second: 10, Third: 27},
			wantEast:  54401028,
			wantNorth: 54401037,
			wantNE:    54401038,
		},
		{
			name:      "third digit carry",
			code:      Code{First: 5440, Second: 10, Third: 99},
			wantEast:  54401190,
			wantNorth: 54402009,
			wantNE:    54402100,
		},
		{
			name:      "carry across first mesh",
			code:      Code{First: 5440, Second: 77, Third: 99},
			wantEast:  54417090,
			wantNorth: 55400709,
			wantNE:    55410000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantEast, tt.code.East().Key())
			assert.Equal(t, tt.wantNorth, tt.code.North().Key())
			assert.Equal(t, tt.wantNE, tt.code.NorthEast().Key())
		})
	}
}

func TestCorners(t *testing.T) {
	code := Code{First: 5440, Second: 10, Third: 27}
	corners := code.Corners()

	want := [4]int{54401027, 54401028, 54401037, 54401038}
	for i, c := range corners {
		assert.Equal(t, want[i], c.Key())
	}
}

func TestSouthWestRoundTrip(t *testing.T) {
	codes := []Code{
		{First: 5440, Second: 10, Third: 27},
		{First: 5339, Second: 35, Third: 89},
		{First: 4931, Second: 44, Third: 0},
	}

	for _, code := range codes {
		sw := code.SouthWest()
		cell, ok := FromLatLon(sw.Lat(), sw.Lon())
		require.True(t, ok, "code %s", code)
		assert.Equal(t, code.Key(), cell.Code.Key(), "code %s", code)
		assert.InDelta(t, 0.0, cell.X, 1e-9)
		assert.InDelta(t, 0.0, cell.Y, 1e-9)
	}
}

func TestCodeString(t *testing.T) {
	code := Code{First: 5440, Second: 10, Third: 27}
	assert.Equal(t, "5440-10-27", code.String())
	assert.Equal(t, 54401027, code.Key())
}

func TestCellBound(t *testing.T) {
	code := Code{First: 5440, Second: 10, Third: 27}
	b := code.Bound()

	assert.InDelta(t, 36.1, b.Min.Lat(), 1e-9)
	assert.InDelta(t, 140.0875, b.Min.Lon(), 1e-9)
	assert.InDelta(t, 36.1+LatStep, b.Max.Lat(), 1e-9)
	assert.InDelta(t, 140.0875+LonStep, b.Max.Lon(), 1e-9)
}
