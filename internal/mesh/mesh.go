// Package mesh implements the JIS X 0410 standard area mesh indexing that
// underlies the GSI grid correction parameters. A third-order mesh cell spans
// 30 seconds of latitude by 45 seconds of longitude; each cell is identified
// by an eight-digit code built from the first, second and third mesh digits.
// The encoding here must stay bit-exact with the convention used by the
// TKY2JGD.par distribution, or no record would ever resolve.
package mesh

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Standard area mesh codes are only defined over this latitude/longitude
// window. Points outside it have no correction parameters anywhere, so cell
// resolution rejects them up front instead of deriving a meaningless code.
const (
	MinLat = 20.0
	MaxLat = 46.0
	MinLon = 120.0
	MaxLon = 154.0
)

// Third-order mesh spacing in decimal degrees. The national mesh is
// anisotropic: 30 arcseconds of latitude, 45 arcseconds of longitude.
const (
	LatStep = 30.0 / 3600.0
	LonStep = 45.0 / 3600.0
)

// Code identifies a third-order mesh cell (equivalently, its south-west
// grid node). The three components are the first mesh code (four digits),
// second mesh code (two digits) and third mesh code (two digits).
type Code struct {
	First  int
	Second int
	Third  int
}

// Cell is a resolved mesh cell for a query point: the cell's Code plus the
// point's fractional position inside the cell, both in [0, 1). X runs
// west-to-east, Y runs south-to-north.
type Cell struct {
	Code Code
	X    float64
	Y    float64
}

// Key returns the flat integer encoding first*10000 + second*100 + third.
// This matches the identifier column of the parameter file.
func (c Code) Key() int {
	return c.First*10000 + c.Second*100 + c.Third
}

// String renders the code in the conventional dashed form, e.g. "5440-10-27".
func (c Code) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", c.First, c.Second, c.Third)
}

// SouthWest returns the geographic position of the cell's south-west corner
// as an orb.Point (longitude first, per the orb convention).
func (c Code) SouthWest() orb.Point {
	lat1 := c.First / 100
	lon1 := c.First % 100
	lat2 := c.Second / 10
	lon2 := c.Second % 10
	lat3 := c.Third / 10
	lon3 := c.Third % 10

	lat := float64(lat1)/1.5 + float64(lat2)*LatStep*10 + float64(lat3)*LatStep
	lon := 100.0 + float64(lon1) + float64(lon2)*LonStep*10 + float64(lon3)*LonStep
	return orb.Point{lon, lat}
}

// Bound returns the geographic extent of the cell.
func (c Code) Bound() orb.Bound {
	sw := c.SouthWest()
	return orb.Bound{
		Min: sw,
		Max: orb.Point{sw.Lon() + LonStep, sw.Lat() + LatStep},
	}
}

// Contains reports whether the point lies inside the mesh-defined window.
func Contains(lat, lon float64) bool {
	return lat >= MinLat && lat <= MaxLat && lon >= MinLon && lon <= MaxLon
}

// FromLatLon resolves the third-order mesh cell containing the given point
// and the point's fractional offsets from the cell's south-west corner.
// A point exactly on a cell boundary belongs to the cell north/east of it.
//
// The digit extraction reproduces the reference convention exactly,
// including the tiny nudge added before truncation so that a longitude such
// as 138.45 lands in third digit 6 rather than 5, and the decimal carry
// applied when that nudge pushes a third digit to 10.
func FromLatLon(lat, lon float64) (Cell, bool) {
	if !Contains(lat, lon) {
		return Cell{}, false
	}

	lat1 := math.Trunc(lat * 1.5)
	lon1 := math.Trunc(lon) - 100

	lat2 := math.Trunc(8.0 * (1.5*lat - lat1))
	lon2 := math.Trunc(8.0 * (lon - (lon1 + 100)))

	lat3 := math.Trunc(10.0*(12.0*lat-8.0*lat1-lat2) + 0.00000000001)
	lon3 := math.Trunc(10.0*(8.0*(lon-(lon1+100))-lon2) + 0.00000000001)

	// The nudge can round an on-boundary third digit up to 10; carry it
	// into the second (and if needed first) digit rather than dropping it.
	if lat3 == 10 {
		lat2++
		lat3 = 0
		if lat2 == 8 {
			lat1++
			lat2 = 0
		}
	}
	if lon3 == 10 {
		lon2++
		lon3 = 0
		if lon2 == 8 {
			lon1++
			lon2 = 0
		}
	}

	// Remainder past the south-west corner, as a fraction of the cell size.
	y := 120.0*lat - 80.0*lat1 - 10*lat2 - lat3
	x := 80.0*(lon-(lon1+100)) - 10*lon2 - lon3

	return Cell{
		Code: Code{
			First:  int(lat1*100 + lon1),
			Second: int(lat2*10 + lon2),
			Third:  int(lat3*10 + lon3),
		},
		X: x,
		Y: y,
	}, true
}

func (c Code) digits() (lat1, lon1, lat2, lon2, lat3, lon3 int) {
	return c.First / 100, c.First % 100,
		c.Second / 10, c.Second % 10,
		c.Third / 10, c.Third % 10
}

// East returns the code of the cell immediately east of c.
func (c Code) East() Code {
	lat1, lon1, lat2, lon2, lat3, lon3 := c.digits()
	if lon3 != 9 {
		lon3++
	} else {
		lon3 = 0
		if lon2 != 7 {
			lon2++
		} else {
			lon2 = 0
			lon1++
		}
	}
	return Code{
		First:  lat1*100 + lon1,
		Second: lat2*10 + lon2,
		Third:  lat3*10 + lon3,
	}
}

// North returns the code of the cell immediately north of c.
func (c Code) North() Code {
	lat1, lon1, lat2, lon2, lat3, lon3 := c.digits()
	if lat3 != 9 {
		lat3++
	} else {
		lat3 = 0
		if lat2 != 7 {
			lat2++
		} else {
			lat2 = 0
			lat1++
		}
	}
	return Code{
		First:  lat1*100 + lon1,
		Second: lat2*10 + lon2,
		Third:  lat3*10 + lon3,
	}
}

// NorthEast returns the code of the cell diagonally north-east of c.
func (c Code) NorthEast() Code {
	return c.North().East()
}

// Corners returns the four grid-node codes bounding the cell that c is the
// south-west node of: south-west, south-east, north-west, north-east.
func (c Code) Corners() [4]Code {
	return [4]Code{c, c.East(), c.North(), c.NorthEast()}
}
