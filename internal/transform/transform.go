// Package transform computes Tokyo Datum to JGD2000 coordinate corrections
// by bilinear interpolation over the grid parameter table. A Transformer is
// a stateless view over an immutable table, so a single instance serves
// concurrent callers.
package transform

import (
	"github.com/mugwort-rc/TKY2JGD/internal/errors"
	"github.com/mugwort-rc/TKY2JGD/internal/mesh"
	"github.com/mugwort-rc/TKY2JGD/internal/par"
)

// Backward iteration bounds. The correction field is smooth enough that the
// fixed-point iteration converges in three or four passes; the cap only
// guards against a pathological table.
const (
	backwardTolerance = 1e-12
	backwardMaxIter   = 20
)

// Transformer resolves grid cells and interpolates corrections against a
// loaded parameter table. The table reference is non-owning and never
// mutated.
type Transformer struct {
	table *par.Table
}

// New returns a Transformer bound to table.
func New(table *par.Table) *Transformer {
	return &Transformer{table: table}
}

// interpolate evaluates bilinear interpolation on the unit cell given the
// four corner values (south-west, south-east, north-west, north-east) and
// the fractional position x (west-east) and y (south-north), both in [0, 1).
//
//	^
//	y|  nw   ne
//	 |
//	 |  sw   se  -> x
func interpolate(sw, se, nw, ne, x, y float64) float64 {
	a := sw
	b := se - sw
	c := nw - sw
	d := ne - se - nw + sw
	return a + b*x + c*y + d*x*y
}

// Correction returns the interpolated (dLat, dLon) shift in arcseconds for a
// Tokyo Datum point. If the point lies outside the mesh-defined window, or
// any of the four enclosing grid nodes has no parameter record, it returns a
// CoverageError; no default is ever substituted and the table stays valid
// for subsequent queries.
func (t *Transformer) Correction(lat, lon float64) (par.Shift, error) {
	cell, ok := mesh.FromLatLon(lat, lon)
	if !ok {
		return par.Shift{}, errors.NewCoverageError(lat, lon)
	}

	corners := cell.Code.Corners()
	var shifts [4]par.Shift
	for i, code := range corners {
		s, ok := t.table.Lookup(code.Key())
		if !ok {
			return par.Shift{}, errors.NewCoverageError(lat, lon)
		}
		shifts[i] = s
	}

	// dLat and dLon are interpolated identically and independently.
	return par.Shift{
		Lat: interpolate(shifts[0].Lat, shifts[1].Lat, shifts[2].Lat, shifts[3].Lat, cell.X, cell.Y),
		Lon: interpolate(shifts[0].Lon, shifts[1].Lon, shifts[2].Lon, shifts[3].Lon, cell.X, cell.Y),
	}, nil
}

// Forward converts a Tokyo Datum coordinate to JGD2000:
// result = (lat + dLat/3600, lon + dLon/3600).
func (t *Transformer) Forward(lat, lon float64) (float64, float64, error) {
	s, err := t.Correction(lat, lon)
	if err != nil {
		return 0, 0, err
	}
	return lat + s.Lat/3600, lon + s.Lon/3600, nil
}

// Backward converts a JGD2000 coordinate back to Tokyo Datum. The parameter
// grid is keyed by Tokyo Datum positions, so the inverse has no closed form;
// it is found by fixed-point iteration, re-evaluating the correction at each
// candidate source point until the forward image of the candidate matches
// the input to within backwardTolerance degrees.
func (t *Transformer) Backward(lat, lon float64) (float64, float64, error) {
	srcLat, srcLon := lat, lon
	for i := 0; i < backwardMaxIter; i++ {
		s, err := t.Correction(srcLat, srcLon)
		if err != nil {
			return 0, 0, err
		}
		nextLat := lat - s.Lat/3600
		nextLon := lon - s.Lon/3600
		dLat := nextLat - srcLat
		dLon := nextLon - srcLon
		srcLat, srcLon = nextLat, nextLon
		if dLat > -backwardTolerance && dLat < backwardTolerance &&
			dLon > -backwardTolerance && dLon < backwardTolerance {
			break
		}
	}
	return srcLat, srcLon, nil
}
