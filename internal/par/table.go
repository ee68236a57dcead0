// Package par provides loading and lookup of GSI grid correction parameters
// (the TKY2JGD.par distribution format). The file carries a few lines of
// descriptive header followed by one record per third-order mesh node:
// an eight-digit mesh code and the latitude/longitude corrections in
// arcseconds, whitespace-delimited.
package par

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/mugwort-rc/TKY2JGD/internal/errors"
	"github.com/mugwort-rc/TKY2JGD/internal/mesh"
)

// Shift is the correction associated with one grid node: the offsets to add,
// in arcseconds, to a Tokyo Datum latitude and longitude to reach JGD2000.
type Shift struct {
	Lat float64
	Lon float64
}

// Table maps mesh-code keys to correction shifts. It is built by a single
// load and read-only afterwards, so concurrent lookups need no locking.
// Lookups return an explicit miss instead of a zero shift: near-zero
// corrections are meaningful data and must stay distinguishable from
// missing coverage.
type Table struct {
	shifts map[int]Shift
	bound  orb.Bound
}

// Len returns the number of grid nodes in the table.
func (t *Table) Len() int {
	return len(t.shifts)
}

// Lookup returns the shift for a mesh code key, and whether it is present.
func (t *Table) Lookup(key int) (Shift, bool) {
	s, ok := t.shifts[key]
	return s, ok
}

// Bound returns the geographic extent spanned by the loaded grid nodes.
// It is an envelope, not a coverage guarantee: the grid has holes over sea.
func (t *Table) Bound() orb.Bound {
	return t.bound
}

// Load parses parameter records from r, failing the whole load on the first
// malformed record. A partially populated grid would later surface as
// spurious coverage failures for unrelated points, so production loads are
// all-or-nothing.
func Load(r io.Reader, name string) (*Table, error) {
	return load(r, name, true)
}

// LoadLenient parses parameter records from r, skipping malformed records
// instead of aborting. Intended for salvaging a damaged file by hand, never
// for production use.
func LoadLenient(r io.Reader, name string) (*Table, error) {
	return load(r, name, false)
}

// LoadFile opens and strictly parses a parameter file. The handle is
// released on all exit paths, including parse failure.
func LoadFile(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapFileError(path, err)
	}
	defer file.Close()

	return Load(file, path)
}

// isRecord reports whether fields has the shape of a data record: exactly
// three columns led by an eight-digit mesh code. Header and footer prose
// never has this shape, which is how the loader tells descriptive lines
// apart from data without relying on a declared header length.
func isRecord(fields []string) bool {
	if len(fields) != 3 || len(fields[0]) != 8 {
		return false
	}
	for _, r := range fields[0] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func load(r io.Reader, name string, strict bool) (*Table, error) {
	table := &Table{shifts: make(map[int]Shift)}
	first := true

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if !isRecord(fields) {
			continue
		}

		key, err := strconv.Atoi(fields[0])
		if err != nil {
			if strict {
				return nil, errors.NewParameterError(name, lineNum, "invalid mesh code", err)
			}
			continue
		}
		dLat, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			if strict {
				return nil, errors.NewParameterError(name, lineNum, "invalid latitude correction", err)
			}
			continue
		}
		dLon, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			if strict {
				return nil, errors.NewParameterError(name, lineNum, "invalid longitude correction", err)
			}
			continue
		}

		// Duplicate mesh codes resolve last-write-wins, matching the
		// sequential-overwrite behaviour of the reference distribution.
		table.shifts[key] = Shift{Lat: dLat, Lon: dLon}

		sw := meshKeyCode(key).SouthWest()
		if first {
			table.bound = orb.Bound{Min: sw, Max: sw}
			first = false
		} else {
			table.bound = table.bound.Extend(sw)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewFileError(name, "read failed", err)
	}

	if table.Len() == 0 {
		return nil, errors.NewParameterError(name, lineNum, "no parameter records found", nil)
	}

	return table, nil
}

// meshKeyCode rebuilds a mesh.Code from its flat integer key.
func meshKeyCode(key int) mesh.Code {
	return mesh.Code{
		First:  key / 10000,
		Second: (key / 100) % 100,
		Third:  key % 100,
	}
}
