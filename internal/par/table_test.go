package par

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mugwort-rc/TKY2JGD/internal/errors"
)

const sampleParContent = `JGD2000-TokyoDatum Ver.2.1.2
MeshCode   dB(sec)   dL(sec)
46303582   13.00298  -8.77889
46303583   13.00098  -8.78908
46303584   12.99936  -8.79966
`

func TestLoadSkipsHeader(t *testing.T) {
	table, err := Load(strings.NewReader(sampleParContent), "test.par")
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	s, ok := table.Lookup(46303582)
	require.True(t, ok)
	assert.Equal(t, 13.00298, s.Lat)
	assert.Equal(t, -8.77889, s.Lon)
}

func TestLoadRejectsMalformedRecord(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "non-numeric latitude correction",
			input: "46303582   abc  -8.77889\n",
		},
		{
			name:  "non-numeric longitude correction",
			input: "46303582   13.00298  xyz\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(sampleParContent+tt.input), "test.par")
			require.Error(t, err)

			var perr *errors.ParameterError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, 6, perr.Line)
		})
	}
}

func TestLoadLenientSkipsMalformedRecord(t *testing.T) {
	input := sampleParContent + "46303585   bad  -8.80000\n"

	table, err := LoadLenient(strings.NewReader(input), "test.par")
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	_, ok := table.Lookup(46303585)
	assert.False(t, ok)
}

func TestLoadDuplicateLastWins(t *testing.T) {
	input := sampleParContent + "46303582   99.00000  -99.00000\n"

	table, err := Load(strings.NewReader(input), "test.par")
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	s, ok := table.Lookup(46303582)
	require.True(t, ok)
	assert.Equal(t, 99.0, s.Lat)
	assert.Equal(t, -99.0, s.Lon)
}

func TestLoadEmptySource(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty file", ""},
		{"header only", "JGD2000-TokyoDatum Ver.2.1.2\nMeshCode   dB(sec)   dL(sec)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.input), "test.par")
			require.Error(t, err)

			var perr *errors.ParameterError
			assert.ErrorAs(t, err, &perr)
		})
	}
}

func TestLookupMissReportsNotFound(t *testing.T) {
	table, err := Load(strings.NewReader(sampleParContent), "test.par")
	require.NoError(t, err)

	// A miss must be reported as such, never as a zero shift.
	s, ok := table.Lookup(54401027)
	assert.False(t, ok)
	assert.Equal(t, Shift{}, s)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "TKY2JGD.par")
	require.NoError(t, os.WriteFile(path, []byte(sampleParContent), 0o644))

	table, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.par"))
	require.Error(t, err)

	var ferr *errors.FileNotFoundError
	assert.ErrorAs(t, err, &ferr)
}

func TestBoundCoversLoadedNodes(t *testing.T) {
	table, err := Load(strings.NewReader(sampleParContent), "test.par")
	require.NoError(t, err)

	b := table.Bound()
	// 4630-35-82 through 4630-35-84 share a row: lat 30.9833, lon 130.65..130.675.
	assert.InDelta(t, 30.983333333333333, b.Min.Lat(), 1e-9)
	assert.InDelta(t, 30.983333333333333, b.Max.Lat(), 1e-9)
	assert.InDelta(t, 130.65, b.Min.Lon(), 1e-9)
	assert.InDelta(t, 130.675, b.Max.Lon(), 1e-9)
}
