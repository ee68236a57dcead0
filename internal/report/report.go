// Package report provides result output and summary reporting for conversion
// runs. It supports multiple output formats (text, CSV, JSON) and tracks
// aggregate statistics, so long batch runs end with an accounting of what
// converted and what fell outside grid coverage.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/mugwort-rc/TKY2JGD/internal/batch"
	"github.com/mugwort-rc/TKY2JGD/internal/config"
	"github.com/mugwort-rc/TKY2JGD/internal/errors"
)

// OutsideSentinel is printed in place of a converted coordinate for points
// outside grid coverage, preserving the reference tool's output convention
// so line-oriented consumers keep their row alignment.
const OutsideSentinel = -9999.0

// Entry records the outcome of converting a single point.
type Entry struct {
	Line   int     `json:"line"`
	InLat  float64 `json:"in_lat"`
	InLon  float64 `json:"in_lon"`
	OutLat float64 `json:"out_lat,omitempty"`
	OutLon float64 `json:"out_lon,omitempty"`
	Error  string  `json:"error,omitempty"`

	outside bool
}

// Summary provides aggregate statistics for the entire conversion run.
type Summary struct {
	TotalPoints    int           `json:"total_points"`
	Converted      int           `json:"converted"`
	OutOfCoverage  int           `json:"out_of_coverage"`
	ErrorCount     int           `json:"error_count"`
	ProcessingTime time.Duration `json:"processing_time"`
	Reverse        bool          `json:"reverse"`
}

// Writer accumulates conversion results and renders them in the configured
// output format. The destination file, when one is configured, is created
// eagerly so permission problems surface before any conversion work.
type Writer struct {
	config  *config.Config
	out     io.Writer
	entries []Entry
	summary Summary
}

// NewWriter creates a Writer for the configured output destination.
func NewWriter(cfg *config.Config) (*Writer, error) {
	var out io.Writer = os.Stdout

	if cfg.OutputFile != "" {
		file, err := os.Create(cfg.OutputFile)
		if err != nil {
			return nil, errors.WrapFileError(cfg.OutputFile, err)
		}
		out = file
	}

	return &Writer{
		config:  cfg,
		out:     out,
		entries: []Entry{},
		summary: Summary{
			Reverse: cfg.Reverse,
		},
	}, nil
}

// Add records the outcome of one conversion.
func (w *Writer) Add(result batch.Result) {
	entry := Entry{
		Line:  result.Job.Line,
		InLat: result.Job.Point.Lat,
		InLon: result.Job.Point.Lon,
	}

	switch {
	case result.Err != nil && errors.IsCoverage(result.Err):
		entry.outside = true
		entry.Error = result.Err.Error()
		w.summary.OutOfCoverage++
	case result.Err != nil:
		entry.Error = result.Err.Error()
		w.summary.ErrorCount++
	default:
		entry.OutLat = result.Out.Lat
		entry.OutLon = result.Out.Lon
		w.summary.Converted++
	}

	w.entries = append(w.entries, entry)
	w.summary.TotalPoints++
}

// SetProcessingTime records the total run duration for the summary.
func (w *Writer) SetProcessingTime(d time.Duration) {
	w.summary.ProcessingTime = d
}

// Flush renders all accumulated results in the configured format, followed
// by a run summary on stderr when verbose reporting is enabled.
func (w *Writer) Flush() error {
	var err error
	switch w.config.Format {
	case config.FormatJSON:
		err = w.writeJSON()
	case config.FormatCSV:
		err = w.writeCSV()
	default:
		err = w.writeText()
	}
	if err != nil {
		return err
	}

	if w.config.IsVerbose() {
		w.writeSummary(os.Stderr)
	}
	return nil
}

func (w *Writer) writeText() error {
	for _, entry := range w.entries {
		var line string
		switch {
		case entry.outside:
			line = fmt.Sprintf("%.1f %.1f", OutsideSentinel, OutsideSentinel)
		case entry.Error != "":
			line = fmt.Sprintf("# %s", entry.Error)
		default:
			line = fmt.Sprintf("%s %s",
				strconv.FormatFloat(entry.OutLat, 'f', -1, 64),
				strconv.FormatFloat(entry.OutLon, 'f', -1, 64))
		}
		if _, err := fmt.Fprintln(w.out, line); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeCSV() error {
	cw := csv.NewWriter(w.out)
	defer cw.Flush()

	header := []string{"line", "in_lat", "in_lon", "out_lat", "out_lon", "error"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, entry := range w.entries {
		outLat, outLon := "", ""
		if entry.Error == "" {
			outLat = strconv.FormatFloat(entry.OutLat, 'f', -1, 64)
			outLon = strconv.FormatFloat(entry.OutLon, 'f', -1, 64)
		}
		record := []string{
			strconv.Itoa(entry.Line),
			strconv.FormatFloat(entry.InLat, 'f', -1, 64),
			strconv.FormatFloat(entry.InLon, 'f', -1, 64),
			outLat,
			outLon,
			entry.Error,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func (w *Writer) writeJSON() error {
	doc := struct {
		Summary Summary `json:"summary"`
		Entries []Entry `json:"entries"`
	}{
		Summary: w.summary,
		Entries: w.entries,
	}

	encoder := json.NewEncoder(w.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

func (w *Writer) writeSummary(dst io.Writer) {
	direction := "Tokyo Datum -> JGD2000"
	if w.summary.Reverse {
		direction = "JGD2000 -> Tokyo Datum"
	}

	fmt.Fprintf(dst, "\n=== tky2jgd summary (%s) ===\n", direction)
	fmt.Fprintf(dst, "Total points: %d\n", w.summary.TotalPoints)
	fmt.Fprintf(dst, "Converted: %d\n", w.summary.Converted)
	fmt.Fprintf(dst, "Out of coverage: %d\n", w.summary.OutOfCoverage)
	fmt.Fprintf(dst, "Errors: %d\n", w.summary.ErrorCount)
	fmt.Fprintf(dst, "Processing time: %v\n", w.summary.ProcessingTime)

	if w.summary.ErrorCount > 0 {
		fmt.Fprintf(dst, "\nErrors encountered:\n")
		for _, entry := range w.entries {
			if entry.Error != "" && !entry.outside {
				fmt.Fprintf(dst, "  line %d: %s\n", entry.Line, entry.Error)
			}
		}
	}
}

// Close releases the output file when one was opened.
// os.Stdout is never closed to avoid interfering with the surrounding
// process.
func (w *Writer) Close() error {
	if closer, ok := w.out.(io.Closer); ok && w.out != os.Stdout {
		return closer.Close()
	}
	return nil
}
