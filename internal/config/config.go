// Package config provides configuration management and validation for tky2jgd.
// It centralizes all command-line options and runtime settings, providing
// validation logic to catch configuration errors early, before the parameter
// table is loaded.
package config

import (
	"path/filepath"

	"github.com/mugwort-rc/TKY2JGD/internal/errors"
)

// DefaultParFile is the parameter file path used when neither the --par flag
// nor the TKY2JGD_PAR environment variable is set. It matches the layout of
// the GSI distribution archive.
const DefaultParFile = "data/TKY2JGD.par"

// OutputFormat represents the supported batch output formats.
// This enumeration ensures type safety and enables format-specific
// rendering logic in the report writer.
type OutputFormat string

// Supported output format constants for batch conversion reports.
const (
	FormatText OutputFormat = "text"
	FormatCSV  OutputFormat = "csv"
	FormatJSON OutputFormat = "json"
)

// Config holds all runtime configuration options for a conversion run.
// It provides a single source of truth for all settings, enabling consistent
// behavior across all components and simplifying dependency injection.
type Config struct {
	ParFile    string
	InputFile  string
	OutputFile string
	Format     OutputFormat
	Reverse    bool
	Lenient    bool
	Verbose    bool
	Quiet      bool
}

// Validate performs validation of configuration settings and normalizes
// paths. It catches configuration errors before the expensive parameter
// load begins.
func (c *Config) Validate() error {
	if err := c.validateParFile(); err != nil {
		return err
	}

	if err := c.validateInputFile(); err != nil {
		return err
	}

	if err := c.validateFormat(); err != nil {
		return err
	}

	c.normalize()
	return nil
}

func (c *Config) validateParFile() error {
	if c.ParFile == "" {
		return errors.NewConfigError("parameter file is required (use --par or TKY2JGD_PAR)", nil)
	}

	absPar, err := filepath.Abs(c.ParFile)
	if err != nil {
		return errors.NewConfigErrorWithPath(c.ParFile, "invalid parameter file path", err)
	}
	c.ParFile = absPar
	return nil
}

func (c *Config) validateInputFile() error {
	// "-" selects stdin and needs no normalization.
	if c.InputFile == "" || c.InputFile == "-" {
		return nil
	}

	absIn, err := filepath.Abs(c.InputFile)
	if err != nil {
		return errors.NewConfigErrorWithPath(c.InputFile, "invalid input file path", err)
	}
	c.InputFile = absIn
	return nil
}

func (c *Config) validateFormat() error {
	switch c.Format {
	case "", FormatText, FormatCSV, FormatJSON:
		return nil
	default:
		return errors.NewConfigError("format must be 'text', 'csv' or 'json'", nil)
	}
}

func (c *Config) normalize() {
	if c.Format == "" {
		c.Format = FormatText
	}
}

// Batch reports whether the run converts a stream of points rather than a
// single positional coordinate pair.
func (c *Config) Batch() bool {
	return c.InputFile != ""
}

// IsVerbose determines if verbose reporting is enabled.
// Quiet mode overrides Verbose, ensuring consistent behavior.
func (c *Config) IsVerbose() bool {
	return c.Verbose && !c.Quiet
}

// ShouldReport determines if any summary reporting should occur.
func (c *Config) ShouldReport() bool {
	return !c.Quiet
}
