// Package cmd implements the command-line interface and orchestration logic
// for tky2jgd. It coordinates between the parameter loader, the transformer
// and the report writer, providing the business logic that connects
// configuration, loading, conversion and reporting.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mugwort-rc/TKY2JGD/internal/batch"
	"github.com/mugwort-rc/TKY2JGD/internal/config"
	"github.com/mugwort-rc/TKY2JGD/internal/errors"
	"github.com/mugwort-rc/TKY2JGD/internal/par"
	"github.com/mugwort-rc/TKY2JGD/internal/report"
	"github.com/mugwort-rc/TKY2JGD/internal/transform"
)

func executeConvert(cfg *config.Config, args []string) error {
	startTime := time.Now()

	table, err := loadTable(cfg)
	if err != nil {
		return err
	}

	if cfg.IsVerbose() {
		b := table.Bound()
		fmt.Fprintf(os.Stderr, "Loaded %d grid nodes from %s (extent %.4f..%.4f N, %.4f..%.4f E)\n",
			table.Len(), cfg.ParFile, b.Min.Lat(), b.Max.Lat(), b.Min.Lon(), b.Max.Lon())
	}

	transformer := transform.New(table)

	jobs, err := collectJobs(cfg, args)
	if err != nil {
		return err
	}

	writer, err := report.NewWriter(cfg)
	if err != nil {
		return err
	}
	defer writer.Close()

	processor := batch.NewProcessor(cfg, transformer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, result := range processor.Process(ctx, jobs) {
		writer.Add(result)
	}

	writer.SetProcessingTime(time.Since(startTime))
	return writer.Flush()
}

func loadTable(cfg *config.Config) (*par.Table, error) {
	if !cfg.Lenient {
		return par.LoadFile(cfg.ParFile)
	}

	file, err := os.Open(cfg.ParFile)
	if err != nil {
		return nil, errors.WrapFileError(cfg.ParFile, err)
	}
	defer file.Close()

	return par.LoadLenient(file, cfg.ParFile)
}

// collectJobs builds the conversion job list: the positional coordinate pair
// in single mode, or the parsed input stream in batch mode.
func collectJobs(cfg *config.Config, args []string) ([]batch.Job, error) {
	if !cfg.Batch() {
		lat, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("invalid latitude %q", args[0]), err)
		}
		lon, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("invalid longitude %q", args[1]), err)
		}
		return []batch.Job{{Index: 0, Line: 1, Point: batch.Point{Lat: lat, Lon: lon}}}, nil
	}

	if cfg.InputFile == "-" {
		return batch.ReadJobs(os.Stdin, "stdin")
	}

	file, err := os.Open(cfg.InputFile)
	if err != nil {
		return nil, errors.WrapFileError(cfg.InputFile, err)
	}
	defer file.Close()

	return batch.ReadJobs(file, cfg.InputFile)
}
