// Package batch provides parallel conversion of point streams.
// It implements a worker pool pattern in which the immutable parameter
// table is shared by all workers; results keep the input ordering so batch
// output lines up with batch input.
package batch

import (
	"bufio"
	"context"
	"io"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/mugwort-rc/TKY2JGD/internal/config"
	"github.com/mugwort-rc/TKY2JGD/internal/errors"
	"github.com/mugwort-rc/TKY2JGD/internal/transform"
)

// Point is one coordinate pair read from batch input, in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Job is a single conversion task: an input point plus its provenance.
// A parse failure is baked into Err so the point still occupies its slot in
// the output, keeping input and output line-aligned.
type Job struct {
	Index int
	Line  int
	Point Point
	Err   error
}

// Result contains the outcome of converting a single point.
type Result struct {
	Job Job
	Out Point
	Err error
}

// Processor orchestrates concurrent point conversion. It scales the worker
// pool with available CPU cores while capping it to prevent oversubscription
// on large machines.
type Processor struct {
	config      *config.Config
	transformer *transform.Transformer
	workerCount int
}

// NewProcessor creates a Processor bound to a transformer.
func NewProcessor(cfg *config.Config, tr *transform.Transformer) *Processor {
	workerCount := runtime.NumCPU()
	if workerCount > 8 {
		workerCount = 8
	}

	return &Processor{
		config:      cfg,
		transformer: tr,
		workerCount: workerCount,
	}
}

// ReadJobs parses batch input: one point per line as whitespace-delimited
// "latitude longitude" in decimal degrees. Blank lines and lines starting
// with '#' are skipped. Malformed lines become jobs carrying an InputError
// rather than aborting the read, so a long batch survives a few bad records.
func ReadJobs(r io.Reader, name string) ([]Job, error) {
	var jobs []Job

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		trimmed := strings.TrimSpace(scanner.Text())
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		job := Job{Index: len(jobs), Line: lineNum}
		fields := strings.Fields(trimmed)
		if len(fields) < 2 {
			job.Err = errors.NewInputError(name, lineNum, "expected 'latitude longitude'", nil)
			jobs = append(jobs, job)
			continue
		}

		lat, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			job.Err = errors.NewInputError(name, lineNum, "invalid latitude", err)
			jobs = append(jobs, job)
			continue
		}
		lon, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			job.Err = errors.NewInputError(name, lineNum, "invalid longitude", err)
			jobs = append(jobs, job)
			continue
		}

		job.Point = Point{Lat: lat, Lon: lon}
		jobs = append(jobs, job)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewFileError(name, "read failed", err)
	}

	return jobs, nil
}

// Process converts all jobs concurrently and returns results in input order.
// Workers only read the shared table, so no locking is needed beyond the
// job channel itself.
func (p *Processor) Process(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	work := make(chan Job, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < p.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.worker(ctx, work, results)
		}()
	}

	for _, job := range jobs {
		work <- job
	}
	close(work)

	wg.Wait()
	return results
}

func (p *Processor) worker(ctx context.Context, work <-chan Job, results []Result) {
	for {
		select {
		case job, ok := <-work:
			if !ok {
				return
			}
			results[job.Index] = p.convert(job)
		case <-ctx.Done():
			return
		}
	}
}

func (p *Processor) convert(job Job) Result {
	result := Result{Job: job}
	if job.Err != nil {
		result.Err = job.Err
		return result
	}

	var lat, lon float64
	var err error
	if p.config.Reverse {
		lat, lon, err = p.transformer.Backward(job.Point.Lat, job.Point.Lon)
	} else {
		lat, lon, err = p.transformer.Forward(job.Point.Lat, job.Point.Lon)
	}
	if err != nil {
		result.Err = err
		return result
	}

	result.Out = Point{Lat: lat, Lon: lon}
	return result
}
