package propagation

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/star/orbitcore/internal/metrics"
	"github.com/star/orbitcore/transform"
)

// BatchPosition is one successfully propagated catalog object at the batch
// target time, in both the propagator's TEME output and Earth-fixed
// coordinates.
type BatchPosition struct {
	Catalog int
	TEME    transform.PositionTEME
	ECEF    transform.PositionECEF
}

// propagateJob is a unit of work for the worker pool. Each job owns its
// record for the duration of the call; records are never shared across
// jobs, which is what makes parallel deep-space propagation safe.
type propagateJob struct {
	record     *SatelliteRecord
	targetTime time.Time
	gmst       float64 // precomputed GMST for targetTime
}

// propagateResult is the output of a single propagation.
type propagateResult struct {
	position BatchPosition
	err      error
	catalog  int
}

// WorkerPool manages a fixed number of goroutines for parallel propagation
// of a catalog of records.
type WorkerPool struct {
	workers int
	logger  *slog.Logger
}

// NewWorkerPool creates a worker pool with the given number of workers.
func NewWorkerPool(workers int, logger *slog.Logger) *WorkerPool {
	return &WorkerPool{
		workers: workers,
		logger:  logger,
	}
}

// PropagateBatch propagates every record to the target time. Failed objects
// are counted, logged and skipped so one diverging element set cannot abort
// a catalog run; their typed error codes are recorded in the metrics.
// Returns positions for the records that succeeded, plus success and error
// counts.
func (wp *WorkerPool) PropagateBatch(ctx context.Context, records []*SatelliteRecord, targetTime time.Time) ([]BatchPosition, int, int) {
	if len(records) == 0 {
		return nil, 0, 0
	}

	start := time.Now()

	// Precompute GMST once for the target time (same for all objects).
	gmst := transform.GMST(targetTime)

	jobs := make(chan propagateJob, wp.workers*2)
	results := make(chan propagateResult, wp.workers*2)

	// Start workers.
	var wg sync.WaitGroup
	for i := 0; i < wp.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				result := propagateSingle(job)
				select {
				case results <- result:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	// Feed jobs in a goroutine.
	go func() {
		defer close(jobs)
		for _, rec := range records {
			job := propagateJob{
				record:     rec,
				targetTime: targetTime,
				gmst:       gmst,
			}
			select {
			case jobs <- job:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Close results when all workers are done.
	go func() {
		wg.Wait()
		close(results)
	}()

	// Collect results.
	positions := make([]BatchPosition, 0, len(records))
	var successCount, errorCount int

	for result := range results {
		if result.err != nil {
			errorCount++
			metrics.RecordPropagation(outcomeLabel(result.err))
			wp.logger.Warn("propagation failed",
				"catalog", result.catalog,
				"error", result.err,
			)
			continue
		}
		successCount++
		metrics.RecordPropagation("ok")
		positions = append(positions, result.position)
	}

	metrics.RecordBatch(time.Since(start), len(records))

	return positions, successCount, errorCount
}

// outcomeLabel maps a propagation failure to its metrics label.
func outcomeLabel(err error) string {
	var perr *PropagationError
	if errors.As(err, &perr) {
		return perr.Code.String()
	}
	return "unknown"
}

// propagateSingle propagates one record and rotates the result into ECEF.
func propagateSingle(job propagateJob) propagateResult {
	sv, err := job.record.PropagateAt(job.targetTime)
	if err != nil {
		return propagateResult{catalog: job.record.Catalog, err: err}
	}

	teme := transform.PositionTEME{
		X: sv.Position[0], Y: sv.Position[1], Z: sv.Position[2],
		VX: sv.Velocity[0], VY: sv.Velocity[1], VZ: sv.Velocity[2],
	}
	ecef := transform.TEMEToECEFWithGMST(teme, job.gmst)

	return propagateResult{
		catalog: job.record.Catalog,
		position: BatchPosition{
			Catalog: job.record.Catalog,
			TEME:    teme,
			ECEF:    ecef,
		},
	}
}
