package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"adstudio-backend/internal/models"
)

// Store is the slice of the database layer the orchestrator drives.
type Store interface {
	ClaimBatch(batchID uuid.UUID) (bool, error)
	UpdateBatchProgress(batchID uuid.UUID, processed, successful, failed int) error
	FinalizeBatch(batchID uuid.UUID, status, errorSummary string) error
	MarkRowSuccess(batchID uuid.UUID, rowNumber int, generatedText, imagePath, imageURL string) error
	MarkRowFailure(batchID uuid.UUID, rowNumber int, errorMsg string) error
}

// Orchestrator walks a batch chunk by chunk: rows inside a chunk run
// concurrently, chunks run strictly in order, and the cumulative counters are
// persisted after every chunk. Row failures are recorded and counted, never
// escalated; only infrastructure errors (the store itself failing) abort the
// walk and surface to the caller for retry.
type Orchestrator struct {
	store      Store
	processor  RowProcessor
	chunkDelay time.Duration
	log        zerolog.Logger
}

func NewOrchestrator(store Store, processor RowProcessor, chunkDelay time.Duration, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		store:      store,
		processor:  processor,
		chunkDelay: chunkDelay,
		log:        log,
	}
}

// ChunkRows partitions rows into consecutive chunks of at most batchSize,
// preserving order. batchSize < 1 is treated as 1.
func ChunkRows(rows []Row, batchSize int) [][]Row {
	if batchSize < 1 {
		batchSize = 1
	}
	chunks := make([][]Row, 0, (len(rows)+batchSize-1)/batchSize)
	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		chunks = append(chunks, rows[start:end])
	}
	return chunks
}

// Process claims the batch and runs it to a terminal state. A batch that is
// not in the queued state (already claimed, or already terminal) is skipped
// without error. Cancellation is honored between chunks; rows already issued
// run to completion.
func (o *Orchestrator) Process(ctx context.Context, batchID uuid.UUID, rows []Row, batchSize int) error {
	claimed, err := o.store.ClaimBatch(batchID)
	if err != nil {
		return fmt.Errorf("claim batch: %w", err)
	}
	if !claimed {
		o.log.Info().Str("batch_id", batchID.String()).Msg("batch already claimed, skipping")
		return nil
	}

	chunks := ChunkRows(rows, batchSize)
	o.log.Info().
		Str("batch_id", batchID.String()).
		Int("total_rows", len(rows)).
		Int("chunks", len(chunks)).
		Int("batch_size", batchSize).
		Msg("starting batch")

	var processed, successful, failed int
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("batch cancelled before chunk %d: %w", i+1, err)
		}

		outcomes := o.processChunk(ctx, chunk)

		for _, outcome := range outcomes {
			if outcome.Err != nil {
				failed++
				if err := o.store.MarkRowFailure(batchID, outcome.Row.Number, outcome.Err.Error()); err != nil {
					return fmt.Errorf("record row %d failure: %w", outcome.Row.Number, err)
				}
				o.log.Warn().Err(outcome.Err).
					Str("batch_id", batchID.String()).
					Int("row", outcome.Row.Number).
					Msg("row failed")
				continue
			}

			successful++
			if err := o.store.MarkRowSuccess(batchID, outcome.Row.Number, outcome.GeneratedText, outcome.ImagePath, outcome.ImageURL); err != nil {
				return fmt.Errorf("record row %d success: %w", outcome.Row.Number, err)
			}
		}
		processed += len(chunk)

		if err := o.store.UpdateBatchProgress(batchID, processed, successful, failed); err != nil {
			return fmt.Errorf("persist progress after chunk %d: %w", i+1, err)
		}

		o.log.Info().
			Str("batch_id", batchID.String()).
			Int("chunk", i+1).
			Int("processed", processed).
			Int("successful", successful).
			Int("failed", failed).
			Msg("chunk complete")

		// Courtesy pause between chunks so upstream providers are not hit
		// with back-to-back bursts.
		if i < len(chunks)-1 && o.chunkDelay > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("batch cancelled during chunk delay: %w", ctx.Err())
			case <-time.After(o.chunkDelay):
			}
		}
	}

	status := models.BatchStatusCompleted
	summary := ""
	if failed > 0 {
		summary = fmt.Sprintf("%d of %d rows failed", failed, processed)
	}
	if processed > 0 && failed == processed {
		status = models.BatchStatusFailed
	}
	if err := o.store.FinalizeBatch(batchID, status, summary); err != nil {
		return fmt.Errorf("finalize batch: %w", err)
	}

	o.log.Info().
		Str("batch_id", batchID.String()).
		Str("status", status).
		Int("successful", successful).
		Int("failed", failed).
		Msg("batch finished")

	return nil
}

// processChunk fans the chunk's rows out to goroutines and joins on all of
// them. Every row settles with its own Outcome; one row's failure never
// aborts its siblings.
func (o *Orchestrator) processChunk(ctx context.Context, chunk []Row) []Outcome {
	outcomes := make([]Outcome, len(chunk))

	var wg sync.WaitGroup
	for i, row := range chunk {
		wg.Add(1)
		go func(i int, row Row) {
			defer wg.Done()
			outcomes[i] = o.processor.ProcessRow(ctx, row)
		}(i, row)
	}
	wg.Wait()

	return outcomes
}
