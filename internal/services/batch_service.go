package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"adstudio-backend/internal/batch"
	"adstudio-backend/internal/models"
	"adstudio-backend/internal/supabase"
)

// BatchService launches batch runs out-of-band. The submitting request
// returns immediately; the orchestrator runs on a goroutine tied to the
// service's base context so in-flight batches stop on shutdown.
type BatchService struct {
	orchestrator *batch.Orchestrator
	dbClient     *supabase.DatabaseClient
	baseCtx      context.Context
	log          zerolog.Logger
	wg           sync.WaitGroup
}

func NewBatchService(baseCtx context.Context, orchestrator *batch.Orchestrator, dbClient *supabase.DatabaseClient, log zerolog.Logger) *BatchService {
	return &BatchService{
		orchestrator: orchestrator,
		dbClient:     dbClient,
		baseCtx:      baseCtx,
		log:          log,
	}
}

// Launch starts processing a batch in the background.
func (s *BatchService) Launch(batchID uuid.UUID, rows []batch.Row, batchSize int) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.orchestrator.Process(s.baseCtx, batchID, rows, batchSize); err != nil {
			s.log.Error().Err(err).
				Str("batch_id", batchID.String()).
				Msg("batch processing aborted")
		}
	}()
}

// Relaunch rebuilds the row list from the persisted row jobs and starts the
// batch again. Used after a requeue of a stuck batch.
func (s *BatchService) Relaunch(b *models.Batch, aspectRatio string, whiteBackground bool, batchSize int) error {
	jobs, err := s.dbClient.ListRowJobs(b.ID)
	if err != nil {
		return err
	}

	rows := make([]batch.Row, 0, len(jobs))
	for _, job := range jobs {
		var record models.CSVRow
		if len(job.Fields) > 0 {
			if err := json.Unmarshal(job.Fields, &record); err != nil {
				s.log.Warn().Err(err).
					Str("batch_id", b.ID.String()).
					Int("row", job.RowNumber).
					Msg("could not decode stored row fields")
			}
		}
		rows = append(rows, batch.Row{
			BatchID:         b.ID,
			UserID:          b.UserID,
			Number:          job.RowNumber,
			Record:          record,
			TriggerPrompt:   job.TriggerPrompt,
			AspectRatio:     aspectRatio,
			WhiteBackground: whiteBackground,
		})
	}

	s.Launch(b.ID, rows, batchSize)
	return nil
}

// Wait blocks until all launched batches have finished. Called on shutdown.
func (s *BatchService) Wait() {
	s.wg.Wait()
}
