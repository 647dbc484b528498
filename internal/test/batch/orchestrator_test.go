package batch_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adstudio-backend/internal/batch"
	"adstudio-backend/internal/models"
)

// fakeStore records every orchestrator call and checks the counter invariant
// on each progress update.
type fakeStore struct {
	t *testing.T

	mu        sync.Mutex
	claimed   bool
	claimable bool

	progressUpdates [][3]int
	successes       []int
	failures        map[int]string

	finalStatus  string
	finalSummary string
}

func newFakeStore(t *testing.T) *fakeStore {
	return &fakeStore{t: t, claimable: true, failures: map[int]string{}}
}

func (s *fakeStore) ClaimBatch(batchID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.claimable || s.claimed {
		return false, nil
	}
	s.claimed = true
	return true, nil
}

func (s *fakeStore) UpdateBatchProgress(batchID uuid.UUID, processed, successful, failed int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Equal(s.t, processed, successful+failed, "counter invariant violated")
	s.progressUpdates = append(s.progressUpdates, [3]int{processed, successful, failed})
	return nil
}

func (s *fakeStore) FinalizeBatch(batchID uuid.UUID, status, errorSummary string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finalStatus = status
	s.finalSummary = errorSummary
	return nil
}

func (s *fakeStore) MarkRowSuccess(batchID uuid.UUID, rowNumber int, generatedText, imagePath, imageURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.successes = append(s.successes, rowNumber)
	return nil
}

func (s *fakeStore) MarkRowFailure(batchID uuid.UUID, rowNumber int, errorMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[rowNumber] = errorMsg
	return nil
}

// fakeProcessor fails the row numbers listed in failRows and succeeds the rest.
type fakeProcessor struct {
	mu       sync.Mutex
	failRows map[int]error
	seen     []int
}

func (p *fakeProcessor) ProcessRow(ctx context.Context, row batch.Row) batch.Outcome {
	p.mu.Lock()
	p.seen = append(p.seen, row.Number)
	p.mu.Unlock()

	if err, ok := p.failRows[row.Number]; ok {
		return batch.Outcome{Row: row, Err: err}
	}
	return batch.Outcome{
		Row:           row,
		GeneratedText: "copy",
		ImagePath:     "path",
		ImageURL:      "url",
	}
}

func makeRows(n int) []batch.Row {
	batchID := uuid.New()
	userID := uuid.New()
	rows := make([]batch.Row, n)
	for i := range rows {
		rows[i] = batch.Row{BatchID: batchID, UserID: userID, Number: i + 1}
	}
	return rows
}

func TestChunkRows(t *testing.T) {
	chunks := batch.ChunkRows(makeRows(7), 3)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 3)
	assert.Len(t, chunks[1], 3)
	assert.Len(t, chunks[2], 1)
	assert.Equal(t, 1, chunks[0][0].Number)
	assert.Equal(t, 7, chunks[2][0].Number)
}

func TestChunkRows_BatchLargerThanRows(t *testing.T) {
	chunks := batch.ChunkRows(makeRows(2), 5)
	require.Len(t, chunks, 1)
	assert.Len(t, chunks[0], 2)
}

func TestChunkRows_ZeroBatchSize(t *testing.T) {
	chunks := batch.ChunkRows(makeRows(3), 0)
	assert.Len(t, chunks, 3)
}

func TestProcess_AllRowsSucceed(t *testing.T) {
	store := newFakeStore(t)
	processor := &fakeProcessor{}
	orch := batch.NewOrchestrator(store, processor, 0, zerolog.Nop())

	rows := makeRows(7)
	err := orch.Process(context.Background(), rows[0].BatchID, rows, 3)
	require.NoError(t, err)

	assert.Equal(t, models.BatchStatusCompleted, store.finalStatus)
	assert.Empty(t, store.finalSummary)
	assert.Len(t, store.successes, 7)
	assert.Empty(t, store.failures)

	// One progress update per chunk, cumulative.
	require.Len(t, store.progressUpdates, 3)
	assert.Equal(t, [3]int{3, 3, 0}, store.progressUpdates[0])
	assert.Equal(t, [3]int{6, 6, 0}, store.progressUpdates[1])
	assert.Equal(t, [3]int{7, 7, 0}, store.progressUpdates[2])
}

func TestProcess_RowFailureDoesNotAbortSiblings(t *testing.T) {
	store := newFakeStore(t)
	processor := &fakeProcessor{failRows: map[int]error{2: errors.New("run timed out")}}
	orch := batch.NewOrchestrator(store, processor, 0, zerolog.Nop())

	rows := makeRows(3)
	err := orch.Process(context.Background(), rows[0].BatchID, rows, 3)
	require.NoError(t, err)

	assert.ElementsMatch(t, []int{1, 2, 3}, processor.seen)
	assert.ElementsMatch(t, []int{1, 3}, store.successes)
	assert.Contains(t, store.failures[2], "run timed out")

	assert.Equal(t, models.BatchStatusCompleted, store.finalStatus)
	assert.Equal(t, "1 of 3 rows failed", store.finalSummary)
}

func TestProcess_AllRowsFail(t *testing.T) {
	store := newFakeStore(t)
	processor := &fakeProcessor{failRows: map[int]error{
		1: errors.New("boom"),
		2: errors.New("boom"),
	}}
	orch := batch.NewOrchestrator(store, processor, 0, zerolog.Nop())

	rows := makeRows(2)
	err := orch.Process(context.Background(), rows[0].BatchID, rows, 5)
	require.NoError(t, err)

	assert.Equal(t, models.BatchStatusFailed, store.finalStatus)
	assert.Equal(t, "2 of 2 rows failed", store.finalSummary)
	require.Len(t, store.progressUpdates, 1)
	assert.Equal(t, [3]int{2, 0, 2}, store.progressUpdates[0])
}

func TestProcess_SkipsWhenNotClaimable(t *testing.T) {
	store := newFakeStore(t)
	store.claimable = false
	processor := &fakeProcessor{}
	orch := batch.NewOrchestrator(store, processor, 0, zerolog.Nop())

	rows := makeRows(3)
	err := orch.Process(context.Background(), rows[0].BatchID, rows, 3)
	require.NoError(t, err)

	assert.Empty(t, processor.seen)
	assert.Empty(t, store.finalStatus)
}

func TestProcess_SecondInvocationIsNoOp(t *testing.T) {
	store := newFakeStore(t)
	processor := &fakeProcessor{}
	orch := batch.NewOrchestrator(store, processor, 0, zerolog.Nop())

	rows := makeRows(2)
	require.NoError(t, orch.Process(context.Background(), rows[0].BatchID, rows, 2))
	seen := len(processor.seen)

	require.NoError(t, orch.Process(context.Background(), rows[0].BatchID, rows, 2))
	assert.Equal(t, seen, len(processor.seen), "second invocation must not reprocess rows")
}

func TestProcess_CancelledBeforeStart(t *testing.T) {
	store := newFakeStore(t)
	processor := &fakeProcessor{}
	orch := batch.NewOrchestrator(store, processor, 0, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows := makeRows(3)
	err := orch.Process(ctx, rows[0].BatchID, rows, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, processor.seen)
}
