package trace

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
)

// NewRunID returns a fresh time-ordered run identifier.
func NewRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Sink persists step reports to a Store, assigning sequence numbers in
// arrival order. It satisfies the runner's report interface.
type Sink struct {
	store  *Store
	runID  string
	logger *slog.Logger

	seq atomic.Int64
}

// NewSink creates a sink writing to the given run.
// The run must have been registered with BeginRun.
func NewSink(store *Store, runID string, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{store: store, runID: runID, logger: logger}
}

// RunID returns the run this sink writes to.
func (k *Sink) RunID() string {
	return k.runID
}

// Report persists one step report. Storage errors are logged, not
// surfaced - reporting must never disturb the run itself.
func (k *Sink) Report(passed bool, message string) {
	seq := k.seq.Add(1)
	if err := k.store.WriteReport(context.Background(), k.runID, seq, passed, message); err != nil {
		k.logger.Error("failed to persist step report",
			"run_id", k.runID,
			"seq", seq,
			"error", err)
	}
}
