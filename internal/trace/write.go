package trace

import (
	"context"
	"fmt"
	"time"
)

// BeginRun records the start of a run.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - re-registering a run
// is silently ignored.
func (s *Store) BeginRun(ctx context.Context, runID, scenario string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, scenario, started_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		runID,
		scenario,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// WriteReport inserts a step report into the store.
// Uses ON CONFLICT DO NOTHING for idempotency - a (run_id, seq) pair is
// written at most once. Other constraint violations (e.g., a missing run)
// will still return errors.
func (s *Store) WriteReport(ctx context.Context, runID string, seq int64, passed bool, message string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO step_reports (run_id, seq, passed, message)
		VALUES (?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		runID,
		seq,
		passed,
		message,
	)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
