package backtest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"BreakoutRadar/internal/model"
)

// CheckpointStore persists backtest progress keyed by run id. Read once at
// start for resume, written periodically during the run.
type CheckpointStore interface {
	Load(runID string) (*model.BacktestState, bool, error)
	Save(runID string, state *model.BacktestState) error
}

// FileStore keeps one JSON file per run id under a directory.
type FileStore struct {
	dir string
	log zerolog.Logger
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string, log zerolog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create checkpoint dir: %w", err)
	}
	return &FileStore{dir: dir, log: log.With().Str("component", "checkpoint").Logger()}, nil
}

func (s *FileStore) path(runID string) string {
	return filepath.Join(s.dir, runID+".json")
}

// Load reads the checkpoint for runID. A missing file means a fresh start.
// A corrupted file also falls back to a fresh start, logged as a warning.
func (s *FileStore) Load(runID string) (*model.BacktestState, bool, error) {
	data, err := os.ReadFile(s.path(runID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read checkpoint: %w", err)
	}
	var state model.BacktestState
	if err := json.Unmarshal(data, &state); err != nil {
		s.log.Warn().Err(err).Str("run_id", runID).Msg("corrupted checkpoint, starting fresh")
		return nil, false, nil
	}
	return &state, true, nil
}

// Save writes the checkpoint atomically (temp file + rename) and retries
// transient write failures with exponential backoff.
func (s *FileStore) Save(runID string, state *model.BacktestState) error {
	state.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	write := func() error {
		tmp := s.path(runID) + ".tmp"
		if err := os.WriteFile(tmp, data, 0o644); err != nil {
			return err
		}
		return os.Rename(tmp, s.path(runID))
	}
	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3)
	if err := backoff.RetryNotify(write, policy, func(err error, next time.Duration) {
		s.log.Warn().Err(err).Str("run_id", runID).Dur("retry_in", next).Msg("checkpoint write failed, retrying")
	}); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}
