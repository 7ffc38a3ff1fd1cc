// Package checkpoint persists stream progress in a local directory so a
// restarted processor resumes after the last completed batch.
package checkpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ErrTopicMismatch is returned when a checkpoint file belongs to another topic.
var ErrTopicMismatch = errors.New("checkpoint belongs to a different topic")

// State is the progress of one streaming query.
type State struct {
	QueryID     uuid.UUID       `json:"query_id"`      // Stable across restarts
	Topic       string          `json:"topic"`         // Source topic
	NextBatchID int64           `json:"next_batch_id"` // Id for the next micro-batch
	Offsets     map[int32]int64 `json:"offsets"`       // Next offset to consume per partition
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Offset returns the next offset for a partition and whether one is recorded.
func (s State) Offset(partition int32) (int64, bool) {
	off, ok := s.Offsets[partition]
	return off, ok
}

// Store persists stream progress.
type Store interface {
	// Load returns the saved state for topic, or a fresh state with a new
	// query id when nothing has been committed yet.
	Load(ctx context.Context, topic string) (State, error)

	// Commit durably records state.
	Commit(ctx context.Context, state State) error
}

// FileStore keeps one JSON file per topic in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create checkpoint dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the checkpoint directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(topic string) string {
	return filepath.Join(s.dir, topic+".json")
}

// Load reads the checkpoint for topic.
func (s *FileStore) Load(ctx context.Context, topic string) (State, error) {
	data, err := os.ReadFile(s.path(topic))
	if errors.Is(err, fs.ErrNotExist) {
		return State{
			QueryID: uuid.New(),
			Topic:   topic,
			Offsets: make(map[int32]int64),
		}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("read checkpoint: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("parse checkpoint %s: %w", s.path(topic), err)
	}
	if state.Topic != topic {
		return State{}, fmt.Errorf("%w: file has %q, want %q", ErrTopicMismatch, state.Topic, topic)
	}
	if state.Offsets == nil {
		state.Offsets = make(map[int32]int64)
	}
	return state, nil
}

// Commit writes state via a temp file and rename so a crash never leaves a
// partially written checkpoint.
func (s *FileStore) Commit(ctx context.Context, state State) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	state.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, state.Topic+".*.tmp")
	if err != nil {
		return fmt.Errorf("create checkpoint temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write checkpoint: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close checkpoint: %w", err)
	}

	if err := os.Rename(tmpName, s.path(state.Topic)); err != nil {
		return fmt.Errorf("rename checkpoint: %w", err)
	}
	return nil
}
