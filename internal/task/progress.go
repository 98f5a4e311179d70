package task

import (
	"sync"

	"github.com/google/uuid"
)

// Stage labels how far an orchestration run has gotten.
type Stage string

// Orchestration stages reported to pollers.
const (
	StagePending     Stage = "pending"
	StageExecuting   Stage = "executing"
	StageAggregating Stage = "aggregating"
)

// Progress is the coarse descriptor clients poll while a run is in flight.
// It is ephemeral: a server restart loses it and pollers fall back to the
// persisted feedback status.
type Progress struct {
	Stage       Stage `json:"stage"`
	TotalItems  int   `json:"total_items"`
	CurrentItem int   `json:"current_item"`
}

// ProgressTracker maps feedback IDs to in-flight progress. The orchestrator
// writes, the polling endpoint reads. Entries are deleted when the run ends,
// success or failure.
type ProgressTracker interface {
	Set(feedbackID uuid.UUID, progress Progress)
	Get(feedbackID uuid.UUID) (Progress, bool)
	Delete(feedbackID uuid.UUID)
}

// InMemoryTracker is the process-lifetime ProgressTracker used in production.
// Concurrent submissions use distinct feedback IDs, so a plain mutex map is
// all the coordination required.
type InMemoryTracker struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]Progress
}

// NewInMemoryTracker creates an empty tracker.
func NewInMemoryTracker() *InMemoryTracker {
	return &InMemoryTracker{
		entries: make(map[uuid.UUID]Progress),
	}
}

// Ensure InMemoryTracker implements ProgressTracker
var _ ProgressTracker = (*InMemoryTracker)(nil)

// Set stores or replaces the progress for a feedback ID.
func (t *InMemoryTracker) Set(feedbackID uuid.UUID, progress Progress) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[feedbackID] = progress
}

// Get returns the progress for a feedback ID, if a run is in flight.
func (t *InMemoryTracker) Get(feedbackID uuid.UUID) (Progress, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	progress, ok := t.entries[feedbackID]
	return progress, ok
}

// Delete removes the entry for a feedback ID. Deleting a missing entry is a
// no-op.
func (t *InMemoryTracker) Delete(feedbackID uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, feedbackID)
}
