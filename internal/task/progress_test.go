package task

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTracker(t *testing.T) {
	t.Parallel()

	tracker := NewInMemoryTracker()
	id := uuid.New()

	_, ok := tracker.Get(id)
	assert.False(t, ok)

	tracker.Set(id, Progress{Stage: StageExecuting, TotalItems: 5, CurrentItem: 2})
	progress, ok := tracker.Get(id)
	require.True(t, ok)
	assert.Equal(t, StageExecuting, progress.Stage)
	assert.Equal(t, 5, progress.TotalItems)
	assert.Equal(t, 2, progress.CurrentItem)

	tracker.Delete(id)
	_, ok = tracker.Get(id)
	assert.False(t, ok)

	// Deleting again is a no-op.
	tracker.Delete(id)
}

func TestInMemoryTrackerConcurrentSubmissions(t *testing.T) {
	t.Parallel()

	tracker := NewInMemoryTracker()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := uuid.New()
			tracker.Set(id, Progress{Stage: StageExecuting, TotalItems: 3})
			tracker.Set(id, Progress{Stage: StageExecuting, TotalItems: 3, CurrentItem: 3})
			_, ok := tracker.Get(id)
			assert.True(t, ok)
			tracker.Delete(id)
		}()
	}
	wg.Wait()
}
