package shared_test

import (
	"context"
	"testing"

	"github.com/inkgrade/essay-api/internal/api/shared"
	"github.com/stretchr/testify/assert"
)

func TestTraceID(t *testing.T) {
	t.Parallel()

	assert.Empty(t, shared.GetTraceID(context.Background()))

	ctx := shared.SetTraceID(context.Background())
	traceID := shared.GetTraceID(ctx)
	assert.Len(t, traceID, 32)

	// Each context gets its own ID.
	other := shared.SetTraceID(context.Background())
	assert.NotEqual(t, traceID, shared.GetTraceID(other))
}
