package shared

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPrincipalRoundTrip(t *testing.T) {
	t.Parallel()

	principal := Principal{UserID: uuid.New(), Username: "alice"}
	ctx := WithPrincipal(context.Background(), principal)

	got, ok := GetPrincipal(ctx)
	assert.True(t, ok)
	assert.Equal(t, principal, got)
}

func TestGetPrincipalMissing(t *testing.T) {
	t.Parallel()

	_, ok := GetPrincipal(context.Background())
	assert.False(t, ok)
}

func TestGetPrincipalRejectsIncompleteIdentity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		principal Principal
	}{
		{"nil user ID", Principal{Username: "alice"}},
		{"empty username", Principal{UserID: uuid.New()}},
		{"zero value", Principal{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := WithPrincipal(context.Background(), tt.principal)
			_, ok := GetPrincipal(ctx)
			assert.False(t, ok)
		})
	}
}

func TestTraceID(t *testing.T) {
	t.Parallel()

	ctx := SetTraceID(context.Background())
	traceID := GetTraceID(ctx)

	assert.Len(t, traceID, TraceIDLength*2, "trace ID is hex encoded")
	assert.NotEqual(t, traceID, GetTraceID(SetTraceID(context.Background())))
	assert.Empty(t, GetTraceID(context.Background()))
}
