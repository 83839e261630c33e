package client

import (
	"context"
	"testing"
	"time"

	ai "github.com/spetersoncode/pkextract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacedZeroIntervalIsIdentity(t *testing.T) {
	inner := ai.CompleterFunc(func(context.Context, ai.CompletionRequest, ...ai.Option) (*ai.Completion, error) {
		return &ai.Completion{}, nil
	})
	c := Paced(inner, 0)
	_, ok := c.(ai.CompleterFunc)
	assert.True(t, ok)
}

func TestPacedSpacesCalls(t *testing.T) {
	var stamps []time.Time
	inner := ai.CompleterFunc(func(context.Context, ai.CompletionRequest, ...ai.Option) (*ai.Completion, error) {
		stamps = append(stamps, time.Now())
		return &ai.Completion{Content: "ok"}, nil
	})

	c := Paced(inner, 30*time.Millisecond)
	for range 3 {
		_, err := c.Complete(context.Background(), ai.CompletionRequest{})
		require.NoError(t, err)
	}

	require.Len(t, stamps, 3)
	assert.GreaterOrEqual(t, stamps[2].Sub(stamps[0]), 50*time.Millisecond)
}

func TestPacedHonorsCancellation(t *testing.T) {
	calls := 0
	inner := ai.CompleterFunc(func(context.Context, ai.CompletionRequest, ...ai.Option) (*ai.Completion, error) {
		calls++
		return &ai.Completion{}, nil
	})
	c := Paced(inner, time.Hour)

	_, err := c.Complete(context.Background(), ai.CompletionRequest{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = c.Complete(ctx, ai.CompletionRequest{})
	assert.True(t, ai.IsClientError(err))
	assert.Equal(t, 1, calls)
}
