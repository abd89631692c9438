package feed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFeedDeliversToAllSubscribers(t *testing.T) {
	f := NewMemoryFeed()
	ctx := context.Background()

	var a, b []Event
	require.NoError(t, f.Subscribe(ctx, func(ev Event) { a = append(a, ev) }))
	require.NoError(t, f.Subscribe(ctx, func(ev Event) { b = append(b, ev) }))

	require.NoError(t, f.Publish(ctx, Event{Kind: JobCreated, JobID: "job-1"}))
	require.NoError(t, f.Publish(ctx, Event{Kind: JobUpdated, JobID: "job-1"}))

	require.Len(t, a, 2)
	assert.Equal(t, a, b)
	assert.Equal(t, JobCreated, a[0].Kind)
	assert.Equal(t, "job-1", a[0].JobID)
}

func TestMemoryFeedClose(t *testing.T) {
	f := NewMemoryFeed()
	ctx := context.Background()

	var got []Event
	require.NoError(t, f.Subscribe(ctx, func(ev Event) { got = append(got, ev) }))
	require.NoError(t, f.Close())

	require.NoError(t, f.Publish(ctx, Event{Kind: JobUpdated, JobID: "job-1"}))
	assert.Empty(t, got)

	// subscribing after close is a no-op, not a panic
	require.NoError(t, f.Subscribe(ctx, func(ev Event) { got = append(got, ev) }))
	require.NoError(t, f.Publish(ctx, Event{Kind: JobUpdated, JobID: "job-1"}))
	assert.Empty(t, got)
}
