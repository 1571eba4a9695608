package confirm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRequestApprove(t *testing.T) {
	gate := NewGate()
	gate.OnPrompt = func(p Prompt) {
		require.Equal(t, "Send tokens", p.Title)
		gate.Approve()
	}

	approved, err := gate.Request(context.Background(), Prompt{Title: "Send tokens", ChainID: "1"})
	require.NoError(t, err)
	require.True(t, approved)
	require.Nil(t, gate.Pending())
}

func TestRequestReject(t *testing.T) {
	gate := NewGate()
	gate.OnPrompt = func(Prompt) { gate.Reject() }

	approved, err := gate.Request(context.Background(), Prompt{Title: "Send tokens"})
	require.NoError(t, err)
	require.False(t, approved)
}

func TestSecondRequestWhilePendingFails(t *testing.T) {
	gate := NewGate()

	started := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		close(started)
		approved, err := gate.Request(context.Background(), Prompt{Title: "first"})
		require.NoError(t, err)
		require.True(t, approved)
	}()

	<-started
	// wait until the first request has registered its resolver
	require.Eventually(t, func() bool {
		return gate.Pending() != nil
	}, time.Second, time.Millisecond)

	_, err := gate.Request(context.Background(), Prompt{Title: "second"})
	require.ErrorIs(t, err, ErrConfirmationPending)

	gate.Approve()
	<-done
}

func TestRequestCancelled(t *testing.T) {
	gate := NewGate()
	ctx, cancel := context.WithCancel(context.Background())
	gate.OnPrompt = func(Prompt) { cancel() }

	approved, err := gate.Request(ctx, Prompt{Title: "Send tokens"})
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, approved)

	// the slot is free again after cancellation
	gate.OnPrompt = func(Prompt) { gate.Approve() }
	approved, err = gate.Request(context.Background(), Prompt{Title: "retry"})
	require.NoError(t, err)
	require.True(t, approved)
}
