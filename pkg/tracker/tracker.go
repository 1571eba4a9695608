package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"skip-bridge/pkg/skipclient"
	"skip-bridge/pkg/types"
)

// DefaultPollInterval is the fixed delay between status polls. The loop is
// self-rescheduling: the next poll is armed only after the previous one
// finished, so slow fetches never stack.
const DefaultPollInterval = 2 * time.Second

// StatusFetcher is the slice of the venue client the tracker needs.
type StatusFetcher interface {
	Track(ctx context.Context, txHash, chainID string) error
	Status(ctx context.Context, txHash, chainID string) (*skipclient.StatusResponse, error)
}

// Tracker registers submitted transaction hashes with the venue and polls
// their status until each reaches a terminal state, accumulating a running
// snapshot list for one bridge attempt.
type Tracker struct {
	venue        StatusFetcher
	pollInterval time.Duration

	mu        sync.Mutex
	snapshots []types.TransferStatusSnapshot
	wg        sync.WaitGroup

	// OnUpdate, when set, receives a copy of the snapshot list after every
	// poll. Called from the poll goroutine.
	OnUpdate func([]types.TransferStatusSnapshot)
	// OnError, when set, receives poll fetch failures. A failure halts the
	// poll loop for that hash; it is not auto-retried.
	OnError func(error)
}

// New creates a tracker over the venue.
func New(venue StatusFetcher) *Tracker {
	return &Tracker{venue: venue, pollInterval: DefaultPollInterval}
}

// SetPollInterval overrides the poll delay. Used by tests.
func (t *Tracker) SetPollInterval(d time.Duration) {
	t.pollInterval = d
}

// Track registers a hash with the venue, performs one immediate poll in
// append mode, and keeps polling in the background until the transfer
// reaches a terminal state or ctx is cancelled.
func (t *Tracker) Track(ctx context.Context, txHash, chainID string) error {
	if err := t.venue.Track(ctx, txHash, chainID); err != nil {
		return fmt.Errorf("failed to register transaction for tracking: %w", err)
	}

	state, err := t.Poll(ctx, txHash, chainID, true)
	if err != nil {
		return err
	}
	if !state.Outstanding() {
		return nil
	}

	t.wg.Add(1)
	go t.loop(ctx, txHash, chainID)
	return nil
}

// Poll fetches the current status once and folds it into the snapshot
// list. With append=false only the trailing run of still-outstanding
// entries is replaced; terminal entries that precede it are preserved.
func (t *Tracker) Poll(ctx context.Context, txHash, chainID string, append bool) (types.TxState, error) {
	resp, err := t.venue.Status(ctx, txHash, chainID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch transfer status: %w", err)
	}

	fresh := expand(resp)

	t.mu.Lock()
	if append {
		t.snapshots = appendSnapshots(t.snapshots, fresh)
	} else {
		t.snapshots = mergeTail(t.snapshots, fresh)
	}
	snapshot := t.copySnapshotsLocked()
	t.mu.Unlock()

	if t.OnUpdate != nil {
		t.OnUpdate(snapshot)
	}
	return resp.State, nil
}

// loop re-polls on a fixed delay until the state leaves the outstanding
// set, the context is cancelled, or a fetch fails.
func (t *Tracker) loop(ctx context.Context, txHash, chainID string) {
	defer t.wg.Done()

	timer := time.NewTimer(t.pollInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		state, err := t.Poll(ctx, txHash, chainID, false)
		if err != nil {
			if ctx.Err() == nil && t.OnError != nil {
				t.OnError(err)
			}
			return
		}
		if !state.Outstanding() {
			return
		}
		timer.Reset(t.pollInterval)
	}
}

// Wait blocks until all background poll loops have exited. Meaningful
// after cancelling the context passed to Track.
func (t *Tracker) Wait() {
	t.wg.Wait()
}

// Snapshots returns a copy of the accumulated snapshot list.
func (t *Tracker) Snapshots() []types.TransferStatusSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.copySnapshotsLocked()
}

// Clear discards the snapshot list. Call when a new bridge attempt begins.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snapshots = nil
}

// Outcome reports the overall bridge outcome: once the number of recorded
// snapshots reaches the route's hop count (chain count minus one), the
// last snapshot's state is authoritative.
func (t *Tracker) Outcome(numChainIDs int) (types.TxState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.snapshots) == 0 || len(t.snapshots) != numChainIDs-1 {
		return "", false
	}
	return t.snapshots[len(t.snapshots)-1].State, true
}

func (t *Tracker) copySnapshotsLocked() []types.TransferStatusSnapshot {
	out := make([]types.TransferStatusSnapshot, len(t.snapshots))
	copy(out, t.snapshots)
	return out
}

// expand converts a status reply into snapshot entries: one per transfer
// sequence item, all sharing the top-level state, or a single entry with a
// nil sequence when the venue reported none.
func expand(resp *skipclient.StatusResponse) []types.TransferStatusSnapshot {
	if len(resp.TransferSequence) == 0 {
		return []types.TransferStatusSnapshot{{State: resp.State}}
	}
	out := make([]types.TransferStatusSnapshot, 0, len(resp.TransferSequence))
	for _, item := range resp.TransferSequence {
		out = append(out, types.TransferStatusSnapshot{
			State:            resp.State,
			TransferSequence: item,
		})
	}
	return out
}

func appendSnapshots(existing, fresh []types.TransferStatusSnapshot) []types.TransferStatusSnapshot {
	return append(existing, fresh...)
}

// mergeTail replaces the trailing run of still-outstanding entries with the
// fresh snapshots. Only the contiguous tail is replaced: an outstanding
// entry buried behind a terminal one is left alone, so terminal entries are
// never duplicated or dropped.
func mergeTail(existing, fresh []types.TransferStatusSnapshot) []types.TransferStatusSnapshot {
	boundary := len(existing)
	for boundary > 0 && existing[boundary-1].State.Outstanding() {
		boundary--
	}
	merged := make([]types.TransferStatusSnapshot, 0, boundary+len(fresh))
	merged = append(merged, existing[:boundary]...)
	return append(merged, fresh...)
}
