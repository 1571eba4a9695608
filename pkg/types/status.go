package types

import "encoding/json"

// TxState is the venue's lifecycle state for a tracked transfer.
type TxState string

const (
	StateSubmitted        TxState = "STATE_SUBMITTED"
	StatePending          TxState = "STATE_PENDING"
	StateCompletedSuccess TxState = "STATE_COMPLETED_SUCCESS"
	StateCompletedError   TxState = "STATE_COMPLETED_ERROR"
	StateAbandoned        TxState = "STATE_ABANDONED"
	StatePendingError     TxState = "STATE_PENDING_ERROR"
)

// Terminal reports whether no further state transition can occur.
func (s TxState) Terminal() bool {
	switch s {
	case StateCompletedSuccess, StateCompletedError, StateAbandoned, StatePendingError:
		return true
	}
	return false
}

// Outstanding reports whether the transfer is still in flight and should be
// polled again.
func (s TxState) Outstanding() bool {
	return s == StateSubmitted || s == StatePending
}

// TransferStatusSnapshot is one entry of the running status list a tracked
// bridge attempt accumulates. When the venue reports a transfer sequence,
// one snapshot is recorded per sequence item, all sharing the top-level
// state; TransferSequence then holds that item's raw detail. Otherwise a
// single snapshot with a nil sequence is recorded.
type TransferStatusSnapshot struct {
	State            TxState
	TransferSequence json.RawMessage
}
