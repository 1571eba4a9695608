package signer

import (
	"context"
	"errors"
	"strings"

	"skip-bridge/pkg/allowance"
	"skip-bridge/pkg/types"
)

// ErrUserRejected marks a signing step the user declined. Rejection aborts
// the route execution but is not a fault.
var ErrUserRejected = errors.New("user rejected token transfer")

// IsUserRejection reports whether an error represents a user-initiated
// rejection, either ours or one bubbled up from a wallet by message.
func IsUserRejection(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUserRejected) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "User denied transaction signature") ||
		strings.Contains(msg, "rejected by user")
}

// EVMSigner signs and broadcasts EVM transactions, returning once the
// transaction hash is available. Full confirmation is not awaited.
type EVMSigner interface {
	// OwnerAddress is the wallet's hex address on this chain.
	OwnerAddress() string
	SignAndSend(ctx context.Context, tx *types.EVMTx) (string, error)
	// SendApproval broadcasts a prepared ERC-20 approval.
	SendApproval(ctx context.Context, approval *allowance.ApprovalTx) (string, error)
}

// CosmosSigner signs and broadcasts a Cosmos transaction and returns its
// hash.
type CosmosSigner interface {
	SignAndBroadcast(ctx context.Context, tx *types.CosmosTx) (string, error)
}

// SolanaSigner signs an opaque Solana transaction payload and returns the
// signed blob, base64 encoded, ready for the venue's submit endpoint.
type SolanaSigner interface {
	SignTransaction(ctx context.Context, tx *types.SolanaTx) (string, error)
}

// Registry dispatches to the signer for a chain family.
type Registry struct {
	evm    map[string]EVMSigner // keyed by chain id
	cosmos CosmosSigner
	solana SolanaSigner
}

// NewRegistry creates an empty signer registry.
func NewRegistry() *Registry {
	return &Registry{evm: make(map[string]EVMSigner)}
}

// RegisterEVM registers the signer for one EVM chain id.
func (r *Registry) RegisterEVM(chainID string, s EVMSigner) {
	r.evm[chainID] = s
}

// SetCosmos registers the Cosmos signer.
func (r *Registry) SetCosmos(s CosmosSigner) {
	r.cosmos = s
}

// SetSolana registers the Solana signer.
func (r *Registry) SetSolana(s SolanaSigner) {
	r.solana = s
}

// EVM returns the signer for an EVM chain id.
func (r *Registry) EVM(chainID string) (EVMSigner, error) {
	s, ok := r.evm[chainID]
	if !ok {
		return nil, errors.New("no signer configured for EVM chain " + chainID)
	}
	return s, nil
}

// Cosmos returns the Cosmos signer.
func (r *Registry) Cosmos() (CosmosSigner, error) {
	if r.cosmos == nil {
		return nil, errors.New("no Cosmos signer configured")
	}
	return r.cosmos, nil
}

// Solana returns the Solana signer.
func (r *Registry) Solana() (SolanaSigner, error) {
	if r.solana == nil {
		return nil, errors.New("no Solana signer configured")
	}
	return r.solana, nil
}
