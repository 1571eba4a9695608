package types

import "encoding/json"

// ChainFamily identifies which signing pipeline a chain belongs to.
type ChainFamily string

const (
	FamilyEVM    ChainFamily = "EVM"
	FamilyCosmos ChainFamily = "COSMOS"
	FamilySolana ChainFamily = "SOLANA"
)

// OpKind discriminates the operation variants a route can contain. The venue
// encodes the variant as the single non-null field of each operation object;
// it is resolved into this discriminant once, when the route is normalized.
type OpKind string

const (
	OpTransfer          OpKind = "transfer"
	OpSwap              OpKind = "swap"
	OpCCTPTransfer      OpKind = "cctp_transfer"
	OpAxelarTransfer    OpKind = "axelar_transfer"
	OpBankSend          OpKind = "bank_send"
	OpHyperlaneTransfer OpKind = "hyperlane_transfer"
)

// Operation is one hop-level step of a route. Operations are positionally
// associated with the route's ChainIDs; the final hop may have none (pure
// receipt on the destination chain).
type Operation struct {
	Kind        OpKind
	FromChainID string
	ToChainID   string
	DenomIn     string
	DenomOut    string
	AmountIn    string
	AmountOut   string
}

// Fee is a per-chain fee estimate attached to a route.
type Fee struct {
	ChainID   string `json:"chain_id"`
	Amount    string `json:"amount"`
	USDAmount string `json:"usd_amount"`
}

// RouteWarning carries a non-fatal warning the venue attached to a route.
type RouteWarning struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Route is a normalized, venue-agnostic description of how to move value
// from a source asset/chain to a destination asset/chain. All amounts are
// integer minor units in decimal string form. A Route is immutable once
// obtained; a changed user input requires a fresh one.
type Route struct {
	AmountIn      string
	AmountOut     string
	SourceChainID string
	SourceDenom   string
	DestChainID   string
	DestDenom     string

	// ChainIDs lists every chain the transfer touches, in hop order.
	ChainIDs []string
	// RequiredChainAddresses lists the chains (by id) for which a signer
	// address must be supplied to the message-construction endpoint.
	RequiredChainAddresses []string

	Operations []Operation
	// RawOperations is the venue's original operations payload. The
	// message-construction endpoint expects it echoed back verbatim.
	RawOperations json.RawMessage

	// TxsRequired is the number of discrete user signatures the route needs.
	TxsRequired int

	EstimatedFees []Fee
	Warning       *RouteWarning

	USDAmountIn  string
	USDAmountOut string
}

// SubmittedTx identifies one broadcast transaction of a route execution.
type SubmittedTx struct {
	Hash    string
	ChainID string
}
