package types

// BridgeRequest represents a user's bridge command before it is resolved
// against the catalog.
type BridgeRequest struct {
	Amount      string
	SourceToken string
	DestToken   string
	SourceChain string
	DestChain   string
}
