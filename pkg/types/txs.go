package types

// ApprovalRequirement is one ERC-20 approval an EVM transaction declares as
// a prerequisite. It lives for a single allowance-check-and-approve cycle.
type ApprovalRequirement struct {
	TokenContract string `json:"token_contract"`
	Spender       string `json:"spender"`
	Amount        string `json:"amount"`
}

// EVMTx is the venue's description of an EVM transaction to sign and send.
// Data is hex without the 0x prefix, Value a decimal string in wei.
type EVMTx struct {
	ChainID                string                `json:"chain_id"`
	To                     string                `json:"to"`
	Value                  string                `json:"value"`
	Data                   string                `json:"data"`
	SignerAddress          string                `json:"signer_address"`
	RequiredERC20Approvals []ApprovalRequirement `json:"required_erc20_approvals"`
}

// CosmosMsg is one message of a Cosmos transaction. Msg is the venue's
// snake_case JSON encoding of the message body.
type CosmosMsg struct {
	Msg        string `json:"msg"`
	MsgTypeURL string `json:"msg_type_url"`
}

// CosmosTx is the venue's description of a Cosmos transaction.
type CosmosTx struct {
	ChainID       string      `json:"chain_id"`
	SignerAddress string      `json:"signer_address"`
	Msgs          []CosmosMsg `json:"msgs"`
}

// SolanaTx is the venue's description of a Solana transaction. Tx is the
// base64-encoded unsigned transaction blob.
type SolanaTx struct {
	ChainID       string `json:"chain_id"`
	SignerAddress string `json:"signer_address"`
	Tx            string `json:"tx"`
}

// PendingTransaction is one chain-family transaction required to realize a
// route. Exactly one of the payload fields is set, matching Family. It is
// transient: signed, submitted and replaced by a SubmittedTx.
type PendingTransaction struct {
	ChainID string
	Family  ChainFamily
	EVM     *EVMTx
	Cosmos  *CosmosTx
	Solana  *SolanaTx
}
