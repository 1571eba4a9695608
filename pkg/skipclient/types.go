package skipclient

import (
	"encoding/json"
	"fmt"

	"skip-bridge/pkg/types"
)

// SmartSwapOptions mirrors the venue's smart swap settings.
type SmartSwapOptions struct {
	SplitRoutes bool `json:"split_routes"`
}

// RouteRequest is the body of POST /v2/fungible/route.
type RouteRequest struct {
	AmountIn                  string           `json:"amount_in"`
	SourceAssetDenom          string           `json:"source_asset_denom"`
	SourceAssetChainID        string           `json:"source_asset_chain_id"`
	DestAssetDenom            string           `json:"dest_asset_denom"`
	DestAssetChainID          string           `json:"dest_asset_chain_id"`
	CumulativeAffiliateFeeBPS string           `json:"cumulative_affiliate_fee_bps"`
	AllowMultiTx              bool             `json:"allow_multi_tx"`
	AllowUnsafe               bool             `json:"allow_unsafe"`
	AllowSwaps                bool             `json:"allow_swaps"`
	SmartRelay                bool             `json:"smart_relay"`
	SmartSwapOptions          SmartSwapOptions `json:"smart_swap_options"`
	ExperimentalFeatures      []string         `json:"experimental_features"`
	Bridges                   []string         `json:"bridges"`
}

// operationBody is the common shape of every operation variant. Some
// variants report a single chain_id instead of a from/to pair.
type operationBody struct {
	ChainID     string `json:"chain_id"`
	FromChainID string `json:"from_chain_id"`
	ToChainID   string `json:"to_chain_id"`
	DenomIn     string `json:"denom_in"`
	DenomOut    string `json:"denom_out"`
	AmountIn    string `json:"amount_in"`
	AmountOut   string `json:"amount_out"`
}

// OperationEnvelope is one element of the route's operations array. The
// venue sets exactly one variant field.
type OperationEnvelope struct {
	Transfer          *operationBody `json:"transfer,omitempty"`
	Swap              *operationBody `json:"swap,omitempty"`
	CCTPTransfer      *operationBody `json:"cctp_transfer,omitempty"`
	AxelarTransfer    *operationBody `json:"axelar_transfer,omitempty"`
	BankSend          *operationBody `json:"bank_send,omitempty"`
	HyperlaneTransfer *operationBody `json:"hyperlane_transfer,omitempty"`
}

// Normalize resolves the envelope into an explicit tagged operation.
func (e OperationEnvelope) Normalize() (types.Operation, error) {
	var kind types.OpKind
	var body *operationBody
	switch {
	case e.Transfer != nil:
		kind, body = types.OpTransfer, e.Transfer
	case e.Swap != nil:
		kind, body = types.OpSwap, e.Swap
	case e.CCTPTransfer != nil:
		kind, body = types.OpCCTPTransfer, e.CCTPTransfer
	case e.AxelarTransfer != nil:
		kind, body = types.OpAxelarTransfer, e.AxelarTransfer
	case e.BankSend != nil:
		kind, body = types.OpBankSend, e.BankSend
	case e.HyperlaneTransfer != nil:
		kind, body = types.OpHyperlaneTransfer, e.HyperlaneTransfer
	default:
		return types.Operation{}, fmt.Errorf("operation has no recognized variant")
	}

	op := types.Operation{
		Kind:        kind,
		FromChainID: body.FromChainID,
		ToChainID:   body.ToChainID,
		DenomIn:     body.DenomIn,
		DenomOut:    body.DenomOut,
		AmountIn:    body.AmountIn,
		AmountOut:   body.AmountOut,
	}
	if op.FromChainID == "" {
		op.FromChainID = body.ChainID
	}
	return op, nil
}

// RouteResponse is the body of the route endpoint's reply.
type RouteResponse struct {
	AmountIn               string              `json:"amount_in"`
	AmountOut              string              `json:"amount_out"`
	SourceAssetDenom       string              `json:"source_asset_denom"`
	SourceAssetChainID     string              `json:"source_asset_chain_id"`
	DestAssetDenom         string              `json:"dest_asset_denom"`
	DestAssetChainID       string              `json:"dest_asset_chain_id"`
	Operations             json.RawMessage     `json:"operations"`
	ChainIDs               []string            `json:"chain_ids"`
	RequiredChainAddresses []string            `json:"required_chain_addresses"`
	TxsRequired            int                 `json:"txs_required"`
	EstimatedAmountOut     string              `json:"estimated_amount_out"`
	EstimatedFees          []types.Fee         `json:"estimated_fees"`
	USDAmountIn            string              `json:"usd_amount_in"`
	USDAmountOut           string              `json:"usd_amount_out"`
	Warning                *types.RouteWarning `json:"warning"`
}

// MsgsRequest is the body of POST /v2/fungible/msgs. Operations must be the
// route response's operations payload, untouched.
type MsgsRequest struct {
	SourceAssetDenom         string          `json:"source_asset_denom"`
	SourceAssetChainID       string          `json:"source_asset_chain_id"`
	DestAssetDenom           string          `json:"dest_asset_denom"`
	DestAssetChainID         string          `json:"dest_asset_chain_id"`
	AmountIn                 string          `json:"amount_in"`
	AmountOut                string          `json:"amount_out"`
	AddressList              []string        `json:"address_list"`
	SlippageTolerancePercent string          `json:"slippage_tolerance_percent"`
	Operations               json.RawMessage `json:"operations"`
}

// TxEnvelope is one element of the msgs reply. The venue sets exactly one
// family field.
type TxEnvelope struct {
	EVMTx    *types.EVMTx    `json:"evm_tx,omitempty"`
	CosmosTx *types.CosmosTx `json:"cosmos_tx,omitempty"`
	SVMTx    *types.SolanaTx `json:"svm_tx,omitempty"`
}

// MsgsResponse is the body of the msgs endpoint's reply.
type MsgsResponse struct {
	Txs []TxEnvelope `json:"txs"`
}

// TrackRequest is the body of POST /v2/tx/track.
type TrackRequest struct {
	TxHash  string `json:"tx_hash"`
	ChainID string `json:"chain_id"`
}

// SubmitRequest is the body of POST /v2/tx/submit, used for signed Solana
// transaction blobs.
type SubmitRequest struct {
	Tx      string `json:"tx"`
	ChainID string `json:"chain_id"`
}

// SubmitResponse is the submit endpoint's reply.
type SubmitResponse struct {
	TxHash string `json:"tx_hash"`
}

// StatusResponse is the body of GET /v2/tx/status.
type StatusResponse struct {
	State            types.TxState     `json:"state"`
	TransferSequence []json.RawMessage `json:"transfer_sequence"`
}

// Chain is one entry of the venue's chain info listing.
type Chain struct {
	ChainID   string `json:"chain_id"`
	ChainName string `json:"chain_name"`
	ChainType string `json:"chain_type"`
}

// ChainsResponse is the body of GET /v2/info/chains.
type ChainsResponse struct {
	Chains []Chain `json:"chains"`
}

// Asset is one entry of the venue's asset listing.
type Asset struct {
	Denom             string `json:"denom"`
	ChainID           string `json:"chain_id"`
	Symbol            string `json:"symbol"`
	Name              string `json:"name"`
	Decimals          int    `json:"decimals"`
	TokenContract     string `json:"token_contract"`
	IsEVM             bool   `json:"is_evm"`
	IsSVM             bool   `json:"is_svm"`
	IsCW20            bool   `json:"is_cw20"`
	RecommendedSymbol string `json:"recommended_symbol"`
}

// AssetsResponse is the body of GET /v2/fungible/assets.
type AssetsResponse struct {
	ChainToAssetsMap map[string]struct {
		Assets []Asset `json:"assets"`
	} `json:"chain_to_assets_map"`
}
