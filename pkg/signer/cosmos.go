package signer

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"

	"skip-bridge/pkg/gas"
	"skip-bridge/pkg/types"
)

// DecodedMsg is a Cosmos message ready for a signing client: the type URL
// plus the message body with its keys converted to the casing proto-JSON
// clients expect.
type DecodedMsg struct {
	TypeURL string
	Value   json.RawMessage
}

// Fee is the computed transaction fee handed to the broadcaster.
type Fee struct {
	GasLimit uint64
	Amount   string
	Denom    string
}

// Broadcaster is the wallet collaborator's Cosmos signing capability:
// simulate a message set for gas, then sign and broadcast it.
type Broadcaster interface {
	Simulate(ctx context.Context, chainID, signerAddress string, msgs []DecodedMsg, memo string) (uint64, error)
	SignAndBroadcast(ctx context.Context, chainID, signerAddress string, msgs []DecodedMsg, fee Fee, memo string) (string, error)
}

// ChainNamer resolves a chain id to the chain name the pricing endpoint and
// fee-denom table are keyed by.
type ChainNamer interface {
	ChainName(chainID string) (string, error)
}

const broadcastMemo = "bridge transfer"

// CosmosWallet turns the venue's Cosmos transaction descriptions into
// simulated, fee-priced, broadcast transactions through an opaque signing
// collaborator.
type CosmosWallet struct {
	broadcaster Broadcaster
	pricer      *gas.CosmosPricer
	namer       ChainNamer
}

// NewCosmosWallet wires the broadcaster to gas pricing and chain naming.
func NewCosmosWallet(broadcaster Broadcaster, pricer *gas.CosmosPricer, namer ChainNamer) *CosmosWallet {
	return &CosmosWallet{broadcaster: broadcaster, pricer: pricer, namer: namer}
}

// SignAndBroadcast decodes the venue's message list, simulates it for a gas
// estimate, computes the fee from the per-chain gas price, then signs and
// broadcasts.
func (w *CosmosWallet) SignAndBroadcast(ctx context.Context, tx *types.CosmosTx) (string, error) {
	msgs, err := DecodeMsgs(tx.Msgs)
	if err != nil {
		return "", err
	}

	simulated, err := w.broadcaster.Simulate(ctx, tx.ChainID, tx.SignerAddress, msgs, broadcastMemo)
	if err != nil {
		return "", fmt.Errorf("failed to simulate transaction: %w", err)
	}

	chainName, err := w.namer.ChainName(tx.ChainID)
	if err != nil {
		return "", err
	}
	price, err := w.pricer.GasPrice(ctx, chainName)
	if err != nil {
		return "", err
	}
	denom, err := gas.FeeDenom(chainName)
	if err != nil {
		return "", err
	}

	fee := ComputeFee(simulated, price, denom)
	return w.broadcaster.SignAndBroadcast(ctx, tx.ChainID, tx.SignerAddress, msgs, fee, broadcastMemo)
}

// ComputeFee pads the simulated gas by the chain's multiplier and prices the
// padded gas at the per-chain gas price, flooring both results.
func ComputeFee(simulatedGas uint64, price gas.CosmosPrice, denom string) Fee {
	multiplier := price.GasLimitMultiplier
	if multiplier == 0 {
		multiplier = gas.DefaultGasLimitMultiplier
	}
	gasLimit := uint64(math.Floor(float64(simulatedGas) * multiplier))
	amount := math.Floor(float64(simulatedGas) * multiplier * price.GasPrice)
	return Fee{
		GasLimit: gasLimit,
		Amount:   strconv.FormatUint(uint64(amount), 10),
		Denom:    denom,
	}
}

// DecodeMsgs converts the venue's message list into signer-ready messages.
// The venue encodes message bodies as snake_case JSON; signing clients
// expect lowerCamel keys. CosmWasm execute messages are special-cased: the
// inner contract msg stays byte-exact, only wrapped, since the contract
// defines its own schema.
func DecodeMsgs(raw []types.CosmosMsg) ([]DecodedMsg, error) {
	out := make([]DecodedMsg, 0, len(raw))
	for _, m := range raw {
		var body map[string]interface{}
		if err := json.Unmarshal([]byte(m.Msg), &body); err != nil {
			return nil, fmt.Errorf("invalid msg body for %s: %w", m.MsgTypeURL, err)
		}

		var value interface{}
		if strings.Contains(m.MsgTypeURL, "cosmwasm") {
			value = wrapWasmMsg(body)
		} else {
			value = camelizeKeys(body)
		}

		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to re-encode msg for %s: %w", m.MsgTypeURL, err)
		}
		out = append(out, DecodedMsg{TypeURL: m.MsgTypeURL, Value: encoded})
	}
	return out, nil
}

// wrapWasmMsg re-encodes the inner contract msg as its compact JSON bytes
// and leaves the outer keys untouched.
func wrapWasmMsg(body map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(body))
	for k, v := range body {
		if k == "msg" {
			inner, err := json.Marshal(v)
			if err == nil {
				out[k] = string(inner)
				continue
			}
		}
		out[k] = v
	}
	return out
}

// camelizeKeys recursively converts every object key to lowerCamel.
func camelizeKeys(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, elem := range v {
			out[strcase.ToLowerCamel(k)] = camelizeKeys(elem)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, elem := range v {
			out[i] = camelizeKeys(elem)
		}
		return out
	default:
		return value
	}
}
