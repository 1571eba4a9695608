package signer

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"skip-bridge/pkg/gas"
	"skip-bridge/pkg/types"
)

func TestDecodeMsgsCamelizesKeys(t *testing.T) {
	raw := []types.CosmosMsg{{
		MsgTypeURL: "/ibc.applications.transfer.v1.MsgTransfer",
		Msg: `{
			"source_port": "transfer",
			"source_channel": "channel-0",
			"timeout_height": {"revision_number": "1", "revision_height": "100"},
			"token": {"denom": "uatom", "amount": "1000"}
		}`,
	}}

	decoded, err := DecodeMsgs(raw)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	require.Equal(t, "/ibc.applications.transfer.v1.MsgTransfer", decoded[0].TypeURL)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(decoded[0].Value, &body))
	require.Contains(t, body, "sourcePort")
	require.Contains(t, body, "sourceChannel")
	require.NotContains(t, body, "source_port")

	// nested objects are converted too
	height, ok := body["timeoutHeight"].(map[string]interface{})
	require.True(t, ok)
	require.Contains(t, height, "revisionNumber")
	require.Contains(t, height, "revisionHeight")
}

func TestDecodeMsgsKeepsWasmContractMsgRaw(t *testing.T) {
	raw := []types.CosmosMsg{{
		MsgTypeURL: "/cosmwasm.wasm.v1.MsgExecuteContract",
		Msg: `{
			"sender": "osmo1abc",
			"contract": "osmo1contract",
			"msg": {"swap_and_action": {"min_asset": {"native": {"denom": "uosmo", "amount": "1"}}}},
			"funds": [{"denom": "uosmo", "amount": "1000"}]
		}`,
	}}

	decoded, err := DecodeMsgs(raw)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(decoded[0].Value, &body))

	// outer keys stay snake_case for wasm messages
	require.Contains(t, body, "sender")
	require.Contains(t, body, "contract")
	require.Contains(t, body, "funds")

	// the inner contract msg is re-encoded as a string, schema untouched
	inner, ok := body["msg"].(string)
	require.True(t, ok)
	require.JSONEq(t, `{"swap_and_action": {"min_asset": {"native": {"denom": "uosmo", "amount": "1"}}}}`, inner)
}

func TestDecodeMsgsInvalidBody(t *testing.T) {
	raw := []types.CosmosMsg{{MsgTypeURL: "/cosmos.bank.v1beta1.MsgSend", Msg: "not-json"}}
	_, err := DecodeMsgs(raw)
	require.Error(t, err)
}

func TestComputeFee(t *testing.T) {
	fee := ComputeFee(80000, gas.CosmosPrice{GasPrice: 0.025, GasLimitMultiplier: 1.5}, "uatom")
	require.Equal(t, uint64(120000), fee.GasLimit)
	require.Equal(t, "3000", fee.Amount)
	require.Equal(t, "uatom", fee.Denom)

	// a zero multiplier falls back to the default padding
	fee = ComputeFee(100000, gas.CosmosPrice{GasPrice: 0.1}, "ujuno")
	require.Equal(t, uint64(150000), fee.GasLimit)
	require.Equal(t, "15000", fee.Amount)
}

type scriptedBroadcaster struct {
	simGas    uint64
	lastFee   Fee
	lastMsgs  []DecodedMsg
	lastMemo  string
	lastChain string
}

func (b *scriptedBroadcaster) Simulate(ctx context.Context, chainID, signerAddress string, msgs []DecodedMsg, memo string) (uint64, error) {
	return b.simGas, nil
}

func (b *scriptedBroadcaster) SignAndBroadcast(ctx context.Context, chainID, signerAddress string, msgs []DecodedMsg, fee Fee, memo string) (string, error) {
	b.lastChain = chainID
	b.lastMsgs = msgs
	b.lastFee = fee
	b.lastMemo = memo
	return "cosmos-hash", nil
}

type staticNamer map[string]string

func (n staticNamer) ChainName(chainID string) (string, error) {
	return n[chainID], nil
}

func TestCosmosWalletSignAndBroadcast(t *testing.T) {
	broadcaster := &scriptedBroadcaster{simGas: 80000}
	// unreachable pricing endpoint forces the static fallback table
	pricer := gas.NewCosmosPricer("http://127.0.0.1:0")
	namer := staticNamer{"cosmoshub-4": "cosmos"}

	wallet := NewCosmosWallet(broadcaster, pricer, namer)
	hash, err := wallet.SignAndBroadcast(context.Background(), &types.CosmosTx{
		ChainID:       "cosmoshub-4",
		SignerAddress: "cosmos1abc",
		Msgs: []types.CosmosMsg{{
			MsgTypeURL: "/cosmos.bank.v1beta1.MsgSend",
			Msg:        `{"from_address": "cosmos1abc", "to_address": "cosmos1def", "amount": [{"denom": "uatom", "amount": "1000"}]}`,
		}},
	})
	require.NoError(t, err)
	require.Equal(t, "cosmos-hash", hash)
	require.Equal(t, "cosmoshub-4", broadcaster.lastChain)
	require.Len(t, broadcaster.lastMsgs, 1)

	// fee from the fallback gas price: 80000 * 1.5 * 0.025
	require.Equal(t, uint64(120000), broadcaster.lastFee.GasLimit)
	require.Equal(t, "3000", broadcaster.lastFee.Amount)
	require.Equal(t, "uatom", broadcaster.lastFee.Denom)
}
