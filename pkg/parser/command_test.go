package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"skip-bridge/pkg/types"
)

func TestParseBridgeCommand(t *testing.T) {
	tests := []struct {
		input string
		want  types.BridgeRequest
	}{
		{"bridge 1 USDC to USDC", types.BridgeRequest{Amount: "1", SourceToken: "USDC", DestToken: "USDC"}},
		{"1.5 ETH to ATOM", types.BridgeRequest{Amount: "1.5", SourceToken: "ETH", DestToken: "ATOM"}},
		{"100.25 usdc to sol", types.BridgeRequest{Amount: "100.25", SourceToken: "USDC", DestToken: "SOL"}},
	}
	for _, tc := range tests {
		req, err := ParseBridgeCommand(tc.input)
		require.NoError(t, err, tc.input)
		require.Equal(t, tc.want.Amount, req.Amount)
		require.Equal(t, tc.want.SourceToken, req.SourceToken)
		require.Equal(t, tc.want.DestToken, req.DestToken)
	}
}

func TestParseBridgeCommandInvalid(t *testing.T) {
	for _, input := range []string{"", "USDC to USDC", "1 USDC", "send it all"} {
		_, err := ParseBridgeCommand(input)
		require.Error(t, err, input)
	}
}

func TestValidateBridgeRequest(t *testing.T) {
	req := &types.BridgeRequest{
		Amount:      "1",
		SourceToken: "USDC",
		DestToken:   "USDC",
		SourceChain: "1",
		DestChain:   "noble-1",
	}
	require.NoError(t, ValidateBridgeRequest(req))

	missing := *req
	missing.DestChain = ""
	require.Error(t, ValidateBridgeRequest(&missing))
}
