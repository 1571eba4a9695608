package parser

import (
	"fmt"
	"regexp"
	"strings"

	"skip-bridge/pkg/types"
)

// ParseBridgeCommand parses a natural language bridge command
// Examples:
//   - "bridge 1 USDC to USDC"
//   - "1.5 ETH to ATOM"
//   - "100 USDC to SOL"
func ParseBridgeCommand(command string) (*types.BridgeRequest, error) {
	// Normalize the command
	command = strings.TrimSpace(strings.ToUpper(command))

	// Remove the word "BRIDGE" if present at the beginning
	command = strings.TrimPrefix(command, "BRIDGE ")

	// Pattern: <amount> <source_token> TO <dest_token>
	// Matches: "1 USDC TO USDC", "1.5 ETH TO ATOM", "100.25 USDC TO SOL"
	pattern := regexp.MustCompile(`^(\d+\.?\d*)\s+([A-Z0-9]+)\s+TO\s+([A-Z0-9]+)$`)

	matches := pattern.FindStringSubmatch(command)
	if matches == nil {
		return nil, fmt.Errorf("invalid bridge command format. Expected: 'bridge <amount> <token> to <token>' (e.g., 'bridge 1 USDC to USDC')")
	}

	return &types.BridgeRequest{
		Amount:      matches[1],
		SourceToken: matches[2],
		DestToken:   matches[3],
	}, nil
}

// ValidateBridgeRequest validates that a bridge request has all required fields
func ValidateBridgeRequest(req *types.BridgeRequest) error {
	if req.Amount == "" {
		return fmt.Errorf("amount is required")
	}
	if req.SourceToken == "" {
		return fmt.Errorf("source token is required")
	}
	if req.DestToken == "" {
		return fmt.Errorf("destination token is required")
	}
	if req.SourceChain == "" {
		return fmt.Errorf("source chain is required")
	}
	if req.DestChain == "" {
		return fmt.Errorf("destination chain is required")
	}
	return nil
}
