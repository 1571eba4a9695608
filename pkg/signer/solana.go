package signer

import (
	"context"
	"encoding/base64"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"skip-bridge/config"
	"skip-bridge/pkg/types"
)

// SolanaWallet signs the venue's opaque Solana transaction payloads. The
// venue broadcasts the signed blob itself, so no RPC connection is needed
// for the signing path.
type SolanaWallet struct {
	privateKey solana.PrivateKey
	publicKey  solana.PublicKey
}

// NewSolanaWallet loads the wallet key from configuration.
func NewSolanaWallet(cfg config.SolanaConfig) (*SolanaWallet, error) {
	if cfg.PrivateKey == "" {
		return nil, fmt.Errorf("private key not configured for Solana")
	}

	privateKey, err := solana.PrivateKeyFromBase58(cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	return &SolanaWallet{
		privateKey: privateKey,
		publicKey:  privateKey.PublicKey(),
	}, nil
}

// Address returns the wallet's base58 address.
func (w *SolanaWallet) Address() string {
	return w.publicKey.String()
}

// SignTransaction decodes the base64 payload, partially signs it with the
// wallet key and re-encodes it for the venue's submit endpoint.
func (w *SolanaWallet) SignTransaction(ctx context.Context, tx *types.SolanaTx) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(tx.Tx)
	if err != nil {
		return "", fmt.Errorf("invalid transaction payload: %w", err)
	}

	decoded, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return "", fmt.Errorf("failed to decode transaction: %w", err)
	}

	_, err = decoded.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(w.publicKey) {
			return &w.privateKey
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	signed, err := decoded.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("failed to serialize transaction: %w", err)
	}
	return base64.StdEncoding.EncodeToString(signed), nil
}
