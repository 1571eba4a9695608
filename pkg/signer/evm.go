package signer

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"skip-bridge/config"
	"skip-bridge/pkg/allowance"
	"skip-bridge/pkg/types"
)

// EVMWallet signs and broadcasts legacy transactions on one EVM chain.
type EVMWallet struct {
	network    config.EVMNetwork
	client     *ethclient.Client
	privateKey *ecdsa.PrivateKey
	address    ethcommon.Address
}

// NewEVMWallet connects to the network's RPC endpoint and loads its key.
func NewEVMWallet(network config.EVMNetwork) (*EVMWallet, error) {
	if network.RPCUrl == "" {
		return nil, fmt.Errorf("RPC URL not configured for chain %d", network.ChainID)
	}
	if network.PrivateKey == "" {
		return nil, fmt.Errorf("private key not configured for chain %d", network.ChainID)
	}

	client, err := ethclient.Dial(network.RPCUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}

	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(network.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	publicKey, ok := privateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("failed to derive public key")
	}

	return &EVMWallet{
		network:    network,
		client:     client,
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(*publicKey),
	}, nil
}

// Address returns the wallet's address on this chain.
func (w *EVMWallet) Address() ethcommon.Address {
	return w.address
}

// OwnerAddress returns the wallet's hex address.
func (w *EVMWallet) OwnerAddress() string {
	return w.address.Hex()
}

// Client exposes the underlying RPC client for allowance reads.
func (w *EVMWallet) Client() *ethclient.Client {
	return w.client
}

// SignAndSend builds a legacy transaction from the venue's description,
// signs it with EIP-155 and broadcasts it. It returns as soon as the hash
// is known; confirmation is the status tracker's job.
func (w *EVMWallet) SignAndSend(ctx context.Context, tx *types.EVMTx) (string, error) {
	to := ethcommon.HexToAddress(tx.To)
	if !ethcommon.IsHexAddress(tx.To) {
		return "", fmt.Errorf("invalid destination address: %s", tx.To)
	}

	value := big.NewInt(0)
	if tx.Value != "" {
		parsed, ok := new(big.Int).SetString(tx.Value, 10)
		if !ok {
			return "", fmt.Errorf("invalid transaction value: %s", tx.Value)
		}
		value = parsed
	}

	data, err := hex.DecodeString(strings.TrimPrefix(tx.Data, "0x"))
	if err != nil {
		return "", fmt.Errorf("invalid transaction data: %w", err)
	}

	signed, err := w.buildAndSign(ctx, to, value, data)
	if err != nil {
		return "", err
	}

	if err := w.client.SendTransaction(ctx, signed); err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}
	return signed.Hash().Hex(), nil
}

// SendApproval signs and broadcasts a prepared ERC-20 approval, whose gas
// parameters were already estimated by the allowance guard.
func (w *EVMWallet) SendApproval(ctx context.Context, approval *allowance.ApprovalTx) (string, error) {
	nonce, err := w.client.PendingNonceAt(ctx, w.address)
	if err != nil {
		return "", fmt.Errorf("failed to get nonce: %w", err)
	}

	tx := ethtypes.NewTransaction(nonce, approval.TokenContract, big.NewInt(0), approval.GasLimit, approval.GasPrice, approval.Data)
	signed, err := ethtypes.SignTx(tx, ethtypes.NewEIP155Signer(big.NewInt(w.network.ChainID)), w.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := w.client.SendTransaction(ctx, signed); err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}
	return signed.Hash().Hex(), nil
}

func (w *EVMWallet) buildAndSign(ctx context.Context, to ethcommon.Address, value *big.Int, data []byte) (*ethtypes.Transaction, error) {
	nonce, err := w.client.PendingNonceAt(ctx, w.address)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := w.gasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}

	gasLimit, err := w.gasLimit(ctx, to, value, data)
	if err != nil {
		return nil, fmt.Errorf("failed to estimate gas: %w", err)
	}

	tx := ethtypes.NewTransaction(nonce, to, value, gasLimit, gasPrice, data)
	signed, err := ethtypes.SignTx(tx, ethtypes.NewEIP155Signer(big.NewInt(w.network.ChainID)), w.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return signed, nil
}

func (w *EVMWallet) gasPrice(ctx context.Context) (*big.Int, error) {
	if w.network.GasPrice != nil {
		return big.NewInt(*w.network.GasPrice), nil
	}
	return w.client.SuggestGasPrice(ctx)
}

func (w *EVMWallet) gasLimit(ctx context.Context, to ethcommon.Address, value *big.Int, data []byte) (uint64, error) {
	if w.network.GasLimit != nil {
		return *w.network.GasLimit, nil
	}
	estimated, err := w.client.EstimateGas(ctx, ethereum.CallMsg{
		From:  w.address,
		To:    &to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return 0, err
	}
	// 20% buffer over the node's estimate
	return estimated * 120 / 100, nil
}
