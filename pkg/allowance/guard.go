package allowance

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ErrCheckFailed wraps allowance-read or gas-estimation failures. It is a
// distinct condition from an insufficient allowance: the caller must not
// proceed to the approval step, and must not treat the amount as
// insufficient.
var ErrCheckFailed = errors.New("allowance check failed")

// ERC-20 allowance and approve ABI
const erc20AllowanceABI = `[{"constant":true,"inputs":[{"name":"","type":"address"},{"name":"","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"type":"function"},{"constant":false,"inputs":[{"name":"guy","type":"address"},{"name":"wad","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"type":"function"}]`

// approvalFloorMinorUnits is the minimum approval base applied to
// sub-one-token amounts, to avoid repeated micro-approvals. Together with
// approvalMultiplier this is UX policy, not a protocol requirement.
const approvalFloorMinorUnits = 1000

// approvalMultiplier over-approves so subsequent operations on the same
// spender don't prompt again.
const approvalMultiplier = 10

// ContractReader is the slice of the EVM client the guard needs.
// *ethclient.Client satisfies it.
type ContractReader interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
}

// ApprovalTx holds everything needed to put an approval transaction in
// front of the user and then submit it.
type ApprovalTx struct {
	TokenContract common.Address
	Spender       common.Address
	// Amount is the approval amount written on chain, after the
	// over-approval policy is applied.
	Amount   *big.Int
	Data     []byte
	GasLimit uint64
	GasPrice *big.Int
}

// CheckResult reports whether the current allowance covers the required
// amount. Approval is set only when it does not.
type CheckResult struct {
	Sufficient bool
	Allowance  *big.Int
	Approval   *ApprovalTx
}

// Guard checks ERC-20 allowances and constructs approval transactions.
type Guard struct {
	client ContractReader
	abi    abi.ABI
}

// NewGuard creates a guard over the given EVM client.
func NewGuard(client ContractReader) (*Guard, error) {
	parsed, err := abi.JSON(strings.NewReader(erc20AllowanceABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC20 ABI: %w", err)
	}
	return &Guard{client: client, abi: parsed}, nil
}

// CheckAllowance reads the owner→spender allowance on the token contract
// and, when it falls short of amountRequired, builds the approval
// transaction. decimals is the token's minor-unit exponent, used by the
// over-approval floor.
func (g *Guard) CheckAllowance(ctx context.Context, owner, spender, tokenContract common.Address, amountRequired *big.Int, decimals int) (*CheckResult, error) {
	current, err := g.readAllowance(ctx, owner, spender, tokenContract)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCheckFailed, err)
	}

	if current.Cmp(amountRequired) >= 0 {
		return &CheckResult{Sufficient: true, Allowance: current}, nil
	}

	approvalAmount := ApprovalAmount(amountRequired, decimals)
	data, err := g.abi.Pack("approve", spender, approvalAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCheckFailed, err)
	}

	gasLimit, err := g.client.EstimateGas(ctx, ethereum.CallMsg{
		From:  owner,
		To:    &tokenContract,
		Value: big.NewInt(0),
		Data:  data,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCheckFailed, err)
	}

	gasPrice, err := g.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCheckFailed, err)
	}

	return &CheckResult{
		Sufficient: false,
		Allowance:  current,
		Approval: &ApprovalTx{
			TokenContract: tokenContract,
			Spender:       spender,
			Amount:        approvalAmount,
			Data:          data,
			GasLimit:      gasLimit,
			GasPrice:      gasPrice,
		},
	}, nil
}

// ApprovalAmount applies the over-approval policy: the base is the required
// amount, raised to a floor of 1000 minor units when the requirement is
// below one whole token, then multiplied by 10.
func ApprovalAmount(amountRequired *big.Int, decimals int) *big.Int {
	base := new(big.Int).Set(amountRequired)

	oneWholeToken := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	floor := big.NewInt(approvalFloorMinorUnits)
	if amountRequired.Cmp(oneWholeToken) < 0 && base.Cmp(floor) < 0 {
		base.Set(floor)
	}

	return base.Mul(base, big.NewInt(approvalMultiplier))
}

func (g *Guard) readAllowance(ctx context.Context, owner, spender, tokenContract common.Address) (*big.Int, error) {
	data, err := g.abi.Pack("allowance", owner, spender)
	if err != nil {
		return nil, err
	}

	result, err := g.client.CallContract(ctx, ethereum.CallMsg{
		To:   &tokenContract,
		Data: data,
	}, nil)
	if err != nil {
		return nil, err
	}

	values, err := g.abi.Unpack("allowance", result)
	if err != nil {
		return nil, err
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("unexpected allowance result shape")
	}
	current, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected allowance result type %T", values[0])
	}
	return current, nil
}
