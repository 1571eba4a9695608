package allowance

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	allowance    *big.Int
	callErr      error
	estimateErr  error
	gasEstimated bool
}

func (f *fakeReader) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if f.callErr != nil {
		return nil, f.callErr
	}
	return common.LeftPadBytes(f.allowance.Bytes(), 32), nil
}

func (f *fakeReader) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	if f.estimateErr != nil {
		return 0, f.estimateErr
	}
	f.gasEstimated = true
	return 60000, nil
}

func (f *fakeReader) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(20_000_000_000), nil
}

var (
	owner    = common.HexToAddress("0x1111111111111111111111111111111111111111")
	spender  = common.HexToAddress("0x2222222222222222222222222222222222222222")
	contract = common.HexToAddress("0x3333333333333333333333333333333333333333")
)

func TestCheckAllowanceSufficient(t *testing.T) {
	reader := &fakeReader{allowance: big.NewInt(5_000_000)}
	guard, err := NewGuard(reader)
	require.NoError(t, err)

	result, err := guard.CheckAllowance(context.Background(), owner, spender, contract, big.NewInt(1_000_000), 6)
	require.NoError(t, err)
	require.True(t, result.Sufficient)
	require.Equal(t, big.NewInt(5_000_000), result.Allowance)
	require.Nil(t, result.Approval)
	require.False(t, reader.gasEstimated, "no approval must be prepared when the allowance covers the amount")
}

func TestCheckAllowanceInsufficientBuildsApproval(t *testing.T) {
	reader := &fakeReader{allowance: big.NewInt(0)}
	guard, err := NewGuard(reader)
	require.NoError(t, err)

	result, err := guard.CheckAllowance(context.Background(), owner, spender, contract, big.NewInt(2_000_000), 6)
	require.NoError(t, err)
	require.False(t, result.Sufficient)
	require.NotNil(t, result.Approval)
	require.Equal(t, big.NewInt(20_000_000), result.Approval.Amount)
	require.Equal(t, contract, result.Approval.TokenContract)
	require.Equal(t, spender, result.Approval.Spender)
	require.Equal(t, uint64(60000), result.Approval.GasLimit)
	require.NotEmpty(t, result.Approval.Data)
}

func TestCheckAllowanceReadFailure(t *testing.T) {
	reader := &fakeReader{callErr: errors.New("rpc down")}
	guard, err := NewGuard(reader)
	require.NoError(t, err)

	_, err = guard.CheckAllowance(context.Background(), owner, spender, contract, big.NewInt(1), 6)
	require.ErrorIs(t, err, ErrCheckFailed)
}

func TestCheckAllowanceEstimateFailure(t *testing.T) {
	reader := &fakeReader{allowance: big.NewInt(0), estimateErr: errors.New("execution reverted")}
	guard, err := NewGuard(reader)
	require.NoError(t, err)

	_, err = guard.CheckAllowance(context.Background(), owner, spender, contract, big.NewInt(1_000_000), 6)
	require.ErrorIs(t, err, ErrCheckFailed)
}

func TestApprovalAmount(t *testing.T) {
	tests := []struct {
		name     string
		required int64
		decimals int
		want     int64
	}{
		{name: "above floor", required: 2_000_000, decimals: 6, want: 20_000_000},
		{name: "sub one token below floor", required: 500, decimals: 6, want: 10_000},
		{name: "sub one token at floor", required: 1000, decimals: 6, want: 10_000},
		{name: "small amount of low decimal token", required: 500, decimals: 2, want: 5_000},
		{name: "exactly one token", required: 1_000_000, decimals: 6, want: 10_000_000},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ApprovalAmount(big.NewInt(tc.required), tc.decimals)
			require.Equal(t, big.NewInt(tc.want), got)
		})
	}
}
