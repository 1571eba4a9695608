package coordinator

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"skip-bridge/pkg/allowance"
	"skip-bridge/pkg/catalog"
	"skip-bridge/pkg/confirm"
	"skip-bridge/pkg/faults"
	"skip-bridge/pkg/signer"
	"skip-bridge/pkg/skipclient"
	"skip-bridge/pkg/types"
)

// slippageTolerancePercent is the fixed slippage passed to the venue's
// message-construction endpoint.
const slippageTolerancePercent = "1"

// ErrExecutionFailed wraps non-rejection pipeline failures after they have
// been reported to the fault collector. The wrapped error is for logs; the
// sentinel text is what callers show.
var ErrExecutionFailed = errors.New("bridge execution failed")

// MsgVenue is the slice of the venue client the coordinator needs.
type MsgVenue interface {
	GetMsgs(ctx context.Context, req *skipclient.MsgsRequest) (*skipclient.MsgsResponse, error)
	SubmitTx(ctx context.Context, tx, chainID string) (string, error)
}

// AllowanceChecker is the allowance guard contract for one EVM chain.
type AllowanceChecker interface {
	CheckAllowance(ctx context.Context, owner, spender, tokenContract ethcommon.Address, amountRequired *big.Int, decimals int) (*allowance.CheckResult, error)
}

// StatusRegistrar receives every submitted hash for tracking.
type StatusRegistrar interface {
	Track(ctx context.Context, txHash, chainID string) error
}

// Result reports what a route execution accomplished.
type Result struct {
	Submitted []types.SubmittedTx
	// SignaturesRemaining counts down from the route's signature count as
	// submissions succeed; a full run ends at zero.
	SignaturesRemaining int
}

// Coordinator walks a route's required transactions in order, gating each
// step on user confirmation, checking ERC-20 allowances where an EVM
// transfer requires them, dispatching the right chain-family signer and
// registering every submitted hash with the status tracker.
type Coordinator struct {
	venue     MsgVenue
	catalog   *catalog.Catalog
	addresses *catalog.AddressBook
	signers   *signer.Registry
	guards    map[string]AllowanceChecker // keyed by EVM chain id
	gate      *confirm.Gate
	tracker   StatusRegistrar
	collector faults.Collector
}

// New wires a coordinator. guards may be nil when no EVM chain is
// configured.
func New(venue MsgVenue, cat *catalog.Catalog, addresses *catalog.AddressBook, signers *signer.Registry, guards map[string]AllowanceChecker, gate *confirm.Gate, reg StatusRegistrar, collector faults.Collector) *Coordinator {
	if guards == nil {
		guards = make(map[string]AllowanceChecker)
	}
	return &Coordinator{
		venue:     venue,
		catalog:   cat,
		addresses: addresses,
		signers:   signers,
		guards:    guards,
		gate:      gate,
		tracker:   reg,
		collector: collector,
	}
}

// Execute runs the route end to end. A user rejection aborts the remaining
// steps and is returned as-is, unreported; any other failure also aborts,
// is reported to the fault collector and comes back wrapped in
// ErrExecutionFailed. Transactions already submitted stay submitted either
// way; there is no rollback.
func (c *Coordinator) Execute(ctx context.Context, route *types.Route) (*Result, error) {
	result := &Result{SignaturesRemaining: route.TxsRequired}

	err := c.run(ctx, route, result)
	if err != nil {
		if signer.IsUserRejection(err) {
			return result, err
		}
		c.collector.CaptureException(err)
		return result, fmt.Errorf("%w: %v", ErrExecutionFailed, err)
	}
	return result, nil
}

func (c *Coordinator) run(ctx context.Context, route *types.Route, result *Result) error {
	addresses, err := c.addresses.Addresses(route.RequiredChainAddresses)
	if err != nil {
		return err
	}

	msgs, err := c.venue.GetMsgs(ctx, &skipclient.MsgsRequest{
		SourceAssetDenom:         route.SourceDenom,
		SourceAssetChainID:       route.SourceChainID,
		DestAssetDenom:           route.DestDenom,
		DestAssetChainID:         route.DestChainID,
		AmountIn:                 route.AmountIn,
		AmountOut:                route.AmountOut,
		AddressList:              addresses,
		SlippageTolerancePercent: slippageTolerancePercent,
		Operations:               route.RawOperations,
	})
	if err != nil {
		return fmt.Errorf("failed to fetch transaction messages: %w", err)
	}

	for _, pending := range groupByFamily(msgs.Txs) {
		var submitted types.SubmittedTx
		var stepErr error
		switch pending.Family {
		case types.FamilyEVM:
			submitted, stepErr = c.processEVM(ctx, pending.EVM)
		case types.FamilyCosmos:
			submitted, stepErr = c.processCosmos(ctx, pending.Cosmos)
		case types.FamilySolana:
			submitted, stepErr = c.processSolana(ctx, pending.Solana)
		}
		if stepErr != nil {
			return stepErr
		}

		result.Submitted = append(result.Submitted, submitted)
		result.SignaturesRemaining--

		if err := c.tracker.Track(ctx, submitted.Hash, submitted.ChainID); err != nil {
			return err
		}
	}
	return nil
}

// groupByFamily orders the venue's transaction list into the processing
// order: EVM transactions first, then Cosmos, then Solana, each preserving
// the order received.
func groupByFamily(txs []skipclient.TxEnvelope) []types.PendingTransaction {
	pending := make([]types.PendingTransaction, 0, len(txs))
	for _, env := range txs {
		if env.EVMTx != nil {
			pending = append(pending, types.PendingTransaction{
				ChainID: env.EVMTx.ChainID,
				Family:  types.FamilyEVM,
				EVM:     env.EVMTx,
			})
		}
	}
	for _, env := range txs {
		if env.CosmosTx != nil {
			pending = append(pending, types.PendingTransaction{
				ChainID: env.CosmosTx.ChainID,
				Family:  types.FamilyCosmos,
				Cosmos:  env.CosmosTx,
			})
		}
	}
	for _, env := range txs {
		if env.SVMTx != nil {
			pending = append(pending, types.PendingTransaction{
				ChainID: env.SVMTx.ChainID,
				Family:  types.FamilySolana,
				Solana:  env.SVMTx,
			})
		}
	}
	return pending
}

func (c *Coordinator) processEVM(ctx context.Context, tx *types.EVMTx) (types.SubmittedTx, error) {
	evmSigner, err := c.signers.EVM(tx.ChainID)
	if err != nil {
		return types.SubmittedTx{}, err
	}

	for _, approval := range tx.RequiredERC20Approvals {
		if err := c.ensureAllowance(ctx, evmSigner, tx.ChainID, approval); err != nil {
			return types.SubmittedTx{}, err
		}
	}

	approved, err := c.gate.Request(ctx, confirm.Prompt{
		Title:   "Send tokens",
		ChainID: tx.ChainID,
		Details: map[string]string{
			"to":    tx.To,
			"value": tx.Value,
		},
	})
	if err != nil {
		return types.SubmittedTx{}, err
	}
	if !approved {
		return types.SubmittedTx{}, fmt.Errorf("send tokens %w", signer.ErrUserRejected)
	}

	hash, err := evmSigner.SignAndSend(ctx, tx)
	if err != nil {
		return types.SubmittedTx{}, err
	}
	return types.SubmittedTx{Hash: hash, ChainID: tx.ChainID}, nil
}

// ensureAllowance runs one allowance-check-and-optionally-approve cycle.
// The approval transaction is a prerequisite, not a route hop: it is not
// tracked and does not consume a route signature.
func (c *Coordinator) ensureAllowance(ctx context.Context, evmSigner signer.EVMSigner, chainID string, req types.ApprovalRequirement) (err error) {
	guard, ok := c.guards[chainID]
	if !ok {
		return fmt.Errorf("no allowance guard configured for chain %s", chainID)
	}

	amount, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok {
		return fmt.Errorf("invalid approval amount: %s", req.Amount)
	}

	decimals := 18
	if asset, assetErr := c.catalog.Asset(chainID, req.TokenContract); assetErr == nil {
		decimals = asset.Decimals
	}

	check, err := guard.CheckAllowance(ctx,
		ethcommon.HexToAddress(evmSigner.OwnerAddress()),
		ethcommon.HexToAddress(req.Spender),
		ethcommon.HexToAddress(req.TokenContract),
		amount, decimals)
	if err != nil {
		return err
	}
	if check.Sufficient {
		return nil
	}

	approved, err := c.gate.Request(ctx, confirm.Prompt{
		Title:   "Approve token access",
		ChainID: chainID,
		Details: map[string]string{
			"token":   req.TokenContract,
			"spender": req.Spender,
			"amount":  check.Approval.Amount.String(),
		},
	})
	if err != nil {
		return err
	}
	if !approved {
		return fmt.Errorf("token approval %w", signer.ErrUserRejected)
	}

	if _, err := evmSigner.SendApproval(ctx, check.Approval); err != nil {
		return fmt.Errorf("failed to submit approval: %w", err)
	}
	return nil
}

func (c *Coordinator) processCosmos(ctx context.Context, tx *types.CosmosTx) (types.SubmittedTx, error) {
	cosmosSigner, err := c.signers.Cosmos()
	if err != nil {
		return types.SubmittedTx{}, err
	}

	approved, err := c.gate.Request(ctx, confirm.Prompt{
		Title:   "Sign transfer",
		ChainID: tx.ChainID,
		Details: map[string]string{"signer": tx.SignerAddress},
	})
	if err != nil {
		return types.SubmittedTx{}, err
	}
	if !approved {
		return types.SubmittedTx{}, fmt.Errorf("transfer %w", signer.ErrUserRejected)
	}

	hash, err := cosmosSigner.SignAndBroadcast(ctx, tx)
	if err != nil {
		return types.SubmittedTx{}, err
	}
	return types.SubmittedTx{Hash: hash, ChainID: tx.ChainID}, nil
}

func (c *Coordinator) processSolana(ctx context.Context, tx *types.SolanaTx) (types.SubmittedTx, error) {
	solanaSigner, err := c.signers.Solana()
	if err != nil {
		return types.SubmittedTx{}, err
	}

	approved, err := c.gate.Request(ctx, confirm.Prompt{
		Title:   "Sign transfer",
		ChainID: tx.ChainID,
		Details: map[string]string{"signer": tx.SignerAddress},
	})
	if err != nil {
		return types.SubmittedTx{}, err
	}
	if !approved {
		return types.SubmittedTx{}, fmt.Errorf("transfer %w", signer.ErrUserRejected)
	}

	signed, err := solanaSigner.SignTransaction(ctx, tx)
	if err != nil {
		return types.SubmittedTx{}, err
	}

	// The venue broadcasts Solana transactions itself.
	hash, err := c.venue.SubmitTx(ctx, signed, tx.ChainID)
	if err != nil {
		return types.SubmittedTx{}, fmt.Errorf("failed to submit transaction: %w", err)
	}
	return types.SubmittedTx{Hash: hash, ChainID: tx.ChainID}, nil
}
