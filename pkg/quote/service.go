package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"skip-bridge/pkg/catalog"
	"skip-bridge/pkg/faults"
	"skip-bridge/pkg/skipclient"
	"skip-bridge/pkg/types"
)

// ErrSuperseded is returned when a newer quote request cancelled this one.
// The stale result is discarded, never applied.
var ErrSuperseded = errors.New("quote request superseded by a newer one")

// RouteNotFoundError is the recoverable "no route" class of quote failure.
// It carries the venue's message verbatim for display and is never reported
// to the fault collector.
type RouteNotFoundError struct {
	Message string
}

func (e *RouteNotFoundError) Error() string {
	return e.Message
}

// noRouteMarkers are the substrings identifying the recoverable quote
// failure class.
var noRouteMarkers = []string{
	"no route",
	"transfer across",
	"bridge relay",
}

// RouteFetcher is the slice of the venue client the service needs.
type RouteFetcher interface {
	GetRoute(ctx context.Context, req *skipclient.RouteRequest) (*skipclient.RouteResponse, error)
}

// SwapVenue produces single-hop swap routes for same-chain pairs the
// alternate swap venue supports.
type SwapVenue interface {
	GetSwapRoute(ctx context.Context, source, dest catalog.Asset, amountIn string) (*types.Route, error)
}

// Service obtains and normalizes routes. Issuing a new request cancels any
// outstanding one: last-request-wins is enforced by explicit cancellation,
// not by comparing results.
type Service struct {
	venue     RouteFetcher
	swapVenue SwapVenue
	catalog   *catalog.Catalog
	collector faults.Collector

	mu         sync.Mutex
	cancelPrev context.CancelFunc
}

// NewService creates a quote service. swapVenue may be nil when no
// alternate same-chain venue is configured.
func NewService(venue RouteFetcher, swapVenue SwapVenue, cat *catalog.Catalog, collector faults.Collector) *Service {
	return &Service{
		venue:     venue,
		swapVenue: swapVenue,
		catalog:   cat,
		collector: collector,
	}
}

// GetRoute requests a route moving amountIn minor units of the source asset
// into the destination asset. Both assets must resolve in the catalog.
func (s *Service) GetRoute(ctx context.Context, source, dest catalog.Asset, amountIn string) (*types.Route, error) {
	amount, ok := new(big.Int).SetString(amountIn, 10)
	if !ok || amount.Sign() <= 0 {
		return nil, fmt.Errorf("amount must be a positive integer in minor units, got '%s'", amountIn)
	}
	if _, err := s.catalog.Asset(source.ChainID, source.Denom); err != nil {
		return nil, fmt.Errorf("source asset: %w", err)
	}
	if _, err := s.catalog.Asset(dest.ChainID, dest.Denom); err != nil {
		return nil, fmt.Errorf("destination asset: %w", err)
	}

	reqCtx := s.begin(ctx)
	defer s.finish()

	// Same-chain pairs the alternate swap venue can serve skip the bridge
	// venue entirely.
	if s.swapVenue != nil && source.ChainID == dest.ChainID &&
		source.SwapVenueSupported && dest.SwapVenueSupported {
		route, err := s.swapVenue.GetSwapRoute(reqCtx, source, dest, amountIn)
		return s.settle(reqCtx, route, err)
	}

	resp, err := s.venue.GetRoute(reqCtx, &skipclient.RouteRequest{
		AmountIn:                  amountIn,
		SourceAssetDenom:          source.Denom,
		SourceAssetChainID:        source.ChainID,
		DestAssetDenom:            dest.Denom,
		DestAssetChainID:          dest.ChainID,
		CumulativeAffiliateFeeBPS: "0",
		AllowMultiTx:              true,
		AllowUnsafe:               true,
		AllowSwaps:                true,
		SmartRelay:                true,
		SmartSwapOptions:          skipclient.SmartSwapOptions{SplitRoutes: true},
		ExperimentalFeatures:      []string{"cctp"},
		Bridges:                   []string{"CCTP", "IBC"},
	})
	if err != nil {
		return s.settle(reqCtx, nil, err)
	}

	route, err := Normalize(resp)
	return s.settle(reqCtx, route, err)
}

// begin cancels the previously outstanding request, if any, and registers
// this one as current.
func (s *Service) begin(ctx context.Context) context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelPrev != nil {
		s.cancelPrev()
	}
	reqCtx, cancel := context.WithCancel(ctx)
	s.cancelPrev = cancel
	return reqCtx
}

func (s *Service) finish() {
	// The cancel func stays registered so the next request can cancel this
	// one even after it returned; nothing to release here.
}

// settle discards results of cancelled requests and classifies errors.
func (s *Service) settle(reqCtx context.Context, route *types.Route, err error) (*types.Route, error) {
	if reqCtx.Err() != nil {
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, s.classify(err)
	}
	return route, nil
}

// classify separates the expected no-route failure class from genuine
// faults. Only the latter reach the collector.
func (s *Service) classify(err error) error {
	msg := strings.ToLower(err.Error())
	for _, marker := range noRouteMarkers {
		if strings.Contains(msg, marker) {
			message := err.Error()
			var apiErr *skipclient.APIError
			if errors.As(err, &apiErr) && apiErr.Message != "" {
				message = apiErr.Message
			}
			return &RouteNotFoundError{Message: message}
		}
	}
	s.collector.CaptureException(err)
	return fmt.Errorf("failed to fetch quote: %w", err)
}

// Normalize converts the venue's route response into the chain-agnostic
// Route, resolving each operation's variant discriminant exactly once.
func Normalize(resp *skipclient.RouteResponse) (*types.Route, error) {
	var envelopes []skipclient.OperationEnvelope
	if len(resp.Operations) > 0 {
		if err := json.Unmarshal(resp.Operations, &envelopes); err != nil {
			return nil, fmt.Errorf("failed to decode route operations: %w", err)
		}
	}

	ops := make([]types.Operation, 0, len(envelopes))
	for _, envelope := range envelopes {
		op, err := envelope.Normalize()
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}

	amountOut := resp.AmountOut
	if amountOut == "" {
		amountOut = resp.EstimatedAmountOut
	}

	return &types.Route{
		AmountIn:               resp.AmountIn,
		AmountOut:              amountOut,
		SourceChainID:          resp.SourceAssetChainID,
		SourceDenom:            resp.SourceAssetDenom,
		DestChainID:            resp.DestAssetChainID,
		DestDenom:              resp.DestAssetDenom,
		ChainIDs:               resp.ChainIDs,
		RequiredChainAddresses: resp.RequiredChainAddresses,
		Operations:             ops,
		RawOperations:          resp.Operations,
		TxsRequired:            resp.TxsRequired,
		EstimatedFees:          resp.EstimatedFees,
		Warning:                resp.Warning,
		USDAmountIn:            resp.USDAmountIn,
		USDAmountOut:           resp.USDAmountOut,
	}, nil
}
