package quote

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"skip-bridge/pkg/catalog"
	"skip-bridge/pkg/skipclient"
	"skip-bridge/pkg/types"
)

type fakeVenue struct {
	fetch func(ctx context.Context, req *skipclient.RouteRequest) (*skipclient.RouteResponse, error)
}

func (f *fakeVenue) GetRoute(ctx context.Context, req *skipclient.RouteRequest) (*skipclient.RouteResponse, error) {
	return f.fetch(ctx, req)
}

type captureCollector struct {
	mu   sync.Mutex
	errs []error
}

func (c *captureCollector) CaptureException(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs = append(c.errs, err)
}

func (c *captureCollector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.errs)
}

func testCatalog() (*catalog.Catalog, catalog.Asset, catalog.Asset) {
	cat := catalog.New()
	source := catalog.Asset{ChainID: "1", Denom: "0xusdc", Symbol: "USDC", Decimals: 6}
	dest := catalog.Asset{ChainID: "noble-1", Denom: "uusdc", Symbol: "USDC", Decimals: 6}
	cat.RegisterAsset(source)
	cat.RegisterAsset(dest)
	return cat, source, dest
}

func TestGetRouteNormalizesOperations(t *testing.T) {
	operations := json.RawMessage(`[
		{"transfer": {"from_chain_id": "1", "to_chain_id": "noble-1", "denom_in": "0xusdc", "denom_out": "uusdc", "amount_in": "1000000", "amount_out": "999000"}},
		{"cctp_transfer": {"chain_id": "noble-1", "denom_in": "uusdc", "amount_in": "999000", "amount_out": "999000"}}
	]`)

	venue := &fakeVenue{
		fetch: func(ctx context.Context, req *skipclient.RouteRequest) (*skipclient.RouteResponse, error) {
			require.Equal(t, "1000000", req.AmountIn)
			require.Equal(t, "0", req.CumulativeAffiliateFeeBPS)
			require.True(t, req.AllowMultiTx)
			return &skipclient.RouteResponse{
				AmountIn:           "1000000",
				EstimatedAmountOut: "999000",
				SourceAssetChainID: "1",
				SourceAssetDenom:   "0xusdc",
				DestAssetChainID:   "noble-1",
				DestAssetDenom:     "uusdc",
				ChainIDs:           []string{"1", "noble-1"},
				TxsRequired:        1,
				Operations:         operations,
			}, nil
		},
	}

	cat, source, dest := testCatalog()
	collector := &captureCollector{}
	svc := NewService(venue, nil, cat, collector)

	route, err := svc.GetRoute(context.Background(), source, dest, "1000000")
	require.NoError(t, err)

	require.Len(t, route.Operations, 2)
	require.Equal(t, types.OpTransfer, route.Operations[0].Kind)
	require.Equal(t, "1", route.Operations[0].FromChainID)
	require.Equal(t, types.OpCCTPTransfer, route.Operations[1].Kind)
	// variants reporting a bare chain_id resolve it as the from chain
	require.Equal(t, "noble-1", route.Operations[1].FromChainID)

	// amount_out falls back to the estimate when absent
	require.Equal(t, "999000", route.AmountOut)
	// the original operations payload is kept for the msgs endpoint
	require.JSONEq(t, string(operations), string(route.RawOperations))
	require.Zero(t, collector.count())
}

func TestGetRouteClassifiesNoRoute(t *testing.T) {
	venue := &fakeVenue{
		fetch: func(ctx context.Context, req *skipclient.RouteRequest) (*skipclient.RouteResponse, error) {
			return nil, &skipclient.APIError{StatusCode: 400, Message: "no route found between assets"}
		},
	}

	cat, source, dest := testCatalog()
	collector := &captureCollector{}
	svc := NewService(venue, nil, cat, collector)

	_, err := svc.GetRoute(context.Background(), source, dest, "1000000")
	var notFound *RouteNotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "no route found between assets", notFound.Message)
	require.Zero(t, collector.count(), "no-route failures must not reach the collector")
}

func TestGetRouteReportsGenuineFaults(t *testing.T) {
	venue := &fakeVenue{
		fetch: func(ctx context.Context, req *skipclient.RouteRequest) (*skipclient.RouteResponse, error) {
			return nil, errors.New("connection reset")
		},
	}

	cat, source, dest := testCatalog()
	collector := &captureCollector{}
	svc := NewService(venue, nil, cat, collector)

	_, err := svc.GetRoute(context.Background(), source, dest, "1000000")
	require.Error(t, err)
	var notFound *RouteNotFoundError
	require.False(t, errors.As(err, &notFound))
	require.Equal(t, 1, collector.count())
}

func TestGetRouteRejectsBadInput(t *testing.T) {
	venue := &fakeVenue{
		fetch: func(ctx context.Context, req *skipclient.RouteRequest) (*skipclient.RouteResponse, error) {
			t.Fatal("venue must not be called for invalid input")
			return nil, nil
		},
	}
	cat, source, dest := testCatalog()
	svc := NewService(venue, nil, cat, &captureCollector{})

	_, err := svc.GetRoute(context.Background(), source, dest, "0")
	require.Error(t, err)

	_, err = svc.GetRoute(context.Background(), source, dest, "1.5")
	require.Error(t, err)

	unknown := catalog.Asset{ChainID: "1", Denom: "0xmissing"}
	_, err = svc.GetRoute(context.Background(), unknown, dest, "1000000")
	require.Error(t, err)
}

func TestGetRouteDiscardsSupersededRequest(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	calls := 0

	venue := &fakeVenue{
		fetch: func(ctx context.Context, req *skipclient.RouteRequest) (*skipclient.RouteResponse, error) {
			calls++
			if calls == 1 {
				close(started)
				<-release
				// first request keeps going and even produces a result; the
				// service must still discard it
				return &skipclient.RouteResponse{AmountIn: "stale"}, nil
			}
			return &skipclient.RouteResponse{AmountIn: req.AmountIn}, nil
		},
	}

	cat, source, dest := testCatalog()
	svc := NewService(venue, nil, cat, &captureCollector{})

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = svc.GetRoute(context.Background(), source, dest, "1000000")
	}()

	<-started
	route, err := svc.GetRoute(context.Background(), source, dest, "2000000")
	require.NoError(t, err)
	require.Equal(t, "2000000", route.AmountIn)

	close(release)
	wg.Wait()
	require.ErrorIs(t, firstErr, ErrSuperseded)
}

type fakeSwapVenue struct {
	calls int
}

func (f *fakeSwapVenue) GetSwapRoute(ctx context.Context, source, dest catalog.Asset, amountIn string) (*types.Route, error) {
	f.calls++
	return &types.Route{AmountIn: amountIn, SourceChainID: source.ChainID, DestChainID: dest.ChainID}, nil
}

func TestSameChainPairUsesSwapVenue(t *testing.T) {
	venue := &fakeVenue{
		fetch: func(ctx context.Context, req *skipclient.RouteRequest) (*skipclient.RouteResponse, error) {
			t.Fatal("bridge venue must not be called for a supported same-chain pair")
			return nil, nil
		},
	}

	cat := catalog.New()
	source := catalog.Asset{ChainID: "1", Denom: "0xusdc", Symbol: "USDC", Decimals: 6, SwapVenueSupported: true}
	dest := catalog.Asset{ChainID: "1", Denom: "0xweth", Symbol: "WETH", Decimals: 18, SwapVenueSupported: true}
	cat.RegisterAsset(source)
	cat.RegisterAsset(dest)

	swap := &fakeSwapVenue{}
	svc := NewService(venue, swap, cat, &captureCollector{})

	route, err := svc.GetRoute(context.Background(), source, dest, "1000000")
	require.NoError(t, err)
	require.Equal(t, 1, swap.calls)
	require.Equal(t, "1", route.SourceChainID)
}
