package gas

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultGasLimitMultiplier pads simulated gas before fee computation.
const DefaultGasLimitMultiplier = 1.5

// CosmosPrice is a per-chain gas price quote.
type CosmosPrice struct {
	ChainID            string  `json:"chainId"`
	GasPrice           float64 `json:"gasPrice"`
	GasLimitMultiplier float64 `json:"gasLimitMultiplier"`
}

// cosmosChainDefault is the static fallback used when the pricing endpoint
// is unreachable.
type cosmosChainDefault struct {
	Denom    string
	GasPrice float64
}

// cosmosDefaults is keyed by chain name as the pricing endpoint knows it.
var cosmosDefaults = map[string]cosmosChainDefault{
	"cosmos":    {Denom: "uatom", GasPrice: 0.025},
	"osmosis":   {Denom: "uosmo", GasPrice: 0.025},
	"juno":      {Denom: "ujuno", GasPrice: 0.1},
	"stargaze":  {Denom: "ustars", GasPrice: 1.1},
	"noble":     {Denom: "uusdc", GasPrice: 0.15},
	"coreum":    {Denom: "ucore", GasPrice: 0.0325},
	"injective": {Denom: "inj", GasPrice: 700000000},
	"kujira":    {Denom: "ukuji", GasPrice: 0.0051},
	"evmos":     {Denom: "aevmos", GasPrice: 25000000000},
}

// CosmosPricer fetches per-chain Cosmos gas prices from the pricing
// endpoint, falling back to a static per-chain table on any failure.
type CosmosPricer struct {
	baseURL    string
	httpClient *http.Client
}

// NewCosmosPricer creates a pricer against the given pricing API base URL.
func NewCosmosPricer(baseURL string) *CosmosPricer {
	return &CosmosPricer{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GasPrice returns the gas price quote for a chain name. Fetch failures are
// absorbed into the fallback table; an unknown chain with no fallback entry
// is an error.
func (p *CosmosPricer) GasPrice(ctx context.Context, chainName string) (CosmosPrice, error) {
	chainName = strings.ToLower(chainName)

	price, err := p.fetch(ctx, chainName)
	if err == nil {
		if price.GasLimitMultiplier == 0 {
			price.GasLimitMultiplier = DefaultGasLimitMultiplier
		}
		return price, nil
	}

	fallback, ok := cosmosDefaults[chainName]
	if !ok {
		return CosmosPrice{}, fmt.Errorf("no gas price available for chain '%s': %w", chainName, err)
	}
	return CosmosPrice{
		ChainID:            chainName,
		GasPrice:           fallback.GasPrice,
		GasLimitMultiplier: DefaultGasLimitMultiplier,
	}, nil
}

// FeeDenom returns the fee denom for a chain name from the static table.
func FeeDenom(chainName string) (string, error) {
	entry, ok := cosmosDefaults[strings.ToLower(chainName)]
	if !ok {
		return "", fmt.Errorf("no fee denom known for chain '%s'", chainName)
	}
	return entry.Denom, nil
}

func (p *CosmosPricer) fetch(ctx context.Context, chainName string) (CosmosPrice, error) {
	url := fmt.Sprintf("%s/v1/prices/gas/cosmos/%s", p.baseURL, chainName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return CosmosPrice{}, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return CosmosPrice{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return CosmosPrice{}, fmt.Errorf("pricing API returned status code %d", resp.StatusCode)
	}

	var price CosmosPrice
	if err := json.NewDecoder(resp.Body).Decode(&price); err != nil {
		return CosmosPrice{}, err
	}
	if price.GasPrice == 0 {
		return CosmosPrice{}, fmt.Errorf("pricing API returned no gas price")
	}
	return price, nil
}
