package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"skip-bridge/pkg/skipclient"
	"skip-bridge/pkg/types"
)

// Chain describes one chain the venue can route through.
type Chain struct {
	ChainID   string
	ChainName string
	Family    types.ChainFamily
}

// Asset describes one token on one chain.
type Asset struct {
	ChainID       string
	Denom         string
	Symbol        string
	Name          string
	Decimals      int
	TokenContract string
	// SwapVenueSupported marks assets the alternate same-chain swap venue
	// can handle; a same-chain pair takes that path only when both sides
	// carry the flag.
	SwapVenueSupported bool
}

// Catalog is a read-only registry of chains and assets. It is populated
// once, either from the venue's info endpoints or by explicit registration,
// and safe for concurrent reads afterwards.
type Catalog struct {
	mu     sync.RWMutex
	chains map[string]Chain            // chain id -> chain
	assets map[string]map[string]Asset // chain id -> denom -> asset
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		chains: make(map[string]Chain),
		assets: make(map[string]map[string]Asset),
	}
}

// Populate loads chains and assets from the venue.
func (c *Catalog) Populate(ctx context.Context, client *skipclient.Client) error {
	chains, err := client.GetChains(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch chains: %w", err)
	}
	assets, err := client.GetAssets(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch assets: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, chain := range chains {
		c.chains[chain.ChainID] = Chain{
			ChainID:   chain.ChainID,
			ChainName: chain.ChainName,
			Family:    familyFromChainType(chain.ChainType),
		}
	}
	for chainID, entry := range assets.ChainToAssetsMap {
		byDenom := make(map[string]Asset, len(entry.Assets))
		for _, a := range entry.Assets {
			symbol := a.RecommendedSymbol
			if symbol == "" {
				symbol = a.Symbol
			}
			byDenom[a.Denom] = Asset{
				ChainID:       chainID,
				Denom:         a.Denom,
				Symbol:        symbol,
				Name:          a.Name,
				Decimals:      a.Decimals,
				TokenContract: a.TokenContract,
			}
		}
		c.assets[chainID] = byDenom
	}
	return nil
}

// RegisterChain adds a chain entry. Used for static setups and tests.
func (c *Catalog) RegisterChain(chain Chain) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chains[chain.ChainID] = chain
}

// RegisterAsset adds an asset entry. Used for static setups and tests.
func (c *Catalog) RegisterAsset(asset Asset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	byDenom, ok := c.assets[asset.ChainID]
	if !ok {
		byDenom = make(map[string]Asset)
		c.assets[asset.ChainID] = byDenom
	}
	byDenom[asset.Denom] = asset
}

// Chain resolves a chain id.
func (c *Catalog) Chain(chainID string) (Chain, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	chain, ok := c.chains[chainID]
	if !ok {
		return Chain{}, fmt.Errorf("chain '%s' not found", chainID)
	}
	return chain, nil
}

// ChainName resolves a chain id to its name.
func (c *Catalog) ChainName(chainID string) (string, error) {
	chain, err := c.Chain(chainID)
	if err != nil {
		return "", err
	}
	return chain.ChainName, nil
}

// Family resolves a chain id to its signing family.
func (c *Catalog) Family(chainID string) (types.ChainFamily, error) {
	chain, err := c.Chain(chainID)
	if err != nil {
		return "", err
	}
	return chain.Family, nil
}

// Asset resolves a (chain, denom) pair.
func (c *Catalog) Asset(chainID, denom string) (Asset, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	byDenom, ok := c.assets[chainID]
	if !ok {
		return Asset{}, fmt.Errorf("chain '%s' not found", chainID)
	}
	asset, ok := byDenom[denom]
	if !ok {
		return Asset{}, fmt.Errorf("denom '%s' not found on chain '%s'", denom, chainID)
	}
	return asset, nil
}

// FindAssetBySymbol searches a chain's assets by symbol.
func (c *Catalog) FindAssetBySymbol(chainID, symbol string) (Asset, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	byDenom, ok := c.assets[chainID]
	if !ok {
		return Asset{}, fmt.Errorf("chain '%s' not found", chainID)
	}
	symbol = strings.ToUpper(symbol)
	for _, asset := range byDenom {
		if strings.ToUpper(asset.Symbol) == symbol {
			return asset, nil
		}
	}
	return Asset{}, fmt.Errorf("token '%s' not found on chain '%s'", symbol, chainID)
}

// Chains returns every registered chain.
func (c *Catalog) Chains() []Chain {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Chain, 0, len(c.chains))
	for _, chain := range c.chains {
		out = append(out, chain)
	}
	return out
}

// Assets returns every registered asset on a chain.
func (c *Catalog) Assets(chainID string) []Asset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	byDenom := c.assets[chainID]
	out := make([]Asset, 0, len(byDenom))
	for _, asset := range byDenom {
		out = append(out, asset)
	}
	return out
}

func familyFromChainType(chainType string) types.ChainFamily {
	switch strings.ToLower(chainType) {
	case "evm":
		return types.FamilyEVM
	case "svm":
		return types.FamilySolana
	default:
		return types.FamilyCosmos
	}
}
