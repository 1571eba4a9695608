package catalog

import (
	"fmt"
	"strings"
	"sync"
)

// AddressBook resolves the wallet's address for each chain a route touches.
// Entries can be keyed by chain id or by chain name; name lookups go
// through the catalog's chain registry.
type AddressBook struct {
	catalog *Catalog

	mu        sync.RWMutex
	byChainID map[string]string
	byName    map[string]string
}

// NewAddressBook creates an address book backed by the given catalog.
func NewAddressBook(cat *Catalog) *AddressBook {
	return &AddressBook{
		catalog:   cat,
		byChainID: make(map[string]string),
		byName:    make(map[string]string),
	}
}

// SetByChainID records the wallet address for a chain id.
func (b *AddressBook) SetByChainID(chainID, address string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.byChainID[chainID] = address
}

// SetByName records the wallet address for a chain name.
func (b *AddressBook) SetByName(chainName, address string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.byName[strings.ToLower(chainName)] = address
}

// Address resolves the wallet address for a chain id.
func (b *AddressBook) Address(chainID string) (string, error) {
	b.mu.RLock()
	if addr, ok := b.byChainID[chainID]; ok {
		b.mu.RUnlock()
		return addr, nil
	}
	b.mu.RUnlock()

	chain, err := b.catalog.Chain(chainID)
	if err != nil {
		return "", err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if addr, ok := b.byName[strings.ToLower(chain.ChainName)]; ok {
		return addr, nil
	}
	return "", fmt.Errorf("no wallet address configured for chain '%s'", chain.ChainName)
}

// Addresses resolves the wallet address for every chain id in order. A
// single missing address fails the whole lookup; the venue requires one
// signer address per distinct chain a route touches.
func (b *AddressBook) Addresses(chainIDs []string) ([]string, error) {
	out := make([]string, 0, len(chainIDs))
	for _, id := range chainIDs {
		addr, err := b.Address(id)
		if err != nil {
			return nil, err
		}
		out = append(out, addr)
	}
	return out, nil
}
