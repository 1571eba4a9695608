package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"skip-bridge/config"
	"skip-bridge/pkg/allowance"
	"skip-bridge/pkg/catalog"
	"skip-bridge/pkg/confirm"
	"skip-bridge/pkg/coordinator"
	"skip-bridge/pkg/faults"
	"skip-bridge/pkg/signer"
	"skip-bridge/pkg/skipclient"
)

// setup loads configuration, initializes fault reporting and populates the
// chain/asset catalog from the venue.
func setup(ctx context.Context, jsonOutput bool) (*config.Config, *skipclient.Client, *catalog.Catalog, faults.Collector, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, nil, err
	}

	collector, err := faults.InitSentry(cfg.SentryDSN)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to initialize fault reporting: %w", err)
	}

	apiClient := skipclient.New(cfg.SkipBaseURL)

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Loading chains and assets..."
		s.Start()
	}
	cat := catalog.New()
	err = cat.Populate(ctx, apiClient)
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		return nil, nil, nil, nil, err
	}

	return cfg, apiClient, cat, collector, nil
}

// buildSigners wires the configured wallets into a signer registry, an
// address book and per-chain allowance guards.
func buildSigners(cfg *config.Config, cat *catalog.Catalog) (*signer.Registry, *catalog.AddressBook, map[string]coordinator.AllowanceChecker, error) {
	registry := signer.NewRegistry()
	book := catalog.NewAddressBook(cat)
	guards := make(map[string]coordinator.AllowanceChecker)

	for chainID, network := range cfg.EVM.Networks {
		wallet, err := signer.NewEVMWallet(network)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("EVM chain %s: %w", chainID, err)
		}
		registry.RegisterEVM(chainID, wallet)
		book.SetByChainID(chainID, wallet.OwnerAddress())

		guard, err := allowance.NewGuard(wallet.Client())
		if err != nil {
			return nil, nil, nil, err
		}
		guards[chainID] = guard
	}

	if cfg.Solana.PrivateKey != "" {
		wallet, err := signer.NewSolanaWallet(cfg.Solana)
		if err != nil {
			return nil, nil, nil, err
		}
		registry.SetSolana(wallet)
		book.SetByName("solana", wallet.Address())
	}

	for chainName, address := range cfg.Addresses {
		book.SetByName(chainName, address)
	}

	return registry, book, guards, nil
}

// newTerminalGate renders confirmation prompts on the terminal and answers
// them from stdin. With autoConfirm every prompt is approved silently.
func newTerminalGate(autoConfirm bool) *confirm.Gate {
	gate := confirm.NewGate()
	gate.OnPrompt = func(p confirm.Prompt) {
		if autoConfirm {
			gate.Approve()
			return
		}

		fmt.Printf("\n%s (chain %s)\n", color.YellowString(p.Title), p.ChainID)
		for key, value := range p.Details {
			fmt.Printf("  %-8s %s\n", key+":", value)
		}
		fmt.Print("\nProceed? (y/N): ")

		reader := bufio.NewReader(os.Stdin)
		response, err := reader.ReadString('\n')
		if err != nil {
			gate.Reject()
			return
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response == "y" || response == "yes" {
			gate.Approve()
		} else {
			gate.Reject()
		}
	}
	return gate
}
