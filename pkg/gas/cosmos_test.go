package gas

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGasPriceFromEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/prices/gas/cosmos/osmosis", r.URL.Path)
		fmt.Fprint(w, `{"chainId": "osmosis", "gasPrice": 0.04, "gasLimitMultiplier": 2}`)
	}))
	defer server.Close()

	pricer := NewCosmosPricer(server.URL)
	price, err := pricer.GasPrice(context.Background(), "Osmosis")
	require.NoError(t, err)
	require.Equal(t, 0.04, price.GasPrice)
	require.Equal(t, 2.0, price.GasLimitMultiplier)
}

func TestGasPriceDefaultsMultiplier(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chainId": "osmosis", "gasPrice": 0.04}`)
	}))
	defer server.Close()

	pricer := NewCosmosPricer(server.URL)
	price, err := pricer.GasPrice(context.Background(), "osmosis")
	require.NoError(t, err)
	require.Equal(t, DefaultGasLimitMultiplier, price.GasLimitMultiplier)
}

func TestGasPriceFallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	pricer := NewCosmosPricer(server.URL)
	price, err := pricer.GasPrice(context.Background(), "noble")
	require.NoError(t, err)
	require.Equal(t, 0.15, price.GasPrice)
	require.Equal(t, DefaultGasLimitMultiplier, price.GasLimitMultiplier)
}

func TestGasPriceUnknownChainNoFallback(t *testing.T) {
	pricer := NewCosmosPricer("http://127.0.0.1:0")
	_, err := pricer.GasPrice(context.Background(), "unknown-chain")
	require.Error(t, err)
}

func TestFeeDenom(t *testing.T) {
	denom, err := FeeDenom("cosmos")
	require.NoError(t, err)
	require.Equal(t, "uatom", denom)

	denom, err = FeeDenom("Injective")
	require.NoError(t, err)
	require.Equal(t, "inj", denom)

	_, err = FeeDenom("unknown-chain")
	require.Error(t, err)
}
