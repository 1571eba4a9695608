package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"skip-bridge/pkg/types"
)

func tempStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.json")
	store, err := NewStore(path)
	require.NoError(t, err)
	return store, path
}

func TestAddAndReload(t *testing.T) {
	store, path := tempStore(t)

	record := &Record{
		ID:          "0xabc",
		CreatedAt:   time.Now().UTC(),
		Amount:      "1",
		SourceToken: "USDC",
		DestToken:   "USDC",
		SourceChain: "1",
		DestChain:   "noble-1",
		Submitted:   []types.SubmittedTx{{Hash: "0xabc", ChainID: "1"}},
	}
	require.NoError(t, store.Add(record))
	require.Error(t, store.Add(record), "duplicate ids must be rejected")

	reloaded, err := NewStore(path)
	require.NoError(t, err)
	require.Equal(t, 1, reloaded.Count())

	got, err := reloaded.Get("0xabc")
	require.NoError(t, err)
	require.Equal(t, "noble-1", got.DestChain)
	require.Len(t, got.Submitted, 1)
}

func TestSetFinalState(t *testing.T) {
	store, path := tempStore(t)
	require.NoError(t, store.Add(&Record{ID: "0xabc", CreatedAt: time.Now().UTC()}))

	require.NoError(t, store.SetFinalState("0xabc", types.StateCompletedSuccess))
	require.Error(t, store.SetFinalState("0xmissing", types.StateCompletedSuccess))

	reloaded, err := NewStore(path)
	require.NoError(t, err)
	got, err := reloaded.Get("0xabc")
	require.NoError(t, err)
	require.Equal(t, types.StateCompletedSuccess, got.FinalState)
}

func TestListOrdersMostRecentFirst(t *testing.T) {
	store, _ := tempStore(t)
	base := time.Now().UTC()
	require.NoError(t, store.Add(&Record{ID: "old", CreatedAt: base.Add(-time.Hour)}))
	require.NoError(t, store.Add(&Record{ID: "new", CreatedAt: base}))

	records := store.List()
	require.Len(t, records, 2)
	require.Equal(t, "new", records[0].ID)
	require.Equal(t, "old", records[1].ID)
}

func TestMissingFileIsEmpty(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.NoError(t, err)
	require.Zero(t, store.Count())
}
