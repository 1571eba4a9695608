package amount

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		value    string
		decimals int
		want     string
	}{
		{"1", 6, "1000000"},
		{"1.5", 6, "1500000"},
		{"0.000001", 6, "1"},
		{"100.25", 2, "10025"},
		{"0.5", 18, "500000000000000000"},
	}
	for _, tc := range tests {
		got, err := ToMinorUnits(tc.value, tc.decimals)
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "value %s decimals %d", tc.value, tc.decimals)
	}
}

func TestToMinorUnitsRejectsInvalid(t *testing.T) {
	_, err := ToMinorUnits("abc", 6)
	require.Error(t, err)

	_, err = ToMinorUnits("-1", 6)
	require.Error(t, err)

	_, err = ToMinorUnits("0", 6)
	require.Error(t, err)
}

func TestFromMinorUnits(t *testing.T) {
	got, err := FromMinorUnits("1500000", 6)
	require.NoError(t, err)
	require.Equal(t, "1.500000", got)

	got, err = FromMinorUnits("1", 6)
	require.NoError(t, err)
	require.Equal(t, "0.000001", got)

	_, err = FromMinorUnits("1.5", 6)
	require.Error(t, err)
}
