package amount

import (
	"fmt"
	"math/big"
)

// ToMinorUnits converts a human-entered decimal amount into the asset's
// integer minor units. The conversion is exact; digits beyond the asset's
// precision are truncated.
func ToMinorUnits(value string, decimals int) (string, error) {
	parsed, ok := new(big.Rat).SetString(value)
	if !ok {
		return "", fmt.Errorf("invalid amount format: %s", value)
	}
	if parsed.Sign() <= 0 {
		return "", fmt.Errorf("amount must be positive: %s", value)
	}

	scaled := new(big.Rat).Mul(parsed, new(big.Rat).SetInt(pow10(decimals)))
	result := new(big.Int).Quo(scaled.Num(), scaled.Denom())
	return result.String(), nil
}

// FromMinorUnits renders integer minor units as a decimal amount.
func FromMinorUnits(value string, decimals int) (string, error) {
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return "", fmt.Errorf("invalid minor unit amount: %s", value)
	}

	result := new(big.Rat).SetFrac(parsed, pow10(decimals))
	return result.FloatString(decimals), nil
}

func pow10(exp int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil)
}
