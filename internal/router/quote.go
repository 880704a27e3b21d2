package router

import (
	"math/big"

	"pairswap/internal/amm"
	"pairswap/internal/pool"
)

var bpsDen = big.NewInt(pool.BpsDenominator)

// checkFeeBps bounds the fee rate below the denominator; at or above it the
// fee-exclusive share of the input is zero or wraps.
func checkFeeBps(totalFeeBps uint64) error {
	if totalFeeBps >= pool.BpsDenominator {
		return amm.ValidationErrorf("fee %d bps not below %d", totalFeeBps, pool.BpsDenominator)
	}
	return nil
}

// GetAmountOut quotes the constant-product output for a single hop. The fee
// rate is the pool's own swap fee, so quotes and settlement share one
// authoritative constant. Rounding is floor, in the pool's favor.
func GetAmountOut(amountIn, reserveIn, reserveOut *big.Int, totalFeeBps uint64) (*big.Int, error) {
	if err := checkFeeBps(totalFeeBps); err != nil {
		return nil, err
	}
	if amountIn.Sign() <= 0 {
		return nil, amm.LiquidityErrorf("insufficient input amount")
	}
	if reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 {
		return nil, amm.LiquidityErrorf("insufficient liquidity")
	}
	keepBps := new(big.Int).SetUint64(pool.BpsDenominator - totalFeeBps)
	inWithFee := new(big.Int).Mul(amountIn, keepBps)
	numerator := new(big.Int).Mul(inWithFee, reserveOut)
	denominator := new(big.Int).Mul(reserveIn, bpsDen)
	denominator.Add(denominator, inWithFee)
	return numerator.Div(numerator, denominator), nil
}

// GetAmountIn quotes the input required for an exact single-hop output. The
// trailing +1 biases rounding toward the pool, never the trader.
func GetAmountIn(amountOut, reserveIn, reserveOut *big.Int, totalFeeBps uint64) (*big.Int, error) {
	if err := checkFeeBps(totalFeeBps); err != nil {
		return nil, err
	}
	if amountOut.Sign() <= 0 {
		return nil, amm.LiquidityErrorf("insufficient output amount")
	}
	if reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 {
		return nil, amm.LiquidityErrorf("insufficient liquidity")
	}
	if amountOut.Cmp(reserveOut) >= 0 {
		return nil, amm.LiquidityErrorf("requested output exceeds reserve")
	}
	keepBps := new(big.Int).SetUint64(pool.BpsDenominator - totalFeeBps)
	numerator := new(big.Int).Mul(reserveIn, amountOut)
	numerator.Mul(numerator, bpsDen)
	denominator := new(big.Int).Sub(reserveOut, amountOut)
	denominator.Mul(denominator, keepBps)
	numerator.Div(numerator, denominator)
	return numerator.Add(numerator, big.NewInt(1)), nil
}
