package pool

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"pairswap/internal/amm"
	"pairswap/internal/model"
)

// Swap sends the requested outputs to to, infers the actual inputs from
// measured balance deltas, charges the fee on each positive input, and then
// enforces the constant-product invariant on the fee-exclusive balances. Any
// violation fails the whole operation with no effect retained.
func (p *Pool) Swap(sender common.Address, amountAOut, amountBOut *big.Int, to common.Address) error {
	return p.guarded(func() error {
		if amountAOut.Sign() < 0 || amountBOut.Sign() < 0 {
			return amm.ValidationErrorf("negative output amount")
		}
		if amountAOut.Sign() == 0 && amountBOut.Sign() == 0 {
			return amm.LiquidityErrorf("insufficient output amount")
		}
		if amountAOut.Cmp(p.reserveA) >= 0 || amountBOut.Cmp(p.reserveB) >= 0 {
			return amm.LiquidityErrorf("requested output exceeds reserve")
		}
		if to == p.tokenA || to == p.tokenB {
			return amm.ValidationErrorf("recipient %s is a traded asset", to.Hex())
		}

		productBefore := new(big.Int).Mul(p.reserveA, p.reserveB)

		if amountAOut.Sign() > 0 {
			if err := p.ledger.Transfer(p.tokenA, p.addr, to, amountAOut); err != nil {
				return err
			}
		}
		if amountBOut.Sign() > 0 {
			if err := p.ledger.Transfer(p.tokenB, p.addr, to, amountBOut); err != nil {
				return err
			}
		}

		// Inputs are whatever arrived beyond what the reserves account for,
		// measured against the fee-exclusive balances.
		balanceA := p.netBalance(p.tokenA)
		balanceB := p.netBalance(p.tokenB)
		amountAIn := new(big.Int).Sub(balanceA, new(big.Int).Sub(p.reserveA, amountAOut))
		amountBIn := new(big.Int).Sub(balanceB, new(big.Int).Sub(p.reserveB, amountBOut))
		if amountAIn.Sign() < 0 {
			amountAIn.SetInt64(0)
		}
		if amountBIn.Sign() < 0 {
			amountBIn.SetInt64(0)
		}
		if amountAIn.Sign() == 0 && amountBIn.Sign() == 0 {
			return amm.LiquidityErrorf("insufficient input amount")
		}

		if amountAIn.Sign() > 0 {
			fee := p.accrueFee(p.tokenA, amountAIn)
			balanceA.Sub(balanceA, fee)
		}
		if amountBIn.Sign() > 0 {
			fee := p.accrueFee(p.tokenB, amountBIn)
			balanceB.Sub(balanceB, fee)
		}

		productAfter := new(big.Int).Mul(balanceA, balanceB)
		if productAfter.Cmp(productBefore) < 0 {
			return amm.InvariantErrorf("constant product decreased: %s < %s", productAfter, productBefore)
		}

		if err := p.update(balanceA, balanceB); err != nil {
			return err
		}
		p.emit(model.EventSwap, model.SwapEventData{
			Sender:     sender.Hex(),
			AmountAIn:  amountAIn.String(),
			AmountBIn:  amountBIn.String(),
			AmountAOut: amountAOut.String(),
			AmountBOut: amountBOut.String(),
			To:         to.Hex(),
		})
		return nil
	})
}

// Skim sweeps any raw balance beyond reserves plus accrued fees out to to,
// reconciling custody after a direct donation transfer.
func (p *Pool) Skim(to common.Address) error {
	return p.guarded(func() error {
		excessA := new(big.Int).Sub(p.netBalance(p.tokenA), p.reserveA)
		if excessA.Sign() > 0 {
			if err := p.ledger.Transfer(p.tokenA, p.addr, to, excessA); err != nil {
				return err
			}
		}
		excessB := new(big.Int).Sub(p.netBalance(p.tokenB), p.reserveB)
		if excessB.Sign() > 0 {
			if err := p.ledger.Transfer(p.tokenB, p.addr, to, excessB); err != nil {
				return err
			}
		}
		return nil
	})
}

// Sync absorbs any raw balance drift into the tracked reserves.
func (p *Pool) Sync() error {
	return p.guarded(func() error {
		return p.update(p.netBalance(p.tokenA), p.netBalance(p.tokenB))
	})
}
