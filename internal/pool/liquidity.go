package pool

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"pairswap/internal/amm"
	"pairswap/internal/model"
)

// Mint turns amounts already transferred into the pool's custody into
// liquidity shares for to. The contribution of each asset is measured as the
// delta between the fee-exclusive balance and the tracked reserve, so
// fee-on-transfer tokens are accounted at what actually arrived.
//
// The first mint prices shares at floor(sqrt(amountA*amountB)) and locks
// MinimumLock of them forever; later mints get the worse of the two reserve
// ratios, which penalizes unbalanced contributions.
func (p *Pool) Mint(sender, to common.Address) (*big.Int, error) {
	var minted *big.Int
	err := p.guarded(func() error {
		balanceA := p.netBalance(p.tokenA)
		balanceB := p.netBalance(p.tokenB)
		amountA := new(big.Int).Sub(balanceA, p.reserveA)
		amountB := new(big.Int).Sub(balanceB, p.reserveB)
		supply := p.ledger.TotalSupply(p.addr)

		var liquidity *big.Int
		if supply.Sign() == 0 {
			liquidity = new(big.Int).Mul(amountA, amountB)
			liquidity.Sqrt(liquidity)
			liquidity.Sub(liquidity, MinimumLock)
			if liquidity.Sign() <= 0 {
				return amm.LiquidityErrorf("initial deposit below minimum lock")
			}
			if err := p.ledger.Mint(p.addr, LockAddress, MinimumLock); err != nil {
				return err
			}
		} else {
			if p.reserveA.Sign() == 0 || p.reserveB.Sign() == 0 {
				return amm.LiquidityErrorf("pool reserves are depleted")
			}
			byA := new(big.Int).Mul(amountA, supply)
			byA.Div(byA, p.reserveA)
			byB := new(big.Int).Mul(amountB, supply)
			byB.Div(byB, p.reserveB)
			liquidity = byA
			if byB.Cmp(byA) < 0 {
				liquidity = byB
			}
		}
		if liquidity.Sign() <= 0 {
			return amm.LiquidityErrorf("insufficient liquidity minted")
		}
		if err := p.ledger.Mint(p.addr, to, liquidity); err != nil {
			return err
		}
		if err := p.update(balanceA, balanceB); err != nil {
			return err
		}
		p.emit(model.EventMint, model.MintEventData{
			Sender:  sender.Hex(),
			AmountA: amountA.String(),
			AmountB: amountB.String(),
		})
		minted = liquidity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return minted, nil
}

// Burn redeems the liquidity shares sitting in the pool's own balance for a
// pro-rata cut of both assets, paid to to. Current balances, not stale
// reserves, price the redemption, so donations are shared fairly.
func (p *Pool) Burn(sender, to common.Address) (*big.Int, *big.Int, error) {
	var outA, outB *big.Int
	err := p.guarded(func() error {
		balanceA := p.netBalance(p.tokenA)
		balanceB := p.netBalance(p.tokenB)
		liquidity := p.ledger.BalanceOf(p.addr, p.addr)
		supply := p.ledger.TotalSupply(p.addr)
		if supply.Sign() == 0 {
			return amm.LiquidityErrorf("no liquidity outstanding")
		}

		amountA := new(big.Int).Mul(liquidity, balanceA)
		amountA.Div(amountA, supply)
		amountB := new(big.Int).Mul(liquidity, balanceB)
		amountB.Div(amountB, supply)
		if amountA.Sign() == 0 || amountB.Sign() == 0 {
			return amm.LiquidityErrorf("insufficient liquidity burned")
		}

		if err := p.ledger.Burn(p.addr, p.addr, liquidity); err != nil {
			return err
		}
		if err := p.ledger.Transfer(p.tokenA, p.addr, to, amountA); err != nil {
			return err
		}
		if err := p.ledger.Transfer(p.tokenB, p.addr, to, amountB); err != nil {
			return err
		}

		if err := p.update(p.netBalance(p.tokenA), p.netBalance(p.tokenB)); err != nil {
			return err
		}
		p.emit(model.EventBurn, model.BurnEventData{
			Sender:  sender.Hex(),
			AmountA: amountA.String(),
			AmountB: amountB.String(),
			To:      to.Hex(),
		})
		outA, outB = amountA, amountB
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return outA, outB, nil
}
