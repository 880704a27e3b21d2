package router

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"pairswap/internal/amm"
	"pairswap/internal/pool"
	"pairswap/internal/registry"
	"pairswap/internal/state"
	"pairswap/internal/token"
)

// Router coordinates liquidity operations and multi-hop swaps across pools.
// It is stateless apart from its wiring: tokens move directly between the
// caller and the pools, never through the router's own custody. Every entry
// point is atomic; any rejection unwinds all token movements made within the
// same call.
type Router struct {
	addr    common.Address
	reg     *registry.Registry
	ledger  *token.Ledger
	journal *state.Journal
	clock   func() int64
	logger  *zap.Logger
}

// New builds a router. The address identifies the router as an allowance
// spender; callers approve it before invoking liquidity or swap operations.
func New(addr common.Address, reg *registry.Registry, ledger *token.Ledger, journal *state.Journal, clock func() int64, logger *zap.Logger) *Router {
	if clock == nil {
		clock = func() int64 { return time.Now().Unix() }
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{addr: addr, reg: reg, ledger: ledger, journal: journal, clock: clock, logger: logger}
}

// Address returns the router's allowance-spender identity.
func (r *Router) Address() common.Address { return r.addr }

// atomic snapshots the journal and unwinds every write if fn fails.
func (r *Router) atomic(fn func() error) error {
	revision := r.journal.Snapshot()
	if err := fn(); err != nil {
		r.journal.RevertTo(revision)
		return err
	}
	return nil
}

func (r *Router) checkDeadline(deadline int64) error {
	if deadline < r.clock() {
		return amm.ValidationErrorf("deadline expired")
	}
	return nil
}

func checkRecipient(to common.Address) error {
	if to == (common.Address{}) {
		return amm.ValidationErrorf("zero recipient address")
	}
	return nil
}

// orientReserves returns a pool's reserves in (tokenIn, tokenOut) order.
func orientReserves(p *pool.Pool, tokenIn common.Address) (reserveIn, reserveOut *big.Int) {
	canonicalA, _ := p.Tokens()
	reserveA, reserveB, _ := p.Reserves()
	if tokenIn == canonicalA {
		return reserveA, reserveB
	}
	return reserveB, reserveA
}

// AddLiquidity deposits up to the desired amounts of both assets into the
// pair's pool, creating the pool when absent. With existing reserves the
// second asset's amount is derived to preserve the current ratio, falling
// back to solving for the first asset when that would overshoot. Amounts
// below their minimums reject the whole call.
func (r *Router) AddLiquidity(sender, tokenA, tokenB common.Address, desiredA, desiredB, minA, minB *big.Int, to common.Address, deadline int64) (amountA, amountB, liquidity *big.Int, err error) {
	err = r.atomic(func() error {
		if err := r.checkDeadline(deadline); err != nil {
			return err
		}
		if err := checkRecipient(to); err != nil {
			return err
		}
		p, err := r.reg.EnsurePool(tokenA, tokenB)
		if err != nil {
			return err
		}
		reserveA, reserveB := orientReserves(p, tokenA)

		if reserveA.Sign() == 0 && reserveB.Sign() == 0 {
			amountA, amountB = new(big.Int).Set(desiredA), new(big.Int).Set(desiredB)
		} else if reserveA.Sign() == 0 || reserveB.Sign() == 0 {
			return amm.LiquidityErrorf("pool reserves are one-sided")
		} else {
			optimalB := new(big.Int).Mul(desiredA, reserveB)
			optimalB.Div(optimalB, reserveA)
			if optimalB.Cmp(desiredB) <= 0 {
				if optimalB.Cmp(minB) < 0 {
					return amm.ValidationErrorf("amount of second asset below minimum")
				}
				amountA, amountB = new(big.Int).Set(desiredA), optimalB
			} else {
				optimalA := new(big.Int).Mul(desiredB, reserveA)
				optimalA.Div(optimalA, reserveB)
				if optimalA.Cmp(desiredA) > 0 {
					return amm.ValidationErrorf("derived amount exceeds desired amount")
				}
				if optimalA.Cmp(minA) < 0 {
					return amm.ValidationErrorf("amount of first asset below minimum")
				}
				amountA, amountB = optimalA, new(big.Int).Set(desiredB)
			}
		}

		if err := r.ledger.TransferFrom(tokenA, r.addr, sender, p.Address(), amountA); err != nil {
			return err
		}
		if err := r.ledger.TransferFrom(tokenB, r.addr, sender, p.Address(), amountB); err != nil {
			return err
		}
		liquidity, err = p.Mint(sender, to)
		if err != nil {
			return err
		}
		r.logger.Debug("liquidity added",
			zap.String("pool", p.Address().Hex()),
			zap.String("amount_a", amountA.String()),
			zap.String("amount_b", amountB.String()),
			zap.String("liquidity", liquidity.String()),
		)
		return nil
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return amountA, amountB, liquidity, nil
}

// RemoveLiquidity burns the caller's shares and pays out both assets to to.
// Outputs below their minimums reject the whole call.
func (r *Router) RemoveLiquidity(sender, tokenA, tokenB common.Address, liquidity, minA, minB *big.Int, to common.Address, deadline int64) (amountA, amountB *big.Int, err error) {
	err = r.atomic(func() error {
		if err := r.checkDeadline(deadline); err != nil {
			return err
		}
		if err := checkRecipient(to); err != nil {
			return err
		}
		p, err := r.reg.ResolvePool(tokenA, tokenB)
		if err != nil {
			return err
		}
		if p == nil {
			return amm.ValidationErrorf("no pool for pair")
		}
		if err := r.ledger.TransferFrom(p.Address(), r.addr, sender, p.Address(), liquidity); err != nil {
			return err
		}
		outA, outB, err := p.Burn(sender, to)
		if err != nil {
			return err
		}
		canonicalA, _ := p.Tokens()
		amountA, amountB = outA, outB
		if tokenA != canonicalA {
			amountA, amountB = outB, outA
		}
		if amountA.Cmp(minA) < 0 {
			return amm.LiquidityErrorf("amount of first asset below minimum")
		}
		if amountB.Cmp(minB) < 0 {
			return amm.LiquidityErrorf("amount of second asset below minimum")
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return amountA, amountB, nil
}

// SwapExactTokensForTokens trades a fixed input along path, rejecting if the
// final output undercuts minAmountOut.
func (r *Router) SwapExactTokensForTokens(sender common.Address, amountIn, minAmountOut *big.Int, path []common.Address, to common.Address, deadline int64) ([]*big.Int, error) {
	var amounts []*big.Int
	err := r.atomic(func() error {
		if err := r.checkDeadline(deadline); err != nil {
			return err
		}
		if err := checkRecipient(to); err != nil {
			return err
		}
		var err error
		amounts, err = r.GetAmountsOut(amountIn, path)
		if err != nil {
			return err
		}
		if amounts[len(amounts)-1].Cmp(minAmountOut) < 0 {
			return amm.LiquidityErrorf("output below minimum")
		}
		return r.executePath(sender, path, amounts, to)
	})
	if err != nil {
		return nil, err
	}
	return amounts, nil
}

// SwapTokensForExactTokens trades along path for a fixed output, rejecting if
// the required input exceeds maxAmountIn.
func (r *Router) SwapTokensForExactTokens(sender common.Address, amountOut, maxAmountIn *big.Int, path []common.Address, to common.Address, deadline int64) ([]*big.Int, error) {
	var amounts []*big.Int
	err := r.atomic(func() error {
		if err := r.checkDeadline(deadline); err != nil {
			return err
		}
		if err := checkRecipient(to); err != nil {
			return err
		}
		var err error
		amounts, err = r.GetAmountsIn(amountOut, path)
		if err != nil {
			return err
		}
		if amounts[0].Cmp(maxAmountIn) > 0 {
			return amm.LiquidityErrorf("input above maximum")
		}
		return r.executePath(sender, path, amounts, to)
	})
	if err != nil {
		return nil, err
	}
	return amounts, nil
}

// executePath moves the first hop's input from the caller to the first pool,
// then walks the path, sending each intermediate output straight to the next
// pool and the final output to to. The router holds nothing at any point.
func (r *Router) executePath(sender common.Address, path []common.Address, amounts []*big.Int, to common.Address) error {
	first, err := r.resolveHop(path[0], path[1])
	if err != nil {
		return err
	}
	if err := r.ledger.TransferFrom(path[0], r.addr, sender, first.Address(), amounts[0]); err != nil {
		return err
	}
	for i := 0; i < len(path)-1; i++ {
		hop, err := r.resolveHop(path[i], path[i+1])
		if err != nil {
			return err
		}
		recipient := to
		if i+2 < len(path) {
			next, err := r.resolveHop(path[i+1], path[i+2])
			if err != nil {
				return err
			}
			recipient = next.Address()
		}
		canonicalA, _ := hop.Tokens()
		outA, outB := new(big.Int), amounts[i+1]
		if path[i+1] == canonicalA {
			outA, outB = amounts[i+1], new(big.Int)
		}
		if err := hop.Swap(sender, outA, outB, recipient); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) resolveHop(tokenIn, tokenOut common.Address) (*pool.Pool, error) {
	p, err := r.reg.ResolvePool(tokenIn, tokenOut)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, amm.ValidationErrorf("no pool for hop %s -> %s", tokenIn.Hex(), tokenOut.Hex())
	}
	return p, nil
}

func validatePath(path []common.Address) error {
	if len(path) < 2 {
		return amm.ValidationErrorf("path must name at least two assets")
	}
	return nil
}

// GetAmountsOut chains the forward quote across every hop using each pool's
// live reserves. Pure; performs no state changes.
func (r *Router) GetAmountsOut(amountIn *big.Int, path []common.Address) ([]*big.Int, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}
	amounts := make([]*big.Int, len(path))
	amounts[0] = new(big.Int).Set(amountIn)
	for i := 0; i < len(path)-1; i++ {
		p, err := r.resolveHop(path[i], path[i+1])
		if err != nil {
			return nil, err
		}
		reserveIn, reserveOut := orientReserves(p, path[i])
		out, err := GetAmountOut(amounts[i], reserveIn, reserveOut, p.Fee().TotalFeeBps)
		if err != nil {
			return nil, err
		}
		amounts[i+1] = out
	}
	return amounts, nil
}

// GetAmountsIn chains the inverse quote backwards across every hop using each
// pool's live reserves. Pure; performs no state changes.
func (r *Router) GetAmountsIn(amountOut *big.Int, path []common.Address) ([]*big.Int, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}
	amounts := make([]*big.Int, len(path))
	amounts[len(path)-1] = new(big.Int).Set(amountOut)
	for i := len(path) - 1; i > 0; i-- {
		p, err := r.resolveHop(path[i-1], path[i])
		if err != nil {
			return nil, err
		}
		reserveIn, reserveOut := orientReserves(p, path[i-1])
		in, err := GetAmountIn(amounts[i], reserveIn, reserveOut, p.Fee().TotalFeeBps)
		if err != nil {
			return nil, err
		}
		amounts[i-1] = in
	}
	return amounts, nil
}
