package token

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"pairswap/internal/amm"
	"pairswap/internal/state"
)

// TransferHook runs after a transfer of the configured token has settled.
// Tests use it to model tokens whose transfer handler calls back into a pool.
type TransferHook func(from, to common.Address, amount *big.Int)

// Config describes per-token transfer behavior. The zero value is a
// standard, well-behaved fungible token.
type Config struct {
	// Symbol is a short human-readable tag carried into logs; never used for
	// identity.
	Symbol string
	// TransferFeeBps is burned in transit on every transfer, so the amount
	// delivered is less than the amount requested (fee-on-transfer tokens).
	TransferFeeBps uint64
	// Hook, when set, is invoked after each settled transfer of this token.
	Hook TransferHook
}

const bpsDenominator = 10_000

// Ledger is the in-memory fungible-token capability: balances, total supply,
// and allowances for any number of token identifiers, including pools' own
// liquidity shares. All writes go through the shared journal so a failing
// operation can unwind them.
//
// Amounts returned by read methods are fresh copies; callers may mutate them.
type Ledger struct {
	journal   *state.Journal
	configs   map[common.Address]Config
	balances  map[common.Address]map[common.Address]*big.Int
	supply    map[common.Address]*big.Int
	allowance map[common.Address]map[common.Address]map[common.Address]*big.Int
}

// NewLedger builds an empty ledger wired to the given journal.
func NewLedger(journal *state.Journal) *Ledger {
	return &Ledger{
		journal:   journal,
		configs:   make(map[common.Address]Config),
		balances:  make(map[common.Address]map[common.Address]*big.Int),
		supply:    make(map[common.Address]*big.Int),
		allowance: make(map[common.Address]map[common.Address]map[common.Address]*big.Int),
	}
}

// Register binds behavior to a token identifier. Registering is idempotent;
// the last config wins.
func (l *Ledger) Register(token common.Address, cfg Config) {
	l.configs[token] = cfg
}

// Symbol returns the registered symbol, or the short hex form of the address.
func (l *Ledger) Symbol(token common.Address) string {
	if cfg, ok := l.configs[token]; ok && cfg.Symbol != "" {
		return cfg.Symbol
	}
	return token.Hex()
}

// BalanceOf returns the holder's balance of token.
func (l *Ledger) BalanceOf(token, holder common.Address) *big.Int {
	if holders, ok := l.balances[token]; ok {
		if bal, ok := holders[holder]; ok {
			return new(big.Int).Set(bal)
		}
	}
	return new(big.Int)
}

// TotalSupply returns the outstanding supply of token.
func (l *Ledger) TotalSupply(token common.Address) *big.Int {
	if s, ok := l.supply[token]; ok {
		return new(big.Int).Set(s)
	}
	return new(big.Int)
}

// Mint creates amount units of token for to.
func (l *Ledger) Mint(token, to common.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return amm.ValidationErrorf("mint amount is negative")
	}
	l.setBalance(token, to, new(big.Int).Add(l.BalanceOf(token, to), amount))
	l.setSupply(token, new(big.Int).Add(l.TotalSupply(token), amount))
	return nil
}

// Burn destroys amount units of token held by from.
func (l *Ledger) Burn(token, from common.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return amm.ValidationErrorf("burn amount is negative")
	}
	bal := l.BalanceOf(token, from)
	if bal.Cmp(amount) < 0 {
		return amm.LiquidityErrorf("burn %s exceeds balance %s", amount, bal)
	}
	l.setBalance(token, from, bal.Sub(bal, amount))
	l.setSupply(token, new(big.Int).Sub(l.TotalSupply(token), amount))
	return nil
}

// Transfer moves amount of token from from to to, applying the token's
// fee-on-transfer behavior and firing its hook. The amount delivered to the
// recipient may be less than the amount debited from the sender.
func (l *Ledger) Transfer(token, from, to common.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return amm.ValidationErrorf("transfer amount is negative")
	}
	bal := l.BalanceOf(token, from)
	if bal.Cmp(amount) < 0 {
		return amm.LiquidityErrorf("transfer %s exceeds balance %s", amount, bal)
	}

	delivered := new(big.Int).Set(amount)
	cfg := l.configs[token]
	if cfg.TransferFeeBps > 0 {
		fee := new(big.Int).Mul(amount, new(big.Int).SetUint64(cfg.TransferFeeBps))
		fee.Div(fee, big.NewInt(bpsDenominator))
		delivered.Sub(delivered, fee)
		l.setSupply(token, new(big.Int).Sub(l.TotalSupply(token), fee))
	}

	l.setBalance(token, from, bal.Sub(bal, amount))
	l.setBalance(token, to, new(big.Int).Add(l.BalanceOf(token, to), delivered))

	if cfg.Hook != nil {
		cfg.Hook(from, to, new(big.Int).Set(delivered))
	}
	return nil
}

// Approve lets spender move up to amount of owner's token via TransferFrom.
func (l *Ledger) Approve(token, owner, spender common.Address, amount *big.Int) {
	l.setAllowance(token, owner, spender, new(big.Int).Set(amount))
}

// Allowance returns the remaining amount spender may move on owner's behalf.
func (l *Ledger) Allowance(token, owner, spender common.Address) *big.Int {
	if owners, ok := l.allowance[token]; ok {
		if spenders, ok := owners[owner]; ok {
			if a, ok := spenders[spender]; ok {
				return new(big.Int).Set(a)
			}
		}
	}
	return new(big.Int)
}

// TransferFrom moves amount of token from from to to, spending spender's
// allowance granted by from.
func (l *Ledger) TransferFrom(token, spender, from, to common.Address, amount *big.Int) error {
	allowed := l.Allowance(token, from, spender)
	if allowed.Cmp(amount) < 0 {
		return amm.ValidationErrorf("allowance %s below transfer %s", allowed, amount)
	}
	l.setAllowance(token, from, spender, allowed.Sub(allowed, amount))
	return l.Transfer(token, from, to, amount)
}

func (l *Ledger) setBalance(token, holder common.Address, value *big.Int) {
	holders, ok := l.balances[token]
	if !ok {
		holders = make(map[common.Address]*big.Int)
		l.balances[token] = holders
	}
	prev, had := holders[holder]
	holders[holder] = value
	l.journal.Append(func() {
		if had {
			holders[holder] = prev
		} else {
			delete(holders, holder)
		}
	})
}

func (l *Ledger) setSupply(token common.Address, value *big.Int) {
	prev, had := l.supply[token]
	l.supply[token] = value
	l.journal.Append(func() {
		if had {
			l.supply[token] = prev
		} else {
			delete(l.supply, token)
		}
	})
}

func (l *Ledger) setAllowance(token, owner, spender common.Address, value *big.Int) {
	owners, ok := l.allowance[token]
	if !ok {
		owners = make(map[common.Address]map[common.Address]*big.Int)
		l.allowance[token] = owners
	}
	spenders, ok := owners[owner]
	if !ok {
		spenders = make(map[common.Address]*big.Int)
		owners[owner] = spenders
	}
	prev, had := spenders[spender]
	spenders[spender] = value
	l.journal.Append(func() {
		if had {
			spenders[spender] = prev
		} else {
			delete(spenders, spender)
		}
	})
}
