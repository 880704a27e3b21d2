package pool

import (
	"encoding/json"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"pairswap/internal/amm"
	"pairswap/internal/model"
	"pairswap/internal/state"
	"pairswap/internal/token"
)

// LockAddress receives the permanently unredeemable first-mint shares.
// Nothing can spend from it.
var LockAddress = common.HexToAddress("0x000000000000000000000000000000000000dEaD")

// MinimumLock is the share amount minted to LockAddress on a pool's first
// deposit, keeping total supply forever positive and pricing out
// first-depositor inflation attacks.
var MinimumLock = big.NewInt(1000)

// maxBalance caps tracked reserves at 2^112-1.
var maxBalance = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 112), big.NewInt(1))

// EventSink receives every emitted pool event. Implementations must be
// rollback-aware: they share the pool's journal, so an event recorded inside
// a failing operation is unwound with the rest of the state.
type EventSink interface {
	Record(pool common.Address, name string, timestamp int64, data json.RawMessage)
}

type nopSink struct{}

func (nopSink) Record(common.Address, string, int64, json.RawMessage) {}

// FeeConfig fixes a pool's swap fee and its split between the voter and
// treasury buckets. Denominators are basis points.
type FeeConfig struct {
	TotalFeeBps   uint64
	VoterShareBps uint64
}

// Params wires a new pool into its world.
type Params struct {
	// Address identifies the pool, its custody account in the ledger, and its
	// liquidity-share token.
	Address common.Address
	// Factory is the only caller allowed to Initialize the pool.
	Factory common.Address
	Fee     FeeConfig
	// Treasury resolves the only address allowed to claim the treasury
	// fee buckets.
	Treasury func() common.Address
	// VoterClaimant resolves the only address allowed to claim the voter fee
	// buckets.
	VoterClaimant func() common.Address
	Ledger        *token.Ledger
	Journal       *state.Journal
	Sink          EventSink
	// Clock supplies the advisory last-update timestamp; defaults to wall time.
	Clock func() int64
}

// Pool owns one pair's reserves, liquidity-share accounting, fee accrual, and
// the constant-product invariant. Reserves exclude accrued fees: the raw
// custody balance of each asset equals reserve + voter bucket + treasury
// bucket, plus any unabsorbed donation.
type Pool struct {
	addr    common.Address
	factory common.Address

	tokenA common.Address
	tokenB common.Address

	reserveA   *big.Int
	reserveB   *big.Int
	lastUpdate int64

	voterFeeA    *big.Int
	voterFeeB    *big.Int
	treasuryFeeA *big.Int
	treasuryFeeB *big.Int

	fee           FeeConfig
	treasury      func() common.Address
	voterClaimant func() common.Address

	ledger  *token.Ledger
	journal *state.Journal
	sink    EventSink
	clock   func() int64

	initialized bool
	locked      bool
}

// New builds an uninitialized pool. The factory must call Initialize before
// the pool accepts any operation.
func New(params Params) *Pool {
	sink := params.Sink
	if sink == nil {
		sink = nopSink{}
	}
	clock := params.Clock
	if clock == nil {
		clock = func() int64 { return time.Now().Unix() }
	}
	return &Pool{
		addr:          params.Address,
		factory:       params.Factory,
		reserveA:      new(big.Int),
		reserveB:      new(big.Int),
		voterFeeA:     new(big.Int),
		voterFeeB:     new(big.Int),
		treasuryFeeA:  new(big.Int),
		treasuryFeeB:  new(big.Int),
		fee:           params.Fee,
		treasury:      params.Treasury,
		voterClaimant: params.VoterClaimant,
		ledger:        params.Ledger,
		journal:       params.Journal,
		sink:          sink,
		clock:         clock,
	}
}

// Initialize binds the two asset identifiers. Callable once, and only by the
// creating factory.
func (p *Pool) Initialize(caller, tokenA, tokenB common.Address) error {
	if caller != p.factory {
		return amm.ValidationErrorf("initialize caller %s is not the factory", caller.Hex())
	}
	if p.initialized {
		return amm.ValidationErrorf("pool already initialized")
	}
	p.tokenA = tokenA
	p.tokenB = tokenB
	p.initialized = true
	p.journal.Append(func() {
		p.tokenA = common.Address{}
		p.tokenB = common.Address{}
		p.initialized = false
	})
	return nil
}

// Address returns the pool's identity, which doubles as its custody account
// and its liquidity-share token identifier.
func (p *Pool) Address() common.Address { return p.addr }

// Tokens returns the canonically ordered pair.
func (p *Pool) Tokens() (tokenA, tokenB common.Address) { return p.tokenA, p.tokenB }

// Fee returns the pool's fee configuration.
func (p *Pool) Fee() FeeConfig { return p.fee }

// Reserves returns a snapshot of the tracked reserves and the advisory
// last-update timestamp. Non-blocking; may be stale relative to an operation
// in flight.
func (p *Pool) Reserves() (reserveA, reserveB *big.Int, lastUpdate int64) {
	return new(big.Int).Set(p.reserveA), new(big.Int).Set(p.reserveB), p.lastUpdate
}

// FeesAccrued returns snapshots of the voter and treasury buckets per asset.
func (p *Pool) FeesAccrued() (voterA, voterB, treasuryA, treasuryB *big.Int) {
	return new(big.Int).Set(p.voterFeeA), new(big.Int).Set(p.voterFeeB),
		new(big.Int).Set(p.treasuryFeeA), new(big.Int).Set(p.treasuryFeeB)
}

// guarded runs fn inside the pool's critical section, snapshotting the
// journal so a failure unwinds every write made by fn. A reentrant attempt
// while the guard is held fails fast. The guard is released unconditionally.
func (p *Pool) guarded(fn func() error) error {
	if p.locked {
		return amm.ValidationErrorf("reentrant call into pool %s", p.addr.Hex())
	}
	if !p.initialized {
		return amm.ValidationErrorf("pool %s is not initialized", p.addr.Hex())
	}
	p.locked = true
	defer func() { p.locked = false }()

	revision := p.journal.Snapshot()
	if err := fn(); err != nil {
		p.journal.RevertTo(revision)
		return err
	}
	return nil
}

// netBalance is the raw custody balance of tok minus its accrued fee buckets.
// This is the balance the invariant and the reserves are measured against.
func (p *Pool) netBalance(tok common.Address) *big.Int {
	bal := p.ledger.BalanceOf(tok, p.addr)
	if tok == p.tokenA {
		bal.Sub(bal, p.voterFeeA)
		bal.Sub(bal, p.treasuryFeeA)
	} else {
		bal.Sub(bal, p.voterFeeB)
		bal.Sub(bal, p.treasuryFeeB)
	}
	return bal
}

// update moves the tracked reserves to the given fee-exclusive balances and
// emits Sync.
func (p *Pool) update(balanceA, balanceB *big.Int) error {
	if balanceA.Cmp(maxBalance) > 0 || balanceB.Cmp(maxBalance) > 0 {
		return amm.OverflowErrorf("balance exceeds maximum trackable reserve")
	}
	p.setBig(&p.reserveA, new(big.Int).Set(balanceA))
	p.setBig(&p.reserveB, new(big.Int).Set(balanceB))

	prevUpdate := p.lastUpdate
	p.lastUpdate = p.clock()
	p.journal.Append(func() { p.lastUpdate = prevUpdate })

	p.emit(model.EventSync, model.SyncEventData{
		ReserveA: p.reserveA.String(),
		ReserveB: p.reserveB.String(),
	})
	return nil
}

// setBig journals and replaces a big.Int field.
func (p *Pool) setBig(field **big.Int, value *big.Int) {
	prev := *field
	*field = value
	p.journal.Append(func() { *field = prev })
}

func (p *Pool) emit(name string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		// Payloads are plain structs of strings; this cannot fail.
		return
	}
	p.sink.Record(p.addr, name, p.clock(), raw)
}
