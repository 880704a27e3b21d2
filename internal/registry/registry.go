package registry

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"pairswap/internal/amm"
	"pairswap/internal/pool"
	"pairswap/internal/state"
	"pairswap/internal/token"
)

// Config wires a registry and fixes the fee policy applied to every pool it
// creates.
type Config struct {
	// Address is the registry's own identity; pools only accept Initialize
	// from it.
	Address common.Address
	// Treasury is the designated claimant of the treasury fee buckets.
	Treasury common.Address
	// VoterClaimant is the designated claimant of the voter fee buckets.
	VoterClaimant common.Address
	Fee           pool.FeeConfig
}

// Registry maps canonically ordered token pairs to their single pool
// instance and hands pools their fee-recipient capabilities.
type Registry struct {
	cfg     Config
	ledger  *token.Ledger
	journal *state.Journal
	sink    pool.EventSink
	clock   func() int64
	logger  *zap.Logger
	pools   map[[2]common.Address]*pool.Pool
}

// New builds an empty registry.
func New(cfg Config, ledger *token.Ledger, journal *state.Journal, sink pool.EventSink, clock func() int64, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		cfg:     cfg,
		ledger:  ledger,
		journal: journal,
		sink:    sink,
		clock:   clock,
		logger:  logger,
		pools:   make(map[[2]common.Address]*pool.Pool),
	}
}

// SortTokens validates a pair and returns it in canonical order, smaller
// identifier first.
func SortTokens(tokenA, tokenB common.Address) (common.Address, common.Address, error) {
	if tokenA == tokenB {
		return common.Address{}, common.Address{}, amm.ValidationErrorf("identical token addresses")
	}
	if tokenA == (common.Address{}) || tokenB == (common.Address{}) {
		return common.Address{}, common.Address{}, amm.ValidationErrorf("zero token address")
	}
	if bytes.Compare(tokenA.Bytes(), tokenB.Bytes()) > 0 {
		tokenA, tokenB = tokenB, tokenA
	}
	return tokenA, tokenB, nil
}

// PairAddress derives the deterministic pool address for a canonical pair.
func PairAddress(tokenA, tokenB common.Address) common.Address {
	return common.BytesToAddress(crypto.Keccak256(tokenA.Bytes(), tokenB.Bytes())[12:])
}

// Treasury returns the designated treasury address.
func (r *Registry) Treasury() common.Address { return r.cfg.Treasury }

// VoterClaimant returns the designated voter-fee claimant.
func (r *Registry) VoterClaimant() common.Address { return r.cfg.VoterClaimant }

// ResolvePool returns the pool for a pair, or nil when none exists.
func (r *Registry) ResolvePool(tokenA, tokenB common.Address) (*pool.Pool, error) {
	a, b, err := SortTokens(tokenA, tokenB)
	if err != nil {
		return nil, err
	}
	return r.pools[[2]common.Address{a, b}], nil
}

// CreatePool creates the pool for a pair. Fails if the pair already has one.
func (r *Registry) CreatePool(tokenA, tokenB common.Address) (*pool.Pool, error) {
	a, b, err := SortTokens(tokenA, tokenB)
	if err != nil {
		return nil, err
	}
	key := [2]common.Address{a, b}
	if r.pools[key] != nil {
		return nil, amm.ValidationErrorf("pool exists for pair %s/%s", a.Hex(), b.Hex())
	}

	addr := PairAddress(a, b)
	created := pool.New(pool.Params{
		Address:       addr,
		Factory:       r.cfg.Address,
		Fee:           r.cfg.Fee,
		Treasury:      r.Treasury,
		VoterClaimant: r.VoterClaimant,
		Ledger:        r.ledger,
		Journal:       r.journal,
		Sink:          r.sink,
		Clock:         r.clock,
	})
	if err := created.Initialize(r.cfg.Address, a, b); err != nil {
		return nil, err
	}
	r.ledger.Register(addr, token.Config{
		Symbol: "LP:" + r.ledger.Symbol(a) + "/" + r.ledger.Symbol(b),
	})

	r.pools[key] = created
	r.journal.Append(func() { delete(r.pools, key) })

	r.logger.Info("pool created",
		zap.String("pool", addr.Hex()),
		zap.String("token_a", a.Hex()),
		zap.String("token_b", b.Hex()),
		zap.Uint64("fee_bps", r.cfg.Fee.TotalFeeBps),
	)
	return created, nil
}

// EnsurePool resolves the pool for a pair, creating it when absent.
func (r *Registry) EnsurePool(tokenA, tokenB common.Address) (*pool.Pool, error) {
	existing, err := r.ResolvePool(tokenA, tokenB)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	return r.CreatePool(tokenA, tokenB)
}

// Pools returns every registered pool.
func (r *Registry) Pools() []*pool.Pool {
	out := make([]*pool.Pool, 0, len(r.pools))
	for _, p := range r.pools {
		out = append(out, p)
	}
	return out
}
