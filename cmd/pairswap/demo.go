package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pairswap/internal/aggregate"
	"pairswap/internal/config"
	"pairswap/internal/model"
	"pairswap/internal/pool"
	"pairswap/internal/registry"
	"pairswap/internal/router"
	"pairswap/internal/state"
	"pairswap/internal/storage"
	"pairswap/internal/storage/postgres"
	"pairswap/internal/token"
)

// Fixed demo identities. Assets and accounts are plain addresses; the ledger
// gives them meaning.
var (
	registryAddr = common.HexToAddress("0x0000000000000000000000000000000000000101")
	routerAddr   = common.HexToAddress("0x0000000000000000000000000000000000000102")
	treasuryAddr = common.HexToAddress("0x0000000000000000000000000000000000000201")
	voterAddr    = common.HexToAddress("0x0000000000000000000000000000000000000202")
	aliceAddr    = common.HexToAddress("0x0000000000000000000000000000000000000a01")

	assetA = common.HexToAddress("0x0000000000000000000000000000000000001001")
	assetB = common.HexToAddress("0x0000000000000000000000000000000000001002")
	assetC = common.HexToAddress("0x0000000000000000000000000000000000001003")
)

func runDemo(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	treasury := treasuryAddr
	if cfg.Treasury != "" {
		treasury = common.HexToAddress(cfg.Treasury)
	}
	voter := voterAddr
	if cfg.VoterClaimant != "" {
		voter = common.HexToAddress(cfg.VoterClaimant)
	}

	journal := state.NewJournal()
	ledger := token.NewLedger(journal)
	recorder := storage.NewRecorder(journal)
	reg := registry.New(registry.Config{
		Address:       registryAddr,
		Treasury:      treasury,
		VoterClaimant: voter,
		Fee: pool.FeeConfig{
			TotalFeeBps:   cfg.FeeBps,
			VoterShareBps: cfg.VoterShareBps,
		},
	}, ledger, journal, recorder, nil, logger)
	rt := router.New(routerAddr, reg, ledger, journal, nil, logger)

	ledger.Register(assetA, token.Config{Symbol: "AAA"})
	ledger.Register(assetB, token.Config{Symbol: "BBB"})
	ledger.Register(assetC, token.Config{Symbol: "CCC"})

	grant := big.NewInt(10_000_000)
	for _, asset := range []common.Address{assetA, assetB, assetC} {
		if err := ledger.Mint(asset, aliceAddr, grant); err != nil {
			return err
		}
		ledger.Approve(asset, aliceAddr, routerAddr, grant)
	}
	journal.Commit()

	deadline := int64(1 << 62)

	step := func(name string, fn func() error) error {
		if err := fn(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		journal.Commit()
		return nil
	}

	if err := step("add liquidity A/B", func() error {
		_, _, liquidity, err := rt.AddLiquidity(aliceAddr, assetA, assetB,
			big.NewInt(1_000_000), big.NewInt(4_000_000), big.NewInt(0), big.NewInt(0),
			aliceAddr, deadline)
		if err != nil {
			return err
		}
		logger.Info("liquidity minted", zap.String("pair", "AAA/BBB"), zap.String("shares", liquidity.String()))
		return nil
	}); err != nil {
		return err
	}

	if err := step("add liquidity B/C", func() error {
		_, _, liquidity, err := rt.AddLiquidity(aliceAddr, assetB, assetC,
			big.NewInt(2_000_000), big.NewInt(2_000_000), big.NewInt(0), big.NewInt(0),
			aliceAddr, deadline)
		if err != nil {
			return err
		}
		logger.Info("liquidity minted", zap.String("pair", "BBB/CCC"), zap.String("shares", liquidity.String()))
		return nil
	}); err != nil {
		return err
	}

	if err := step("swap A->B", func() error {
		amounts, err := rt.SwapExactTokensForTokens(aliceAddr, big.NewInt(10_000), big.NewInt(1),
			[]common.Address{assetA, assetB}, aliceAddr, deadline)
		if err != nil {
			return err
		}
		logger.Info("swap settled", zap.String("in", amounts[0].String()), zap.String("out", amounts[len(amounts)-1].String()))
		return nil
	}); err != nil {
		return err
	}

	if err := step("swap A->B->C", func() error {
		amounts, err := rt.SwapExactTokensForTokens(aliceAddr, big.NewInt(25_000), big.NewInt(1),
			[]common.Address{assetA, assetB, assetC}, aliceAddr, deadline)
		if err != nil {
			return err
		}
		logger.Info("multi-hop swap settled",
			zap.String("in", amounts[0].String()),
			zap.String("mid", amounts[1].String()),
			zap.String("out", amounts[2].String()),
		)
		return nil
	}); err != nil {
		return err
	}

	if err := step("remove liquidity A/B", func() error {
		p, err := reg.ResolvePool(assetA, assetB)
		if err != nil {
			return err
		}
		// LP shares are spent through the router like any other token.
		ledger.Approve(p.Address(), aliceAddr, routerAddr, big.NewInt(100_000))
		amountA, amountB, err := rt.RemoveLiquidity(aliceAddr, assetA, assetB,
			big.NewInt(100_000), big.NewInt(1), big.NewInt(1), aliceAddr, deadline)
		if err != nil {
			return err
		}
		logger.Info("liquidity removed", zap.String("amount_a", amountA.String()), zap.String("amount_b", amountB.String()))
		return nil
	}); err != nil {
		return err
	}

	if err := step("claim treasury fees", func() error {
		for _, p := range reg.Pools() {
			if err := p.ClaimTreasuryFees(treasury, treasury); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	events := recorder.Drain()
	logger.Info("flushing events", zap.Int("count", len(events)), zap.String("out", cfg.Out))

	agg := aggregate.NewAggregator(logger)
	if err := agg.Consume(events); err != nil {
		return err
	}
	agg.Log()

	sink := storage.NewJsonlStorage(cfg.Out)
	if err := sink.PutEventBatch(events); err != nil {
		return err
	}

	if cfg.PgDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PgDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		pools := make([]model.Pool, 0, len(reg.Pools()))
		for _, p := range reg.Pools() {
			tokenA, tokenB := p.Tokens()
			_, _, lastUpdate := p.Reserves()
			pools = append(pools, model.Pool{
				Address: p.Address().Hex(),
				TokenA:  tokenA.Hex(),
				TokenB:  tokenB.Hex(),
				FeeBps:  p.Fee().TotalFeeBps,
				Created: lastUpdate,
			})
		}
		if err := store.UpsertPools(ctx, pools); err != nil {
			return err
		}
		if err := store.InsertEvents(ctx, events); err != nil {
			return err
		}
		logger.Info("events persisted", zap.Int("count", len(events)))
	}

	return nil
}
