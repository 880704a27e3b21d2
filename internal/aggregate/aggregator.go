package aggregate

import (
	"go.uber.org/zap"

	"pairswap/internal/model"
)

// Aggregator folds settled event records into per-pool accumulators, the
// in-process equivalent of the off-chain indexer that consumes the event
// stream.
type Aggregator struct {
	logger       *zap.Logger
	accumulators map[string]*Accumulator
}

func NewAggregator(logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		logger:       logger,
		accumulators: make(map[string]*Accumulator),
	}
}

// Consume folds a batch of event records.
func (a *Aggregator) Consume(events []model.EventRecord) error {
	for _, record := range events {
		acc, ok := a.accumulators[record.Pool]
		if !ok {
			acc = NewAccumulator(record.Pool)
			a.accumulators[record.Pool] = acc
		}
		if err := acc.AddEvent(record); err != nil {
			return err
		}
	}
	return nil
}

// Summaries returns the accumulated tallies per pool.
func (a *Aggregator) Summaries() []*Accumulator {
	out := make([]*Accumulator, 0, len(a.accumulators))
	for _, acc := range a.accumulators {
		out = append(out, acc)
	}
	return out
}

// Log writes one summary line per pool.
func (a *Aggregator) Log() {
	for _, acc := range a.accumulators {
		a.logger.Info("pool activity",
			zap.String("pool", acc.PoolAddress),
			zap.Uint64("swaps", acc.SwapCount),
			zap.Uint64("mints", acc.MintCount),
			zap.Uint64("burns", acc.BurnCount),
			zap.String("volume_a", acc.VolumeA.String()),
			zap.String("volume_b", acc.VolumeB.String()),
		)
	}
}
