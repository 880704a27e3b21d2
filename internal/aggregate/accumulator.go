package aggregate

import (
	"encoding/json"
	"fmt"
	"math/big"

	"pairswap/internal/model"
)

// Accumulator tallies per-pool activity from settled event records.
type Accumulator struct {
	PoolAddress string
	SwapCount   uint64
	MintCount   uint64
	BurnCount   uint64
	VolumeA     *big.Int
	VolumeB     *big.Int
	LastTS      int64
}

func NewAccumulator(poolAddress string) *Accumulator {
	return &Accumulator{
		PoolAddress: poolAddress,
		VolumeA:     big.NewInt(0),
		VolumeB:     big.NewInt(0),
	}
}

// AddEvent folds one event record into the tallies.
func (a *Accumulator) AddEvent(record model.EventRecord) error {
	if record.Timestamp >= a.LastTS {
		a.LastTS = record.Timestamp
	}

	switch record.Name {
	case model.EventSwap:
		var swap model.SwapEventData
		if err := json.Unmarshal(record.Data, &swap); err != nil {
			return fmt.Errorf("decode swap: %w", err)
		}
		return a.applySwap(swap)
	case model.EventMint:
		a.MintCount++
		return nil
	case model.EventBurn:
		a.BurnCount++
		return nil
	default:
		return nil
	}
}

func (a *Accumulator) applySwap(swap model.SwapEventData) error {
	for _, pair := range []struct {
		target  *big.Int
		in, out string
	}{
		{a.VolumeA, swap.AmountAIn, swap.AmountAOut},
		{a.VolumeB, swap.AmountBIn, swap.AmountBOut},
	} {
		in, err := parseBigInt(pair.in)
		if err != nil {
			return err
		}
		out, err := parseBigInt(pair.out)
		if err != nil {
			return err
		}
		pair.target.Add(pair.target, in)
		pair.target.Add(pair.target, out)
	}

	a.SwapCount++
	return nil
}

func parseBigInt(value string) (*big.Int, error) {
	if value == "" {
		return big.NewInt(0), nil
	}
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("invalid int: %s", value)
	}
	return parsed, nil
}
