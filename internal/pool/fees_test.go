package pool

import (
	"math/big"
	"math/rand"
	"testing"
)

func TestSplitFeeExactness(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 100_000; i++ {
		fee := new(big.Int).Rand(rng, new(big.Int).Lsh(big.NewInt(1), 100))
		shareBps := uint64(rng.Intn(BpsDenominator + 1))

		voter, treasury := SplitFee(fee, shareBps)

		sum := new(big.Int).Add(voter, treasury)
		if sum.Cmp(fee) != 0 {
			t.Fatalf("split lost units: %s + %s != %s (share %d)", voter, treasury, fee, shareBps)
		}
		if voter.Sign() < 0 || treasury.Sign() < 0 {
			t.Fatalf("negative split: %s / %s", voter, treasury)
		}
	}
}

func TestSplitFeeBoundaries(t *testing.T) {
	cases := []struct {
		name     string
		fee      int64
		shareBps uint64
		voter    int64
		treasury int64
	}{
		{"all to voter", 1000, 10_000, 1000, 0},
		{"all to treasury", 1000, 0, 0, 1000},
		{"remainder to treasury", 3, 5000, 1, 2},
		{"zero fee", 0, 6000, 0, 0},
		{"default split", 250, 6000, 150, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			voter, treasury := SplitFee(big.NewInt(tc.fee), tc.shareBps)
			if voter.Cmp(big.NewInt(tc.voter)) != 0 || treasury.Cmp(big.NewInt(tc.treasury)) != 0 {
				t.Fatalf("split(%d, %d) = %s/%s, want %d/%d",
					tc.fee, tc.shareBps, voter, treasury, tc.voter, tc.treasury)
			}
		})
	}
}

func TestSwapFeeFloorRounding(t *testing.T) {
	// 100 units at 25 bps floors to zero; the fee engine must not invent dust.
	fee := SwapFee(big.NewInt(100), 25)
	if fee.Sign() != 0 {
		t.Fatalf("fee = %s, want 0", fee)
	}
	fee = SwapFee(big.NewInt(100_000), 25)
	if fee.Cmp(big.NewInt(250)) != 0 {
		t.Fatalf("fee = %s, want 250", fee)
	}
}
