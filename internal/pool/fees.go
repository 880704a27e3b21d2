package pool

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"pairswap/internal/amm"
)

// BpsDenominator is the basis-point denominator shared by the swap fee and
// its voter/treasury split.
const BpsDenominator = 10_000

// SwapFee computes the fee retained from a positive swap input.
func SwapFee(amountIn *big.Int, totalFeeBps uint64) *big.Int {
	fee := new(big.Int).Mul(amountIn, new(big.Int).SetUint64(totalFeeBps))
	return fee.Div(fee, big.NewInt(BpsDenominator))
}

// SplitFee divides a retained fee between the voter and treasury buckets.
// The voter share is computed first by integer multiply-then-divide; the
// remainder goes to the treasury, so voter + treasury always equals fee to
// the unit.
func SplitFee(fee *big.Int, voterShareBps uint64) (voter, treasury *big.Int) {
	voter = new(big.Int).Mul(fee, new(big.Int).SetUint64(voterShareBps))
	voter.Div(voter, big.NewInt(BpsDenominator))
	treasury = new(big.Int).Sub(fee, voter)
	return voter, treasury
}

// accrueFee charges the pool fee on a positive input of tok and credits both
// buckets. It returns the total fee taken.
func (p *Pool) accrueFee(tok common.Address, amountIn *big.Int) *big.Int {
	fee := SwapFee(amountIn, p.fee.TotalFeeBps)
	if fee.Sign() == 0 {
		return fee
	}
	voter, treasury := SplitFee(fee, p.fee.VoterShareBps)
	if tok == p.tokenA {
		p.setBig(&p.voterFeeA, new(big.Int).Add(p.voterFeeA, voter))
		p.setBig(&p.treasuryFeeA, new(big.Int).Add(p.treasuryFeeA, treasury))
	} else {
		p.setBig(&p.voterFeeB, new(big.Int).Add(p.voterFeeB, voter))
		p.setBig(&p.treasuryFeeB, new(big.Int).Add(p.treasuryFeeB, treasury))
	}
	return fee
}

// ClaimTreasuryFees zeroes the treasury buckets and pays them out to to.
// Only the registry-designated treasury address may call it.
func (p *Pool) ClaimTreasuryFees(sender, to common.Address) error {
	return p.guarded(func() error {
		if p.treasury == nil || sender != p.treasury() {
			return amm.ValidationErrorf("claim caller %s is not the treasury", sender.Hex())
		}
		return p.payBuckets(&p.treasuryFeeA, &p.treasuryFeeB, to)
	})
}

// ClaimVoterFees zeroes the voter buckets and pays them out to to. Only the
// injected voter claimant may call it.
func (p *Pool) ClaimVoterFees(sender, to common.Address) error {
	return p.guarded(func() error {
		if p.voterClaimant == nil || sender != p.voterClaimant() {
			return amm.ValidationErrorf("claim caller %s is not the voter claimant", sender.Hex())
		}
		return p.payBuckets(&p.voterFeeA, &p.voterFeeB, to)
	})
}

func (p *Pool) payBuckets(bucketA, bucketB **big.Int, to common.Address) error {
	amountA := new(big.Int).Set(*bucketA)
	amountB := new(big.Int).Set(*bucketB)
	p.setBig(bucketA, new(big.Int))
	p.setBig(bucketB, new(big.Int))
	if amountA.Sign() > 0 {
		if err := p.ledger.Transfer(p.tokenA, p.addr, to, amountA); err != nil {
			return err
		}
	}
	if amountB.Sign() > 0 {
		if err := p.ledger.Transfer(p.tokenB, p.addr, to, amountB); err != nil {
			return err
		}
	}
	return nil
}
