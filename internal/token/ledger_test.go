package token

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"pairswap/internal/amm"
	"pairswap/internal/state"
)

var (
	tokenX = common.HexToAddress("0x0000000000000000000000000000000000000001")
	alice  = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob    = common.HexToAddress("0x00000000000000000000000000000000000000b1")
	carol  = common.HexToAddress("0x00000000000000000000000000000000000000c1")
)

func newLedger(t *testing.T) (*Ledger, *state.Journal) {
	t.Helper()
	journal := state.NewJournal()
	return NewLedger(journal), journal
}

func TestMintTransferBurn(t *testing.T) {
	ledger, _ := newLedger(t)

	if err := ledger.Mint(tokenX, alice, big.NewInt(1000)); err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if got := ledger.TotalSupply(tokenX); got.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("supply = %s, want 1000", got)
	}

	if err := ledger.Transfer(tokenX, alice, bob, big.NewInt(400)); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	if got := ledger.BalanceOf(tokenX, bob); got.Cmp(big.NewInt(400)) != 0 {
		t.Fatalf("bob balance = %s, want 400", got)
	}

	if err := ledger.Burn(tokenX, bob, big.NewInt(400)); err != nil {
		t.Fatalf("burn failed: %v", err)
	}
	if got := ledger.TotalSupply(tokenX); got.Cmp(big.NewInt(600)) != 0 {
		t.Fatalf("supply after burn = %s, want 600", got)
	}
}

func TestTransferInsufficientBalance(t *testing.T) {
	ledger, _ := newLedger(t)

	if err := ledger.Mint(tokenX, alice, big.NewInt(10)); err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	err := ledger.Transfer(tokenX, alice, bob, big.NewInt(11))
	if !errors.Is(err, amm.ErrLiquidity) {
		t.Fatalf("expected liquidity error, got %v", err)
	}
	if got := ledger.BalanceOf(tokenX, alice); got.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("balance changed on failed transfer: %s", got)
	}
}

func TestAllowanceAndTransferFrom(t *testing.T) {
	ledger, _ := newLedger(t)

	if err := ledger.Mint(tokenX, alice, big.NewInt(100)); err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	ledger.Approve(tokenX, alice, bob, big.NewInt(60))

	if err := ledger.TransferFrom(tokenX, bob, alice, carol, big.NewInt(50)); err != nil {
		t.Fatalf("transferFrom failed: %v", err)
	}
	if got := ledger.Allowance(tokenX, alice, bob); got.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("remaining allowance = %s, want 10", got)
	}

	err := ledger.TransferFrom(tokenX, bob, alice, carol, big.NewInt(11))
	if !errors.Is(err, amm.ErrValidation) {
		t.Fatalf("expected validation error beyond allowance, got %v", err)
	}
}

func TestFeeOnTransferDeliversLess(t *testing.T) {
	ledger, _ := newLedger(t)
	ledger.Register(tokenX, Config{TransferFeeBps: 100}) // 1% burned in transit

	if err := ledger.Mint(tokenX, alice, big.NewInt(10_000)); err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if err := ledger.Transfer(tokenX, alice, bob, big.NewInt(10_000)); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	if got := ledger.BalanceOf(tokenX, bob); got.Cmp(big.NewInt(9_900)) != 0 {
		t.Fatalf("delivered = %s, want 9900", got)
	}
	if got := ledger.TotalSupply(tokenX); got.Cmp(big.NewInt(9_900)) != 0 {
		t.Fatalf("supply = %s, want 9900 after transit burn", got)
	}
}

func TestTransferHookFires(t *testing.T) {
	ledger, _ := newLedger(t)

	var hookAmount *big.Int
	ledger.Register(tokenX, Config{Hook: func(from, to common.Address, amount *big.Int) {
		hookAmount = amount
	}})

	if err := ledger.Mint(tokenX, alice, big.NewInt(5)); err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if err := ledger.Transfer(tokenX, alice, bob, big.NewInt(5)); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	if hookAmount == nil || hookAmount.Cmp(big.NewInt(5)) != 0 {
		t.Fatalf("hook amount = %v, want 5", hookAmount)
	}
}

func TestJournalRevertRestoresBalances(t *testing.T) {
	ledger, journal := newLedger(t)

	if err := ledger.Mint(tokenX, alice, big.NewInt(500)); err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	rev := journal.Snapshot()

	if err := ledger.Transfer(tokenX, alice, bob, big.NewInt(200)); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	ledger.Approve(tokenX, alice, bob, big.NewInt(99))

	journal.RevertTo(rev)

	if got := ledger.BalanceOf(tokenX, alice); got.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("alice balance after revert = %s, want 500", got)
	}
	if got := ledger.BalanceOf(tokenX, bob); got.Sign() != 0 {
		t.Fatalf("bob balance after revert = %s, want 0", got)
	}
	if got := ledger.Allowance(tokenX, alice, bob); got.Sign() != 0 {
		t.Fatalf("allowance after revert = %s, want 0", got)
	}
}
