package storage

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"pairswap/internal/state"
)

var poolAddr = common.HexToAddress("0x00000000000000000000000000000000000000d1")

func TestRecorderSequencesEvents(t *testing.T) {
	journal := state.NewJournal()
	r := NewRecorder(journal)

	r.Record(poolAddr, "Swap", 100, json.RawMessage(`{}`))
	r.Record(poolAddr, "Sync", 100, json.RawMessage(`{}`))

	events := r.Events()
	if len(events) != 2 {
		t.Fatalf("held %d events, want 2", len(events))
	}
	if events[0].Seq != 1 || events[1].Seq != 2 {
		t.Fatalf("sequence numbers %d, %d, want 1, 2", events[0].Seq, events[1].Seq)
	}
	if events[0].Pool != poolAddr.Hex() {
		t.Fatalf("pool = %s, want %s", events[0].Pool, poolAddr.Hex())
	}
}

func TestRecorderRevertDropsEventsAndSeq(t *testing.T) {
	journal := state.NewJournal()
	r := NewRecorder(journal)

	r.Record(poolAddr, "Mint", 100, json.RawMessage(`{}`))
	revision := journal.Snapshot()
	r.Record(poolAddr, "Swap", 101, json.RawMessage(`{}`))
	r.Record(poolAddr, "Sync", 101, json.RawMessage(`{}`))
	journal.RevertTo(revision)

	events := r.Events()
	if len(events) != 1 {
		t.Fatalf("held %d events after revert, want 1", len(events))
	}

	// The next record reuses the unwound sequence numbers.
	r.Record(poolAddr, "Burn", 102, json.RawMessage(`{}`))
	events = r.Events()
	if events[1].Seq != 2 {
		t.Fatalf("seq after revert = %d, want 2", events[1].Seq)
	}
}

func TestRecorderDrainClearsBuffer(t *testing.T) {
	journal := state.NewJournal()
	r := NewRecorder(journal)

	r.Record(poolAddr, "Mint", 100, json.RawMessage(`{}`))
	r.Record(poolAddr, "Sync", 100, json.RawMessage(`{}`))
	journal.Commit()

	drained := r.Drain()
	if len(drained) != 2 {
		t.Fatalf("drained %d events, want 2", len(drained))
	}
	if len(r.Events()) != 0 {
		t.Fatalf("buffer not cleared after drain")
	}
}
