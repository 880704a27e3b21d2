package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"pairswap/internal/model"
)

// The scripted session must run end to end: both deposits, both swaps, the
// share removal through the router's allowance, the treasury claims, and the
// event flush.
func TestDemoRunsToCompletion(t *testing.T) {
	out := filepath.Join(t.TempDir(), "events.jsonl")

	cmd := newDemoCmd()
	cmd.SetArgs([]string{"--out", out, "--log-level", "error"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("demo failed: %v", err)
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read event log: %v", err)
	}

	counts := make(map[string]int)
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	for scanner.Scan() {
		var record model.EventRecord
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			t.Fatalf("bad event line %q: %v", scanner.Text(), err)
		}
		counts[record.Name]++
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan event log: %v", err)
	}

	if counts[model.EventMint] != 2 {
		t.Fatalf("logged %d mints, want 2", counts[model.EventMint])
	}
	if counts[model.EventSwap] != 3 {
		t.Fatalf("logged %d swaps, want 3", counts[model.EventSwap])
	}
	if counts[model.EventBurn] != 1 {
		t.Fatalf("logged %d burns, want 1", counts[model.EventBurn])
	}
}

func TestQuoteRejectsFeeAtDenominator(t *testing.T) {
	cmd := newQuoteCmd()
	cmd.SetArgs([]string{
		"--amount-out", "100",
		"--reserve-in", "1000000",
		"--reserve-out", "1000000",
		"--fee-bps", "10000",
	})
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected rejection of fee-bps at denominator")
	}
}
