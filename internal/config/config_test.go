package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.FeeBps != 25 {
		t.Fatalf("fee-bps = %d, want 25", cfg.FeeBps)
	}
	if cfg.VoterShareBps != 6000 {
		t.Fatalf("voter-share-bps = %d, want 6000", cfg.VoterShareBps)
	}
	if cfg.Out != "./data/events.jsonl" {
		t.Fatalf("out = %s, want ./data/events.jsonl", cfg.Out)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("log-level = %s, want info", cfg.LogLevel)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "fee-bps: 30\nvoter-share-bps: 5000\nout: /tmp/events.jsonl\ntreasury: \"0xe1\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.FeeBps != 30 || cfg.VoterShareBps != 5000 {
		t.Fatalf("fee config = %d/%d, want 30/5000", cfg.FeeBps, cfg.VoterShareBps)
	}
	if cfg.Out != "/tmp/events.jsonl" || cfg.Treasury != "0xe1" {
		t.Fatalf("out/treasury = %s/%s", cfg.Out, cfg.Treasury)
	}
}

func TestLoadFlagOverride(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Uint64("fee-bps", 25, "")
	flags.String("log-level", "info", "")
	if err := flags.Parse([]string{"--fee-bps=100", "--log-level=debug"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load("", flags)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.FeeBps != 100 {
		t.Fatalf("fee-bps = %d, want 100", cfg.FeeBps)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log-level = %s, want debug", cfg.LogLevel)
	}
}

func TestLoadRejectsBadBps(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Uint64("fee-bps", 25, "")
	if err := flags.Parse([]string{"--fee-bps=10000"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if _, err := Load("", flags); err == nil {
		t.Fatalf("expected rejection of fee-bps at denominator")
	}
}
