package main

import (
	"testing"

	"go.uber.org/zap"
)

func TestCommandRegistration(t *testing.T) {
	want := map[string]bool{
		"distribute": false,
		"plan":       false,
		"nodes":      false,
		"allocate":   false,
	}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	logger = zap.NewNop()

	if err := distributeCmd.Flags().Set("split-method", "square"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	if err := distributeCmd.Flags().Set("workers", "3"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	t.Cleanup(func() {
		splitMethod = ""
		workers = 0
	})

	cfg, err := loadConfig(distributeCmd)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Split.Method != "square" {
		t.Errorf("expected flag to override split method, got %q", cfg.Split.Method)
	}
	if cfg.Execution.Workers != 3 {
		t.Errorf("expected flag to override workers, got %d", cfg.Execution.Workers)
	}
}
