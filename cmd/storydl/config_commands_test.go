package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath, nil)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.configPath)
	requireContains(t, out, "[OK]")
	requireContains(t, out, env.cfg.Output.Dir+" (txt)")
	requireContains(t, out, env.cfg.History.Path)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "", nil)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, "", nil); err == nil {
		t.Fatal("expected refusal to overwrite existing config")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, "", nil); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, target, nil)
	if err != nil {
		t.Fatalf("validate sample: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}

func TestConfigShowReflectsOverrides(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "show"}, env.configPath, nil)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, env.server.URL)
	requireContains(t, out, "[logging]")
	requireContains(t, out, env.cfg.History.Path)
}

func TestInvalidLogLevelFlag(t *testing.T) {
	env := setupCLITestEnv(t)
	cmd := newRootCommand()
	cmd.SetArgs([]string{"--config", env.configPath, "--log-level", "loud", "config", "show"})
	cmd.SetOut(os.Stderr)
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected invalid log level to fail")
	}
}
