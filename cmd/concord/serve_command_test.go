package main

import (
	"strings"
	"testing"
)

func TestServeRefusesFailedPreflight(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"serve", "--bind", "no-port"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "API bind") {
		t.Fatalf("expected bind preflight failure, got %v", err)
	}
}
