package testsupport

import (
	"context"
	"testing"

	"concord/internal/config"
	"concord/internal/logging"
	"concord/internal/workspace"
)

// OpenWorkspace opens a writable workspace for cfg and closes it on cleanup.
func OpenWorkspace(t testing.TB, cfg *config.Config) *workspace.Workspace {
	t.Helper()

	ws, err := workspace.Open(context.Background(), cfg, logging.NewNop(), workspace.Options{})
	if err != nil {
		t.Fatalf("open workspace: %v", err)
	}
	t.Cleanup(func() {
		_ = ws.Close()
	})
	return ws
}
