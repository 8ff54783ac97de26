package agentctl

import (
	"testing"

	"github.com/vibecode/agent/internal/config"
	"github.com/vibecode/agent/internal/state"
)

func newTestController(t *testing.T) *Controller {
	t.Helper()
	store := config.NewStore(t.TempDir())
	c, err := New(store, "test", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestGetStatusInitiallyDisconnected(t *testing.T) {
	c := newTestController(t)
	if c.GetStatus() != state.StatusDisconnected {
		t.Fatalf("expected initial status Disconnected, got %s", c.GetStatus())
	}
}

func TestUpdateSettingsPersistsAndApplies(t *testing.T) {
	c := newTestController(t)
	settings := c.GetSettings()
	settings.MaxConcurrentCommands = 9
	settings.ServerURL = "wss://example.test/ws"

	if err := c.UpdateSettings(settings); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}

	if got := c.GetSettings().MaxConcurrentCommands; got != 9 {
		t.Fatalf("expected in-memory update, got %d", got)
	}

	reloaded, err := c.Store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if reloaded.ServerURL != "wss://example.test/ws" {
		t.Fatalf("expected persisted settings to round-trip, got %+v", reloaded)
	}
}

func TestSelectDirectoryWithoutPickerReturnsFalse(t *testing.T) {
	c := newTestController(t)
	path, ok := c.SelectDirectory()
	if ok || path != "" {
		t.Fatalf("expected (\"\", false) with no picker, got (%q, %v)", path, ok)
	}
}
