// Package interfaces defines the Go-side contract boundary between the
// agent core and the out-of-scope UI front-end (spec.md §6). Grounded on
// internal/interfaces/config.go's ConfigManager: a small, storage-agnostic
// interface describing exactly the cross-boundary operations, generalized
// here from config load/save to the agent's full local-operations surface.
package interfaces

import (
	"github.com/vibecode/agent/internal/config"
	"github.com/vibecode/agent/internal/state"
)

// LocalOps is the set of operations a UI front-end may invoke on the agent
// core (spec.md §6). internal/agentctl.Controller implements it.
type LocalOps interface {
	// GetStatus returns the current ConnectionStatus.
	GetStatus() state.Status

	// GetMetrics forces a fresh probe sample.
	GetMetrics() state.SystemMetrics

	// GetLogs returns an ordered snapshot of the log ring.
	GetLogs() []state.LogEntry

	// GetSettings returns the current AgentSettings.
	GetSettings() config.AgentSettings

	// UpdateSettings persists settings and applies them in memory; per
	// spec.md §6 a changed serverUrl takes effect on the next reconnect,
	// not immediately.
	UpdateSettings(settings config.AgentSettings) error

	// Connect is idempotent: a no-op if already connected.
	Connect()

	// Disconnect marks the agent not-connected; the engine unwinds.
	Disconnect()

	// SelectDirectory is delegated to the UI; the core has no native
	// directory picker. Returning ("", false) means the user cancelled.
	SelectDirectory() (string, bool)
}

// SelectDirectoryFunc lets the UI front-end supply its own native picker;
// the core never implements one itself (spec.md §6: "delegated to UI").
type SelectDirectoryFunc func() (string, bool)
