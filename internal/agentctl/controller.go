// Package agentctl wires the agent's components together and exposes the
// spec.md §6 local-operations surface the UI front-end drives. Grounded on
// internal/daemon/daemon.go's construct-everything-then-Run shape, split
// here into a long-lived Controller so local operations can be called
// from a CLI command rather than only at process startup.
package agentctl

import (
	"context"

	"github.com/vibecode/agent/internal/bridge"
	"github.com/vibecode/agent/internal/config"
	"github.com/vibecode/agent/internal/executor"
	"github.com/vibecode/agent/internal/interfaces"
	"github.com/vibecode/agent/internal/probe"
	"github.com/vibecode/agent/internal/state"
	"github.com/vibecode/agent/internal/supervisor"
)

// Controller implements interfaces.LocalOps, gluing Shared State, the
// System Probe, the Tool Executor, the Connection Supervisor, the
// settings Store, and the UI Event Bridge into one unit.
type Controller struct {
	State      *state.State
	Store      *config.Store
	Probe      *probe.Probe
	Executor   *executor.Executor
	Supervisor *supervisor.Supervisor
	Bridge     *bridge.Bridge

	selectDirectory interfaces.SelectDirectoryFunc
}

var _ interfaces.LocalOps = (*Controller)(nil)

// New constructs a Controller with settings loaded from store, wiring
// every component spec.md §2 lists. version is reported in agent_register
// and selectDir is the UI-supplied directory picker (nil if none).
func New(store *config.Store, version string, selectDir interfaces.SelectDirectoryFunc) (*Controller, error) {
	settings, err := store.Load()
	if err != nil {
		settings = config.Defaults()
	}

	st := state.New(settings)
	pr := probe.New(st)
	ex := &executor.Executor{}
	br := bridge.New()
	sup := supervisor.New(st, pr, ex, br, version)

	return &Controller{
		State:           st,
		Store:           store,
		Probe:           pr,
		Executor:        ex,
		Supervisor:      sup,
		Bridge:          br,
		selectDirectory: selectDir,
	}, nil
}

// Start launches the Connection Supervisor if settings.autoConnectOnLaunch
// is true, honoring spec.md §4.6's startup contract.
func (c *Controller) Start(ctx context.Context) {
	if c.State.Settings().AutoConnectOnLaunch {
		c.Supervisor.Connect(ctx)
	}
}

// GetStatus implements interfaces.LocalOps.
func (c *Controller) GetStatus() state.Status {
	return c.State.Status()
}

// GetMetrics implements interfaces.LocalOps: forces a fresh probe sample.
func (c *Controller) GetMetrics() state.SystemMetrics {
	return c.Probe.Sample(context.Background())
}

// GetLogs implements interfaces.LocalOps.
func (c *Controller) GetLogs() []state.LogEntry {
	return c.State.Logs()
}

// GetSettings implements interfaces.LocalOps.
func (c *Controller) GetSettings() config.AgentSettings {
	return c.State.Settings()
}

// UpdateSettings implements interfaces.LocalOps: persists to the settings
// store and applies in memory. A changed serverUrl only takes effect on
// the next reconnect (spec.md §6, §9 open question) — it never severs the
// current connection. A store failure is logged, not fatal: the update
// still takes effect in memory (spec.md §7).
func (c *Controller) UpdateSettings(settings config.AgentSettings) error {
	c.State.SetSettings(settings)
	if err := c.Store.Save(settings); err != nil {
		c.State.AddLog(state.LevelError, "failed to persist settings: "+err.Error())
		return err
	}
	return nil
}

// Connect implements interfaces.LocalOps.
func (c *Controller) Connect() {
	c.Supervisor.Connect(context.Background())
}

// Disconnect implements interfaces.LocalOps.
func (c *Controller) Disconnect() {
	c.Supervisor.Disconnect()
}

// SelectDirectory implements interfaces.LocalOps, delegating to whatever
// native picker the UI front-end supplied.
func (c *Controller) SelectDirectory() (string, bool) {
	if c.selectDirectory == nil {
		return "", false
	}
	return c.selectDirectory()
}
