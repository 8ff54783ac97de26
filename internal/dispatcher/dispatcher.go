// Package dispatcher is the Task Dispatcher (spec.md §4.4): it decides
// whether an arriving tool_request executes immediately or waits in the
// overflow queue, and drains the queue as capacity reopens. Grounded on
// internal/relay/workers.go's admit-or-queue pattern for routing incoming
// work against a bounded worker pool, generalized from session-fan-out to
// the single-host concurrency ceiling spec.md §4.4 describes.
package dispatcher

import (
	"context"
	"fmt"
	"time"

	"github.com/vibecode/agent/internal/bridge"
	"github.com/vibecode/agent/internal/executor"
	"github.com/vibecode/agent/internal/probe"
	"github.com/vibecode/agent/internal/state"
)

// ToolRequest is an inbound tool invocation, independent of how the
// Protocol Engine framed it on the wire.
type ToolRequest struct {
	RequestID string
	SessionID string
	Tool      string
	Input     map[string]any
	CWD       string
}

// ToolResponse is the terminal outcome of one ToolRequest (spec.md §4.5's
// tool_response), handed to the Emitter for framing.
type ToolResponse struct {
	RequestID     string
	SessionID     string
	Result        string
	Error         string
	Metrics       *executor.ProcessMetrics
	Queued        bool
	QueuePosition int
}

// Emitter is the Dispatcher's view of the Protocol Engine: it never frames
// messages itself, it only decides when a queued notice or a terminal
// response is due.
type Emitter interface {
	EmitToolQueued(requestID, sessionID string, queuePosition int, reason string)
	EmitToolResponse(resp ToolResponse)
}

// Dispatcher implements the admission rule and drain step of spec.md §4.4.
type Dispatcher struct {
	State    *state.State
	Probe    *probe.Probe
	Executor *executor.Executor
	Emitter  Emitter
	Bridge   *bridge.Bridge
}

// New constructs a Dispatcher wired to its collaborators.
func New(st *state.State, pr *probe.Probe, ex *executor.Executor, emitter Emitter, br *bridge.Bridge) *Dispatcher {
	return &Dispatcher{State: st, Probe: pr, Executor: ex, Emitter: emitter, Bridge: br}
}

// HandleRequest applies the admission rule (spec.md §4.4) to a freshly
// arrived request: only run_command tasks ever queue (invariant 6).
func (d *Dispatcher) HandleRequest(ctx context.Context, req ToolRequest) {
	active := d.State.Active()
	max := d.State.Settings().MaxConcurrentCommands
	metrics := d.Probe.SampleFast(ctx)
	overloaded := probe.Overloaded(metrics)

	shouldQueue := active >= max || (req.Tool == "run_command" && overloaded)
	if shouldQueue && req.Tool == "run_command" {
		task := state.QueuedTask{
			RequestID: req.RequestID,
			SessionID: req.SessionID,
			Tool:      req.Tool,
			Input:     req.Input,
			CWD:       req.CWD,
			QueuedAt:  time.Now().UTC(),
		}
		position := d.State.Enqueue(task)
		d.Emitter.EmitToolQueued(req.RequestID, req.SessionID, position, queueReason(active, max, overloaded, metrics))
		return
	}

	// Multiple tools may run concurrently up to max; the read loop that
	// calls HandleRequest must not block on any single invocation.
	go d.execute(ctx, req, false)
}

// queueReason builds the human-readable reason spec.md §4.4 requires on a
// tool_queued frame.
func queueReason(active, max int, overloaded bool, metrics state.SystemMetrics) string {
	if active >= max {
		return fmt.Sprintf("Max concurrent commands (%d) reached", max)
	}
	_ = overloaded
	return fmt.Sprintf("System load high (CPU: %.1f%%, Mem: %.1f%%)", metrics.CPUPercent, metrics.MemoryPercent)
}

// execute implements spec.md §4.4.a: run one tool invocation to completion,
// emit its response, and attempt to drain the queue afterward.
func (d *Dispatcher) execute(ctx context.Context, req ToolRequest, wasQueued bool) {
	d.State.IncActive()
	d.State.SetStatus(state.StatusWorking)

	result := d.Executor.Execute(ctx, req.Tool, req.Input, req.CWD)

	resp := ToolResponse{
		RequestID: req.RequestID,
		SessionID: req.SessionID,
		Result:    result.Result,
		Error:     result.Error,
		Metrics:   result.Metrics,
	}
	if wasQueued {
		resp.Queued = true
		resp.QueuePosition = 0
	}
	d.Emitter.EmitToolResponse(resp)

	d.State.DecActive()
	if d.State.Active() == 0 && d.State.IsConnected() {
		d.State.SetStatus(state.StatusConnected)
	}
	d.publish(ctx)

	d.drain(ctx)
}

// publish notifies the UI Event Bridge after a task completion (spec.md
// §4.7), using the fast, non-blocking sample since this runs on every
// task's completion path, not just the telemetry tick.
func (d *Dispatcher) publish(ctx context.Context) {
	if d.Bridge == nil {
		return
	}
	d.Bridge.Publish(bridge.StatusUpdate{
		Status:  d.State.Status(),
		Metrics: d.Probe.SampleFast(ctx),
		AgentID: d.State.AgentID(),
	})
}

// drain implements spec.md §4.4.b: pop the queue head if there is headroom.
// Only ever called from a completion path — there is no background timer.
func (d *Dispatcher) drain(ctx context.Context) {
	max := d.State.Settings().MaxConcurrentCommands
	metrics := d.Probe.SampleFast(ctx)
	if d.State.Active() >= max || probe.Overloaded(metrics) {
		return
	}

	task, ok := d.State.Dequeue()
	if !ok {
		return
	}

	waitMS := time.Since(task.QueuedAt).Milliseconds()
	d.State.AddLog(state.LevelInfo, fmt.Sprintf("dequeued task %s (request %s) after %dms wait", task.ID, task.RequestID, waitMS))

	go d.execute(ctx, ToolRequest{
		RequestID: task.RequestID,
		SessionID: task.SessionID,
		Tool:      task.Tool,
		Input:     task.Input,
		CWD:       task.CWD,
	}, true)
}
