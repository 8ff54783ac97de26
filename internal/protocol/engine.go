// Package protocol is the Protocol Engine (spec.md §4.5): it frames JSON
// text messages over a websocket connection, owns registration, the
// telemetry and keepalive tickers, and the read/write loops. Grounded on
// internal/ws/client.go's connectAndServe — same single-writer-channel,
// type-discriminated-envelope, read-loop-dispatches-to-handlers shape —
// generalized from the wing/roost relay vocabulary to the agent/server
// tool protocol spec.md §4.5 pins.
package protocol

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/coder/websocket"

	"github.com/vibecode/agent/internal/bridge"
	"github.com/vibecode/agent/internal/dispatcher"
	"github.com/vibecode/agent/internal/probe"
	"github.com/vibecode/agent/internal/state"
)

const (
	telemetryInterval = 5 * time.Second
	keepaliveInterval = 30 * time.Second
	writeTimeout      = 10 * time.Second
)

// RegisterInfo is the static identity sent with agent_register.
type RegisterInfo struct {
	WorkingDir string
	Platform   string
	Version    string
	System     state.SystemInfo
}

// outboundMsg is either a framed text payload or a bare ping request; the
// single outbox channel funnels both into one writer goroutine so ordering
// and closure are each handled in exactly one place (spec.md §4.5, §9).
type outboundMsg struct {
	data []byte
	ping bool
}

// Engine is one live connection's Protocol Engine. Dispatcher must be set
// before Run is called; it is left as a settable field because the
// Dispatcher's Emitter (this Engine) and the Dispatcher are mutually
// referential and must be constructed in two steps by the caller
// (internal/supervisor).
type Engine struct {
	Conn       *websocket.Conn
	State      *state.State
	Probe      *probe.Probe
	Dispatcher *dispatcher.Dispatcher
	Bridge     *bridge.Bridge

	outbox chan outboundMsg
	ctx    context.Context
}

// NewEngine builds an Engine bound to an already-open connection.
func NewEngine(conn *websocket.Conn, st *state.State, pr *probe.Probe, br *bridge.Bridge) *Engine {
	return &Engine{
		Conn:   conn,
		State:  st,
		Probe:  pr,
		Bridge: br,
		outbox: make(chan outboundMsg, 32),
	}
}

// Run sends agent_register, starts the writer goroutine and both tickers,
// then runs the read loop until the connection closes or ctx is cancelled.
// It returns the error that ended the connection (nil only if ctx ended it).
func (e *Engine) Run(ctx context.Context, info RegisterInfo) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	e.ctx = ctx

	go e.writerLoop(ctx)

	e.send(agentRegisterMsg{
		Type:       typeAgentRegister,
		WorkingDir: info.WorkingDir,
		Platform:   info.Platform,
		Version:    info.Version,
		SystemInfo: info.System,
	})

	go e.tickerLoop(ctx)

	return e.readLoop(ctx)
}

func (e *Engine) tickerLoop(ctx context.Context) {
	telemetry := time.NewTicker(telemetryInterval)
	defer telemetry.Stop()
	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-telemetry.C:
			metrics := e.Probe.Sample(ctx)
			e.send(agentStatusUpdateMsg{Type: typeAgentStatusUpdate, Metrics: metrics})
			if e.Bridge != nil {
				e.Bridge.Publish(bridge.StatusUpdate{Status: e.State.Status(), Metrics: metrics, AgentID: e.State.AgentID()})
			}
		case <-keepalive.C:
			select {
			case e.outbox <- outboundMsg{ping: true}:
			case <-ctx.Done():
			}
		}
	}
}

// readLoop implements spec.md §4.5's incoming message handling. A
// malformed frame is logged and ignored (spec.md §7); it never terminates
// the engine.
func (e *Engine) readLoop(ctx context.Context) error {
	for {
		_, data, err := e.Conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			e.State.AddLog(state.LevelWarning, "malformed inbound frame")
			continue
		}

		switch env.Type {
		case typeAgentRegistered:
			var msg agentRegisteredMsg
			if err := json.Unmarshal(data, &msg); err != nil {
				e.State.AddLog(state.LevelWarning, "malformed agent_registered frame")
				continue
			}
			e.State.SetAgentID(msg.AgentID)
			e.State.AddLog(state.LevelSuccess, fmt.Sprintf("registered as agent %s", msg.AgentID))

		case typeToolRequest:
			var msg toolRequestMsg
			if err := json.Unmarshal(data, &msg); err != nil {
				e.State.AddLog(state.LevelWarning, "malformed tool_request frame")
				continue
			}
			cwd := msg.CWD
			if cwd == "" {
				cwd = e.State.Settings().WorkingDirectory
			}
			e.Dispatcher.HandleRequest(ctx, dispatcher.ToolRequest{
				RequestID: msg.RequestID,
				SessionID: msg.SessionID,
				Tool:      msg.Tool,
				Input:     msg.Input,
				CWD:       cwd,
			})

		case typeGetStatus:
			// Answered synchronously from the read loop, same as a
			// tool_request's admission check — use the non-blocking sample
			// so a get_status poll never stalls frame processing.
			metrics := e.Probe.SampleFast(ctx)
			e.send(agentStatusUpdateMsg{Type: typeAgentStatusUpdate, Metrics: metrics})

		default:
			e.State.AddLog(state.LevelWarning, "unknown message type: "+env.Type)
		}
	}
}

func (e *Engine) writerLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-e.outbox:
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			var err error
			if msg.ping {
				err = e.Conn.Ping(writeCtx)
			} else {
				err = e.Conn.Write(writeCtx, websocket.MessageText, msg.data)
			}
			cancel()
			if err != nil {
				return
			}
		}
	}
}

// send marshals v and hands it to the writer goroutine, dropping it
// silently if the engine is already shutting down.
func (e *Engine) send(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	select {
	case e.outbox <- outboundMsg{data: data}:
	case <-e.ctx.Done():
	}
}

// EmitToolQueued implements dispatcher.Emitter (spec.md §4.5's tool_queued).
func (e *Engine) EmitToolQueued(requestID, sessionID string, queuePosition int, reason string) {
	e.send(toolQueuedMsg{
		Type:          typeToolQueued,
		RequestID:     requestID,
		SessionID:     sessionID,
		QueuePosition: queuePosition,
		Reason:        reason,
	})
}

// EmitToolResponse implements dispatcher.Emitter (spec.md §4.5's
// tool_response).
func (e *Engine) EmitToolResponse(resp dispatcher.ToolResponse) {
	msg := toolResponseMsg{
		Type:          typeToolResponse,
		RequestID:     resp.RequestID,
		SessionID:     resp.SessionID,
		Result:        resp.Result,
		Error:         resp.Error,
		Queued:        resp.Queued,
		QueuePosition: resp.QueuePosition,
	}
	if resp.Metrics != nil {
		msg.Metrics = &toolResponseMetricsView{
			DurationMS: resp.Metrics.DurationMS,
			CPUPercent: resp.Metrics.CPUPercent,
			MemoryMB:   resp.Metrics.MemoryMB,
		}
	}
	e.send(msg)
}
