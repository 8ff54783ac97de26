package protocol

import "github.com/vibecode/agent/internal/state"

// envelope is used only to read the type discriminator off an inbound
// frame before decoding the rest of it (spec.md §4.5/§6: snake_case type,
// camelCase fields).
type envelope struct {
	Type string `json:"type"`
}

// Outgoing message kinds.

type agentRegisterMsg struct {
	Type       string           `json:"type"`
	WorkingDir string           `json:"workingDir"`
	Platform   string           `json:"platform"`
	Version    string           `json:"version"`
	SystemInfo state.SystemInfo `json:"systemInfo"`
}

type agentStatusUpdateMsg struct {
	Type    string              `json:"type"`
	Metrics state.SystemMetrics `json:"metrics"`
}

type toolResponseMsg struct {
	Type          string                   `json:"type"`
	RequestID     string                   `json:"requestId"`
	SessionID     string                   `json:"sessionId"`
	Result        string                   `json:"result"`
	Error         string                   `json:"error,omitempty"`
	Metrics       *toolResponseMetricsView `json:"metrics,omitempty"`
	Queued        bool                     `json:"queued,omitempty"`
	QueuePosition int                      `json:"queuePosition,omitempty"`
}

// toolResponseMetricsView mirrors executor.ProcessMetrics on the wire
// without importing the executor package into the wire-format layer.
type toolResponseMetricsView struct {
	DurationMS int64   `json:"durationMs"`
	CPUPercent float64 `json:"cpuPercent"`
	MemoryMB   float64 `json:"memoryMB"`
}

type toolQueuedMsg struct {
	Type          string `json:"type"`
	RequestID     string `json:"requestId"`
	SessionID     string `json:"sessionId"`
	QueuePosition int    `json:"queuePosition"`
	Reason        string `json:"reason"`
}

// Incoming message kinds.

type agentRegisteredMsg struct {
	Type    string `json:"type"`
	AgentID string `json:"agentId"`
}

type toolRequestMsg struct {
	Type      string         `json:"type"`
	RequestID string         `json:"requestId"`
	SessionID string         `json:"sessionId"`
	Tool      string         `json:"tool"`
	Input     map[string]any `json:"input"`
	CWD       string         `json:"cwd,omitempty"`
}

// getStatusMsg carries no fields beyond the type discriminator.
type getStatusMsg struct {
	Type string `json:"type"`
}

const (
	typeAgentRegister     = "agent_register"
	typeAgentStatusUpdate = "agent_status_update"
	typeToolResponse      = "tool_response"
	typeToolQueued        = "tool_queued"
	typeAgentRegistered   = "agent_registered"
	typeToolRequest       = "tool_request"
	typeGetStatus         = "get_status"
)
