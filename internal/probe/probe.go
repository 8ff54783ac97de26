// Package probe is the System Probe (spec.md §4.2): it samples host CPU and
// memory utilization and reports static host identity. Sampling is grounded
// on gopsutil's process-stat style of one-shot OS queries (the pattern
// hashicorp/nomad's executor uses gopsutil/process for per-child stats);
// here the v3 cpu/mem/host subpackages cover whole-host figures instead.
package probe

import (
	"context"
	"math"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/vibecode/agent/internal/state"
)

// cpuSampleWindow is how long cpu.PercentWithContext blocks measuring
// utilization over. A short window keeps Sample cheap enough to call once
// per telemetry tick (spec.md §4.5's 5s cadence).
const cpuSampleWindow = 200 * time.Millisecond

// Overload thresholds (spec.md §4.2 / GLOSSARY).
const (
	cpuOverloadPercent = 80.0
	memOverloadPercent = 85.0
)

// Probe samples host resource utilization, consulting Shared State for the
// active/queued counts that ride along in every SystemMetrics snapshot.
type Probe struct {
	State *state.State
}

// New builds a Probe bound to st.
func New(st *state.State) *Probe {
	return &Probe{State: st}
}

// Sample implements spec.md §4.2's sample(): a full snapshot, never a delta.
// It blocks for cpuSampleWindow to get an averaged CPU reading, which is
// fine on the 5s telemetry tick but too slow to call on every inbound
// tool_request — use SampleFast for admission decisions instead.
func (p *Probe) Sample(ctx context.Context) state.SystemMetrics {
	return p.sample(ctx, cpuSampleWindow)
}

// SampleFast is Sample's non-blocking variant for the Task Dispatcher's
// per-request admission check (spec.md §4.4): a zero interval makes
// cpu.PercentWithContext return the usage delta since its last call
// instead of sleeping to measure one, so it never stalls the Protocol
// Engine's read loop the way the blocking telemetry sample would.
func (p *Probe) SampleFast(ctx context.Context) state.SystemMetrics {
	return p.sample(ctx, 0)
}

func (p *Probe) sample(ctx context.Context, window time.Duration) state.SystemMetrics {
	cpuPercent := 0.0
	if percents, err := cpu.PercentWithContext(ctx, window, false); err == nil && len(percents) > 0 {
		cpuPercent = round1(percents[0])
	}

	var usedMB, totalMB, memPercent float64
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		usedMB = round1(float64(vm.Used) / 1024 / 1024)
		totalMB = round1(float64(vm.Total) / 1024 / 1024)
		memPercent = round1(vm.UsedPercent)
	}

	return state.SystemMetrics{
		CPUPercent:     cpuPercent,
		MemoryUsedMB:   usedMB,
		MemoryTotalMB:  totalMB,
		MemoryPercent:  memPercent,
		ActiveCommands: p.State.Active(),
		QueuedTasks:    p.State.QueueLen(),
	}
}

// Overloaded applies spec.md §4.2's gate: CPU over 80% or memory over 85%.
func Overloaded(m state.SystemMetrics) bool {
	return m.CPUPercent > cpuOverloadPercent || m.MemoryPercent > memOverloadPercent
}

// Info implements spec.md §4.2's info(): static host identity captured on
// demand, with the spec-mandated "unknown" hostname fallback.
func Info() state.SystemInfo {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "unknown"
	}

	cpuCount, err := cpu.Counts(true)
	if err != nil || cpuCount <= 0 {
		cpuCount = runtime.NumCPU()
	}

	var totalMB float64
	if vm, err := mem.VirtualMemory(); err == nil {
		totalMB = round1(float64(vm.Total) / 1024 / 1024)
	}

	platform := runtime.GOOS
	if info, err := host.Info(); err == nil && info.Platform != "" {
		platform = info.Platform
	}

	return state.SystemInfo{
		CPUCount:   cpuCount,
		TotalMemMB: totalMB,
		Hostname:   hostname,
		Platform:   platform,
		GoVersion:  runtime.Version(),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
