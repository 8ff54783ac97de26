package probe

import (
	"context"
	"testing"
	"time"

	"github.com/vibecode/agent/internal/config"
	"github.com/vibecode/agent/internal/state"
)

func TestOverloadedCPU(t *testing.T) {
	if !Overloaded(state.SystemMetrics{CPUPercent: 80.1}) {
		t.Fatalf("expected overload above 80%% cpu")
	}
	if Overloaded(state.SystemMetrics{CPUPercent: 80.0}) {
		t.Fatalf("80%% cpu exactly is not overloaded")
	}
}

func TestOverloadedMemory(t *testing.T) {
	if !Overloaded(state.SystemMetrics{MemoryPercent: 85.1}) {
		t.Fatalf("expected overload above 85%% mem")
	}
	if Overloaded(state.SystemMetrics{MemoryPercent: 85.0}) {
		t.Fatalf("85%% mem exactly is not overloaded")
	}
}

func TestRound1(t *testing.T) {
	cases := map[float64]float64{
		33.333:  33.3,
		33.349:  33.3,
		33.351:  33.4,
		0:       0,
		100.049: 100.0,
	}
	for in, want := range cases {
		if got := round1(in); got != want {
			t.Errorf("round1(%v) = %v, want %v", in, got, want)
		}
	}
}

// TestSampleFastDoesNotBlockForSampleWindow checks that SampleFast returns
// well under cpuSampleWindow, since it is meant for the Task Dispatcher's
// per-request admission check, not the telemetry tick.
func TestSampleFastDoesNotBlockForSampleWindow(t *testing.T) {
	st := state.New(config.Defaults())
	p := New(st)

	start := time.Now()
	p.SampleFast(context.Background())
	if elapsed := time.Since(start); elapsed >= cpuSampleWindow {
		t.Fatalf("SampleFast took %v, expected well under the %v blocking window", elapsed, cpuSampleWindow)
	}
}

func TestInfoHostnameNeverEmpty(t *testing.T) {
	info := Info()
	if info.Hostname == "" {
		t.Fatalf("expected non-empty hostname (falls back to \"unknown\")")
	}
	if info.GoVersion == "" {
		t.Fatalf("expected GoVersion to be populated")
	}
}
