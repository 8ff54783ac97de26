package state

import (
	"testing"

	"github.com/vibecode/agent/internal/config"
)

func newTestState() *State {
	return New(config.Defaults())
}

func TestLogRingTrimsAt500(t *testing.T) {
	s := newTestState()
	for i := 0; i < 600; i++ {
		s.AddLog(LevelInfo, "line")
	}
	if got := len(s.Logs()); got != maxLogEntries {
		t.Errorf("log ring length = %d, want %d", got, maxLogEntries)
	}
}

func TestActiveCountSaturatesAtZero(t *testing.T) {
	s := newTestState()
	s.DecActive()
	if s.Active() != 0 {
		t.Errorf("Active() = %d, want 0", s.Active())
	}
	s.IncActive()
	s.IncActive()
	s.DecActive()
	if s.Active() != 1 {
		t.Errorf("Active() = %d, want 1", s.Active())
	}
}

func TestQueueIsFIFO(t *testing.T) {
	s := newTestState()
	s.Enqueue(QueuedTask{RequestID: "a"})
	s.Enqueue(QueuedTask{RequestID: "b"})
	s.Enqueue(QueuedTask{RequestID: "c"})

	first, ok := s.Dequeue()
	if !ok || first.RequestID != "a" {
		t.Fatalf("first dequeue = %+v, ok=%v, want a", first, ok)
	}
	second, ok := s.Dequeue()
	if !ok || second.RequestID != "b" {
		t.Fatalf("second dequeue = %+v, ok=%v, want b", second, ok)
	}
	if s.QueueLen() != 1 {
		t.Errorf("QueueLen() = %d, want 1", s.QueueLen())
	}
}

func TestDequeueEmptyQueue(t *testing.T) {
	s := newTestState()
	if _, ok := s.Dequeue(); ok {
		t.Error("Dequeue on empty queue should return ok=false")
	}
}

func TestAgentIDClearedOnDisconnect(t *testing.T) {
	s := newTestState()
	s.SetAgentID("agent-123")
	if s.AgentID() != "agent-123" {
		t.Fatalf("AgentID() = %q, want agent-123", s.AgentID())
	}
	s.ClearAgentID()
	if s.AgentID() != "" {
		t.Errorf("AgentID() after clear = %q, want empty", s.AgentID())
	}
}
