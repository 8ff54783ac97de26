package supervisor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/vibecode/agent/internal/bridge"
	"github.com/vibecode/agent/internal/config"
	"github.com/vibecode/agent/internal/executor"
	"github.com/vibecode/agent/internal/probe"
	"github.com/vibecode/agent/internal/state"
)

// echoRegisterServer accepts one connection, reads the agent_register
// frame, and replies with agent_registered before going quiet.
func echoRegisterServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.CloseNow()

		ctx := context.Background()
		if _, _, err := conn.Read(ctx); err != nil {
			return
		}
		conn.Write(ctx, websocket.MessageText, []byte(`{"type":"agent_registered","agentId":"agent-123"}`))

		// Keep the connection open briefly so the engine's tickers/read
		// loop have something to run against.
		time.Sleep(200 * time.Millisecond)
	}))
}

func wsURL(httpURL string) string {
	return "ws" + httpURL[len("http"):]
}

func TestConnectRegistersAndSetsAgentID(t *testing.T) {
	srv := echoRegisterServer(t)
	defer srv.Close()

	settings := config.Defaults()
	settings.ServerURL = wsURL(srv.URL)
	settings.AutoConnectOnLaunch = false
	st := state.New(settings)

	sup := New(st, probe.New(st), &executor.Executor{}, nil, "test")

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	sup.Connect(ctx)

	deadline := time.After(2 * time.Second)
	for st.AgentID() == "" {
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for agentId to be set")
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	if st.AgentID() != "agent-123" {
		t.Fatalf("expected agent-123, got %q", st.AgentID())
	}
}

func TestConnectIsIdempotent(t *testing.T) {
	srv := echoRegisterServer(t)
	defer srv.Close()

	settings := config.Defaults()
	settings.ServerURL = wsURL(srv.URL)
	settings.AutoConnectOnLaunch = false
	st := state.New(settings)

	sup := New(st, probe.New(st), &executor.Executor{}, nil, "test")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	sup.Connect(ctx)
	sup.Connect(ctx) // should be a no-op, not a second dial

	time.Sleep(100 * time.Millisecond)
	sup.mu.Lock()
	running := sup.running
	sup.mu.Unlock()
	if !running {
		t.Fatalf("expected supervisor to still be running")
	}
}

func TestDisconnectSticksWithoutReconnect(t *testing.T) {
	srv := echoRegisterServer(t)
	defer srv.Close()

	settings := config.Defaults()
	settings.ServerURL = wsURL(srv.URL)
	settings.AutoConnectOnLaunch = true
	st := state.New(settings)

	sup := New(st, probe.New(st), &executor.Executor{}, nil, "test")

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	sup.Connect(ctx)

	deadline := time.After(2 * time.Second)
	for !st.IsConnected() {
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for connection")
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}

	sup.Disconnect()

	if st.IsConnected() {
		t.Fatalf("expected IsConnected false immediately after Disconnect")
	}

	// The run loop must exit instead of waiting out reconnectDelay and
	// dialing again, even though AutoConnectOnLaunch is still true.
	exitDeadline := time.After(2 * time.Second)
	for {
		sup.mu.Lock()
		running := sup.running
		sup.mu.Unlock()
		if !running {
			break
		}
		select {
		case <-exitDeadline:
			t.Fatalf("expected the run loop to stop after Disconnect, not schedule a reconnect")
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	if st.IsConnected() {
		t.Fatalf("expected no reconnect after Disconnect")
	}
}

// TestConnectPublishesStatusTransitions checks that the UI Event Bridge
// hears about the connecting->connected transition (spec.md §4.7), not
// just the final agentId assignment.
func TestConnectPublishesStatusTransitions(t *testing.T) {
	srv := echoRegisterServer(t)
	defer srv.Close()

	settings := config.Defaults()
	settings.ServerURL = wsURL(srv.URL)
	settings.AutoConnectOnLaunch = false
	st := state.New(settings)
	br := bridge.New()

	sup := New(st, probe.New(st), &executor.Executor{}, br, "test")

	ch := make(chan bridge.StatusUpdate, 8)
	br.Subscribe(ch)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	sup.Connect(ctx)

	var sawConnecting, sawConnected bool
	deadline := time.After(2 * time.Second)
	for !sawConnected {
		select {
		case ev := <-ch:
			if ev.Status == state.StatusConnecting {
				sawConnecting = true
			}
			if ev.Status == state.StatusConnected {
				sawConnected = true
			}
		case <-deadline:
			t.Fatalf("timed out waiting for connected status update (saw connecting=%v)", sawConnecting)
		}
	}
	if !sawConnecting {
		t.Fatalf("expected a connecting status update before connected")
	}
}
