package ws_test

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/serroba/editops/internal/ws"
	"github.com/stretchr/testify/require"
)

const testFragmentID = "frag1"

// mockConn is a test double for ws.Conn.
type mockConn struct {
	mu       sync.Mutex
	messages []ws.Message
	closed   bool

	// For ReadJSON simulation
	incoming chan ws.Message
}

func newMockConn() *mockConn {
	return &mockConn{
		messages: make([]ws.Message, 0),
		incoming: make(chan ws.Message, 10),
	}
}

func (m *mockConn) WriteJSON(v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	var msg ws.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}

	m.messages = append(m.messages, msg)

	return nil
}

func (m *mockConn) ReadJSON(v any) error {
	msg := <-m.incoming

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, v)
}

func (m *mockConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true

	return nil
}

func (m *mockConn) Messages() []ws.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]ws.Message, len(m.messages))
	copy(result, m.messages)

	return result
}

func (m *mockConn) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.closed
}

func TestHub_RegisterUnregister(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub()
	client := ws.NewClient("c1", newMockConn())

	hub.Register(client)

	if hub.TotalClients() != 1 {
		t.Errorf("expected 1 client, got %d", hub.TotalClients())
	}

	hub.Unregister(client)

	if hub.TotalClients() != 0 {
		t.Errorf("expected 0 clients, got %d", hub.TotalClients())
	}
}

func TestHub_Subscribe(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub()
	client := ws.NewClient("c1", newMockConn())

	hub.Register(client)
	hub.Subscribe(client, testFragmentID)

	if hub.ClientCount(testFragmentID) != 1 {
		t.Errorf("expected 1 client on frag1, got %d", hub.ClientCount(testFragmentID))
	}

	if client.FragmentID() != testFragmentID {
		t.Errorf("expected client fragment frag1, got %s", client.FragmentID())
	}
}

func TestHub_Subscribe_SwitchesFragment(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub()
	client := ws.NewClient("c1", newMockConn())

	hub.Register(client)
	hub.Subscribe(client, testFragmentID)
	hub.Subscribe(client, "frag2")

	if hub.ClientCount(testFragmentID) != 0 {
		t.Errorf("expected 0 clients on frag1, got %d", hub.ClientCount(testFragmentID))
	}

	if hub.ClientCount("frag2") != 1 {
		t.Errorf("expected 1 client on frag2, got %d", hub.ClientCount("frag2"))
	}
}

func TestHub_Unsubscribe(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub()
	client := ws.NewClient("c1", newMockConn())

	hub.Register(client)
	hub.Subscribe(client, testFragmentID)
	hub.Unsubscribe(client, testFragmentID)

	if hub.ClientCount(testFragmentID) != 0 {
		t.Errorf("expected 0 clients on frag1, got %d", hub.ClientCount(testFragmentID))
	}

	if client.FragmentID() != "" {
		t.Errorf("expected empty fragment, got %s", client.FragmentID())
	}
}

func TestHub_Unregister_CleansUpSubscription(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub()
	client := ws.NewClient("c1", newMockConn())

	hub.Register(client)
	hub.Subscribe(client, testFragmentID)
	hub.Unregister(client)

	if hub.ClientCount(testFragmentID) != 0 {
		t.Errorf("expected 0 clients on frag1 after unregister, got %d", hub.ClientCount(testFragmentID))
	}
}

func TestHub_Broadcast(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub()

	conn1 := newMockConn()
	conn2 := newMockConn()
	conn3 := newMockConn()

	client1 := ws.NewClient("c1", conn1)
	client2 := ws.NewClient("c2", conn2)
	client3 := ws.NewClient("c3", conn3)

	for _, c := range []*ws.Client{client1, client2, client3} {
		hub.Register(c)
	}

	hub.Subscribe(client1, testFragmentID)
	hub.Subscribe(client2, testFragmentID)
	hub.Subscribe(client3, "frag2") // Different fragment

	msg := ws.Message{
		Type:    ws.MessageTypeBroadcast,
		Payload: "test",
	}

	// Broadcast to frag1, excluding client1 (the sender)
	hub.Broadcast(testFragmentID, msg, "c1")

	require.Eventually(t, func() bool {
		return len(conn2.Messages()) == 1
	}, time.Second, time.Millisecond)

	// Give stray sends a moment before checking the others stayed silent
	time.Sleep(10 * time.Millisecond)

	if len(conn1.Messages()) != 0 {
		t.Errorf("client1 should not receive broadcast, got %d messages", len(conn1.Messages()))
	}

	if len(conn3.Messages()) != 0 {
		t.Errorf("client3 should not receive (different fragment), got %d messages", len(conn3.Messages()))
	}
}

func TestHub_BroadcastScript(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub()

	conn := newMockConn()
	client := ws.NewClient("c1", conn)

	hub.Register(client)
	hub.Subscribe(client, testFragmentID)

	hub.BroadcastScript(testFragmentID, 3, []string{`@1="x"`}, "other")

	require.Eventually(t, func() bool {
		return len(conn.Messages()) == 1
	}, time.Second, time.Millisecond)

	msg := conn.Messages()[0]
	if msg.Type != ws.MessageTypeBroadcast {
		t.Errorf("expected broadcast type, got %s", msg.Type)
	}

	payload, ok := msg.Payload.(map[string]any)
	require.True(t, ok, "expected object payload, got %T", msg.Payload)
	require.Equal(t, "other", payload["clientId"])
	require.Equal(t, []any{`@1="x"`}, payload["operations"])
	require.InDelta(t, 3, payload["applied"], 0)
}

func TestHub_MultipleFragments(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub()

	client1 := ws.NewClient("c1", newMockConn())
	client2 := ws.NewClient("c2", newMockConn())

	hub.Register(client1)
	hub.Register(client2)

	hub.Subscribe(client1, testFragmentID)
	hub.Subscribe(client2, "frag2")

	if hub.ClientCount(testFragmentID) != 1 {
		t.Errorf("expected 1 client on frag1, got %d", hub.ClientCount(testFragmentID))
	}

	if hub.ClientCount("frag2") != 1 {
		t.Errorf("expected 1 client on frag2, got %d", hub.ClientCount("frag2"))
	}

	if hub.TotalClients() != 2 {
		t.Errorf("expected 2 total clients, got %d", hub.TotalClients())
	}
}

func TestHub_ConcurrentOperations(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub()

	var wg sync.WaitGroup

	for i := range 20 {
		wg.Add(1)

		go func(n int) {
			defer wg.Done()

			client := ws.NewClient(string(rune('a'+n)), newMockConn())

			hub.Register(client)
			hub.Subscribe(client, testFragmentID)
		}(i)
	}

	wg.Wait()

	if hub.ClientCount(testFragmentID) != 20 {
		t.Errorf("expected 20 clients on frag1, got %d", hub.ClientCount(testFragmentID))
	}
}

func TestHub_Broadcast_NoSubscribers(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub()

	// Broadcasting to a fragment nobody watches is a no-op.
	hub.Broadcast("nonexistent", ws.Message{Type: ws.MessageTypeBroadcast}, "")

	if hub.ClientCount("nonexistent") != 0 {
		t.Error("expected no subscribers")
	}
}
