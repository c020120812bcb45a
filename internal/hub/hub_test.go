package hub

import (
	"testing"
	"time"

	"github.com/edusign/edusign/internal/logging"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := New("test", logging.Discard())
	go h.Run()
	t.Cleanup(h.Close)
	return h
}

func waitClients(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for h.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want %d", h.ClientCount(), want)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestHub_BroadcastReachesClients(t *testing.T) {
	h := startHub(t)
	a := NewClient(h, nil)
	b := NewClient(h, nil)
	waitClients(t, h, 2)

	if err := h.BroadcastJSON(map[string]string{"state": "ready"}); err != nil {
		t.Fatalf("BroadcastJSON: %v", err)
	}

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.send:
			if msg.Type != JSONMessage || string(msg.Data) != `{"state":"ready"}` {
				t.Errorf("unexpected message %+v", msg)
			}
		case <-time.After(time.Second):
			t.Fatal("client did not receive broadcast")
		}
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	h := startHub(t)
	c := NewClient(h, nil)
	waitClients(t, h, 1)

	h.remove(c)
	waitClients(t, h, 0)
	if _, ok := <-c.send; ok {
		t.Error("send channel should be closed")
	}
}

func TestHub_SlowClientDropped(t *testing.T) {
	h := startHub(t)
	NewClient(h, nil)
	waitClients(t, h, 1)

	for range 100 {
		h.Broadcast(NewBinaryMessage([]byte{1}))
	}
	waitClients(t, h, 0)
}

func TestHub_CloseRejectsNewClients(t *testing.T) {
	h := startHub(t)
	c := NewClient(h, nil)
	waitClients(t, h, 1)

	h.Close()
	if _, ok := <-c.send; ok {
		t.Error("existing client should be disconnected on close")
	}
	if NewClient(h, nil) != nil {
		t.Error("closed hub accepted a client")
	}
	h.Broadcast(NewJSONMessage([]byte(`{}`)))
}
