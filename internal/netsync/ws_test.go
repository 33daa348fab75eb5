package netsync

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Garsondee/Red-Command/internal/geom"
	"github.com/Garsondee/Red-Command/internal/order"
)

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dialTest(t *testing.T, url string, seat int) *WSTransport {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	tr, err := Dial(ctx, url, seat, nil)
	if err != nil {
		t.Fatalf("dial seat %d: %v", seat, err)
	}
	t.Cleanup(func() { tr.Close() })
	return tr
}

// waitFrames polls tr until n frames have arrived or the deadline passes.
func waitFrames(t *testing.T, tr Transport, n int) []Frame {
	t.Helper()
	var got []Frame
	deadline := time.Now().Add(5 * time.Second)
	for len(got) < n {
		if time.Now().After(deadline) {
			t.Fatalf("timed out with %d/%d frames", len(got), n)
		}
		got = append(got, tr.Receive()...)
		time.Sleep(5 * time.Millisecond)
	}
	return got
}

func waitClients(t *testing.T, r *Relay, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for r.Clients() != n {
		if time.Now().After(deadline) {
			t.Fatalf("relay has %d clients, want %d", r.Clients(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRelay_BroadcastsToAllClientsInOneOrder(t *testing.T) {
	relay := NewRelay(nil)
	srv := httptest.NewServer(relay)
	defer srv.Close()
	defer relay.Close()

	c0 := dialTest(t, wsURL(srv), 0)
	c1 := dialTest(t, wsURL(srv), 1)
	waitClients(t, relay, 2)
	if c0.ID() == c1.ID() {
		t.Fatalf("client ids should be unique")
	}

	if err := c0.Send(Frame{Number: 1, Client: 0, Orders: []order.Order{order.Move(3, geom.Pt(1, 2))}}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := c1.Send(Frame{Number: 1, Client: 1}); err != nil {
		t.Fatalf("send: %v", err)
	}

	g0 := waitFrames(t, c0, 2)
	g1 := waitFrames(t, c1, 2)
	for i := range g0 {
		if g0[i].Client != g1[i].Client || g0[i].Number != g1[i].Number {
			t.Fatalf("clients saw different order: %v vs %v", g0, g1)
		}
	}
	for _, f := range g0 {
		if f.Client == 0 && (len(f.Orders) != 1 || f.Orders[0].TargetLocation != geom.Pt(1, 2)) {
			t.Fatalf("orders mangled in transit: %v", f.Orders)
		}
	}
}

func TestWSTransport_LockstepOverRelay(t *testing.T) {
	relay := NewRelay(nil)
	srv := httptest.NewServer(relay)
	defer srv.Close()
	defer relay.Close()

	w0, a0, _ := newTestWorld(t)
	w1, a1, _ := newTestWorld(t)
	m0 := NewManager(w0, dialTest(t, wsURL(srv), 0), Config{LocalClient: 0, Clients: 2}, nil)
	m1 := NewManager(w1, dialTest(t, wsURL(srv), 1), Config{LocalClient: 1, Clients: 2}, nil)
	waitClients(t, relay, 2)

	m0.AddOrder(order.Move(a0.ID, geom.Pt(160, 100)))
	deadline := time.Now().Add(5 * time.Second)
	for m0.Frame() <= 3 || m1.Frame() <= 3 {
		if time.Now().After(deadline) {
			t.Fatalf("lockstep stalled at %d/%d", m0.Frame(), m1.Frame())
		}
		for _, m := range []*Manager{m0, m1} {
			if m.Frame() <= 3 && m.IsReadyForNextFrame() {
				if err := m.Tick(); err != nil {
					t.Fatalf("tick: %v", err)
				}
			}
		}
		time.Sleep(time.Millisecond)
	}
	if a0.Destination != geom.Pt(160, 100) || a1.Destination != a0.Destination {
		t.Fatalf("destinations %v %v", a0.Destination, a1.Destination)
	}
}

func TestRelay_LateJoinerReceivesEarlierFrames(t *testing.T) {
	relay := NewRelay(nil)
	srv := httptest.NewServer(relay)
	defer srv.Close()
	defer relay.Close()

	w0, a0, _ := newTestWorld(t)
	w1, a1, _ := newTestWorld(t)
	m0 := NewManager(w0, dialTest(t, wsURL(srv), 0), Config{LocalClient: 0, Clients: 2}, nil)
	m0.AddOrder(order.Move(a0.ID, geom.Pt(160, 100)))
	// Peer 0 primes frame 1 before peer 1 has connected.
	if m0.IsReadyForNextFrame() {
		t.Fatalf("frame 1 cannot be ready without peer 1")
	}
	waitClients(t, relay, 1)
	time.Sleep(50 * time.Millisecond)

	m1 := NewManager(w1, dialTest(t, wsURL(srv), 1), Config{LocalClient: 1, Clients: 2}, nil)
	deadline := time.Now().Add(5 * time.Second)
	for m0.Frame() <= 4 || m1.Frame() <= 4 {
		if time.Now().After(deadline) {
			t.Fatalf("lockstep stalled at %d/%d", m0.Frame(), m1.Frame())
		}
		for _, m := range []*Manager{m0, m1} {
			if m.Frame() <= 4 && m.IsReadyForNextFrame() {
				if err := m.Tick(); err != nil {
					t.Fatalf("tick: %v", err)
				}
			}
		}
		time.Sleep(time.Millisecond)
	}
	if a0.Destination != geom.Pt(160, 100) || a1.Destination != a0.Destination {
		t.Fatalf("destinations %v %v", a0.Destination, a1.Destination)
	}
}

func TestDial_RejectsBadWelcome(t *testing.T) {
	up := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		var hello envelope
		_ = ws.ReadJSON(&hello)
		_ = ws.WriteJSON(envelope{Type: msgWelcome, ID: "someone-else"})
		_, _, _ = ws.ReadMessage()
	}))
	defer srv.Close()

	_, err := Dial(context.Background(), wsURL(srv), 0, nil)
	if !errors.Is(err, ErrHandshake) {
		t.Fatalf("want ErrHandshake, got %v", err)
	}
}

func TestWSTransport_SendAfterClose(t *testing.T) {
	relay := NewRelay(nil)
	srv := httptest.NewServer(relay)
	defer srv.Close()
	defer relay.Close()

	tr := dialTest(t, wsURL(srv), 0)
	if err := tr.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := tr.Send(Frame{Number: 1}); !errors.Is(err, ErrClosed) {
		t.Fatalf("want ErrClosed, got %v", err)
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
