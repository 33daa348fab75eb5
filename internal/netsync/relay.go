package netsync

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Relay is the lockstep hub: every frame a client sends is forwarded to all
// connected clients, the sender included, in the order the relay read them.
// A client that joins late first receives every frame relayed so far, so
// frames sent before it connected are not lost.
type Relay struct {
	log      *zap.SugaredLogger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*relayClient
	seq     []string
	history []envelope
}

type relayClient struct {
	id   string
	seat int
	ws   *websocket.Conn
	send chan envelope
	once sync.Once
}

func NewRelay(log *zap.SugaredLogger) *Relay {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Relay{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[string]*relayClient),
	}
}

// Clients returns the number of connected clients.
func (r *Relay) Clients() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

func (r *Relay) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	ws, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.log.Warnw("upgrade failed", "err", err, "remote", req.RemoteAddr)
		return
	}
	ws.SetReadLimit(wsReadLimit)
	_ = ws.SetReadDeadline(time.Now().Add(wsHandshakeWait))
	var hello envelope
	if err := ws.ReadJSON(&hello); err != nil || hello.Type != msgHello || hello.ID == "" {
		r.log.Warnw("bad hello", "err", err, "remote", req.RemoteAddr)
		_ = ws.Close()
		return
	}
	_ = ws.SetReadDeadline(time.Time{})

	c := &relayClient{id: hello.ID, seat: hello.Seat, ws: ws, send: make(chan envelope, wsQueueSize)}
	welcome := envelope{Type: msgWelcome, ID: c.id, Seat: c.seat}
	backlog := r.join(c)
	go r.writePump(c, append([]envelope{welcome}, backlog...))
	r.readPump(c)
}

// join registers c and returns the frames relayed before it joined. Both
// happen under the lock, so c sees every frame exactly once.
func (r *Relay) join(c *relayClient) []envelope {
	r.mu.Lock()
	r.clients[c.id] = c
	r.seq = append(r.seq, c.id)
	n := len(r.clients)
	backlog := make([]envelope, len(r.history))
	copy(backlog, r.history)
	r.mu.Unlock()
	r.log.Infow("client joined", "client", c.id, "seat", c.seat, "clients", n, "backlog", len(backlog))
	return backlog
}

func (r *Relay) leave(c *relayClient) {
	r.mu.Lock()
	if _, ok := r.clients[c.id]; ok {
		delete(r.clients, c.id)
		for i, id := range r.seq {
			if id == c.id {
				r.seq = append(r.seq[:i], r.seq[i+1:]...)
				break
			}
		}
	}
	n := len(r.clients)
	r.mu.Unlock()
	c.close()
	r.log.Infow("client left", "client", c.id, "seat", c.seat, "clients", n)
}

// broadcast queues env for every client under the lock so all clients see
// frames in the same order. A client that cannot keep up is dropped.
func (r *Relay) broadcast(env envelope) {
	var slow []*relayClient
	r.mu.Lock()
	r.history = append(r.history, env)
	for _, id := range r.seq {
		c := r.clients[id]
		select {
		case c.send <- env:
		default:
			slow = append(slow, c)
		}
	}
	r.mu.Unlock()
	for _, c := range slow {
		r.log.Warnw("dropping slow client", "client", c.id)
		r.leave(c)
	}
}

func (r *Relay) readPump(c *relayClient) {
	defer r.leave(c)
	for {
		var env envelope
		if err := c.ws.ReadJSON(&env); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				r.log.Debugw("client read ended", "client", c.id, "err", err)
			}
			return
		}
		if env.Type != msgFrame || env.Frame == nil {
			continue
		}
		env.ID = c.id
		env.Seat = c.seat
		r.broadcast(env)
	}
}

// writePump writes first, then everything queued on c.send.
func (r *Relay) writePump(c *relayClient, first []envelope) {
	defer c.ws.Close()
	for _, env := range first {
		_ = c.ws.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := c.ws.WriteJSON(env); err != nil {
			return
		}
	}
	for env := range c.send {
		_ = c.ws.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := c.ws.WriteJSON(env); err != nil {
			return
		}
	}
}

func (c *relayClient) close() {
	c.once.Do(func() {
		close(c.send)
		_ = c.ws.Close()
	})
}

// Close disconnects every client.
func (r *Relay) Close() error {
	r.mu.Lock()
	clients := make([]*relayClient, 0, len(r.clients))
	for _, c := range r.clients {
		clients = append(clients, c)
	}
	r.clients = make(map[string]*relayClient)
	r.seq = nil
	r.history = nil
	r.mu.Unlock()
	for _, c := range clients {
		c.close()
	}
	return nil
}
