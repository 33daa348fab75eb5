package netsync

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Garsondee/Red-Command/internal/order"
	"github.com/Garsondee/Red-Command/internal/world"
)

// DefaultFrameLag is how many frames ahead local orders are scheduled.
const DefaultFrameLag = 1

var ErrFrameNotReady = errors.New("lockstep frame incomplete")

// Config describes the lockstep session.
type Config struct {
	LocalClient int // client index this peer sends as
	Clients     int // clients that contribute a frame every tick
	Humans      int // leading player seats that must be ready before the game starts
	FrameLag    int
}

// Stats counts order traffic through the manager.
type Stats struct {
	Frames    int
	Applied   int
	Rejected  int
	Immediate int
	Stale     int
}

func (s Stats) String() string {
	return fmt.Sprintf("frames=%d applied=%d rejected=%d immediate=%d stale=%d",
		s.Frames, s.Applied, s.Rejected, s.Immediate, s.Stale)
}

// Manager is the order sink. Immediate orders are applied to the local
// world at once and forwarded; all other orders are batched and applied
// when their lockstep frame is complete, in client order, identically on
// every peer.
type Manager struct {
	cfg       Config
	world     *world.World
	transport Transport
	log       *zap.SugaredLogger
	orders    *order.Log

	// OnChat receives every delivered chat line.
	OnChat func(frame, client int, text string)

	frame    int
	pending  []order.Order
	received map[int]map[int]Frame
	primed   bool
	ready    map[int]bool // readiness per seat as delivered by lockstep frames
	started  bool
	err      error
	stats    Stats
}

func NewManager(w *world.World, t Transport, cfg Config, log *zap.SugaredLogger) *Manager {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if cfg.Clients < 1 {
		cfg.Clients = 1
	}
	if cfg.FrameLag < 1 {
		cfg.FrameLag = DefaultFrameLag
	}
	return &Manager{
		cfg:       cfg,
		world:     w,
		transport: t,
		log:       log,
		orders:    order.NewLog(),
		frame:     1,
		received:  make(map[int]map[int]Frame),
		ready:     make(map[int]bool),
	}
}

// Frame returns the number of the next frame to run.
func (m *Manager) Frame() int { return m.frame }

func (m *Manager) Orders() *order.Log { return m.orders }

func (m *Manager) Stats() Stats { return m.stats }

// Err returns the transport error that ended the session, if any.
func (m *Manager) Err() error { return m.err }

// GameStarted reports whether every human player's ready toggle has been
// delivered in a lockstep frame. It changes only inside Tick, so every peer
// flips it on the same frame. Once true it stays true.
func (m *Manager) GameStarted() bool { return m.started }

// deliver records readiness carried by an order of the current frame.
func (m *Manager) deliver(o order.Order) {
	if o.Name != order.NameToggleReady {
		return
	}
	if p := m.world.PlayerByActor(o.Subject); p != nil {
		m.ready[p.Index] = o.Payload == "ready"
	}
}

func (m *Manager) checkStart() {
	if m.started || m.cfg.Humans < 1 {
		return
	}
	for i := 0; i < m.cfg.Humans; i++ {
		if !m.ready[i] {
			return
		}
	}
	m.started = true
	m.log.Infow("game started", "frame", m.frame)
}

// AddOrder queues o for the next outgoing frame. Immediate orders are also
// applied locally now and not re-applied when their frame arrives.
func (m *Manager) AddOrder(o order.Order) {
	if o.Immediate {
		m.stats.Immediate++
		if !m.apply(m.frame, m.cfg.LocalClient, o, "immediate") {
			return
		}
	}
	m.pending = append(m.pending, o)
}

// IsReadyForNextFrame reports, without blocking, whether every client's
// batch for the next frame has arrived.
func (m *Manager) IsReadyForNextFrame() bool {
	m.prime()
	m.poll()
	return len(m.received[m.frame]) >= m.cfg.Clients
}

// Tick runs the next frame: applies every client's batch, then sends the
// local batch scheduled FrameLag frames ahead.
func (m *Manager) Tick() error {
	if m.err != nil {
		return m.err
	}
	if !m.IsReadyForNextFrame() {
		return fmt.Errorf("frame %d: %w", m.frame, ErrFrameNotReady)
	}
	batch := m.received[m.frame]
	delete(m.received, m.frame)
	for client := 0; client < m.cfg.Clients; client++ {
		for _, o := range batch[client].Orders {
			if o.Immediate && client == m.cfg.LocalClient {
				m.deliver(o)
				continue
			}
			if m.apply(m.frame, client, o, "applied") {
				m.deliver(o)
			}
		}
	}
	m.checkStart()

	m.send(Frame{Number: m.frame + m.cfg.FrameLag, Client: m.cfg.LocalClient, Orders: m.pending})
	m.pending = nil
	m.frame++
	m.stats.Frames++
	return m.err
}

// prime sends the empty batches that cover the first FrameLag frames.
func (m *Manager) prime() {
	if m.primed {
		return
	}
	m.primed = true
	for n := 1; n <= m.cfg.FrameLag; n++ {
		m.send(Frame{Number: n, Client: m.cfg.LocalClient})
	}
}

func (m *Manager) send(f Frame) {
	if m.err != nil {
		return
	}
	if err := m.transport.Send(f); err != nil {
		m.err = fmt.Errorf("send %v: %w", f, err)
		m.log.Errorw("lockstep send failed", "frame", f.Number, "err", err)
	}
}

func (m *Manager) poll() {
	for _, f := range m.transport.Receive() {
		switch {
		case f.Number < m.frame:
			m.stats.Stale++
			m.log.Debugw("stale frame dropped", "frame", f.Number, "client", f.Client, "current", m.frame)
			continue
		case f.Client < 0 || f.Client >= m.cfg.Clients:
			m.log.Warnw("frame from unknown client dropped", "frame", f.Number, "client", f.Client)
			continue
		}
		byClient, ok := m.received[f.Number]
		if !ok {
			byClient = make(map[int]Frame, m.cfg.Clients)
			m.received[f.Number] = byClient
		}
		if _, dup := byClient[f.Client]; dup {
			m.log.Warnw("duplicate frame dropped", "frame", f.Number, "client", f.Client)
			continue
		}
		byClient[f.Client] = f
	}
}

// apply runs one order against the world and records the outcome.
func (m *Manager) apply(frame, client int, o order.Order, result string) bool {
	if err := order.Apply(m.world, o); err != nil {
		m.stats.Rejected++
		m.orders.Add(frame, client, o, "rejected", err.Error())
		m.log.Debugw("order rejected", "frame", frame, "client", client, "order", o.String(), "err", err)
		return false
	}
	m.stats.Applied++
	m.orders.Add(frame, client, o, result, "")
	if o.Name == order.NameChat && m.OnChat != nil {
		m.OnChat(frame, client, o.Payload)
	}
	return true
}

// Advance is one simulation tick: run the next lockstep frame, then move
// the world once the game has started.
func (m *Manager) Advance(int) error {
	if err := m.Tick(); err != nil {
		return err
	}
	if m.started {
		m.world.Tick()
	}
	return nil
}
