package netsync

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	wsQueueSize     = 256
	wsWriteWait     = 5 * time.Second
	wsHandshakeWait = 10 * time.Second
	wsReadLimit     = 1 << 20
)

var ErrHandshake = errors.New("relay handshake failed")

// envelope is the message exchanged with the relay.
type envelope struct {
	Type  string `json:"type"`
	ID    string `json:"id,omitempty"`
	Seat  int    `json:"seat"`
	Frame *Frame `json:"frame,omitempty"`
}

const (
	msgHello   = "hello"
	msgWelcome = "welcome"
	msgFrame   = "frame"
)

// WSTransport talks to a Relay over a websocket. A read and a write pump run
// in their own goroutines; Send and Receive only touch buffered channels.
type WSTransport struct {
	id   uuid.UUID
	seat int
	conn *websocket.Conn
	log  *zap.SugaredLogger

	in  chan Frame
	out chan Frame

	cancel context.CancelFunc
	group  *errgroup.Group

	closeOnce sync.Once
	closeErr  error

	mu  sync.Mutex
	err error
}

// Dial connects to the relay at url and announces the given seat.
func Dial(ctx context.Context, url string, seat int, log *zap.SugaredLogger) (*WSTransport, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	id := uuid.New()
	_ = conn.SetWriteDeadline(time.Now().Add(wsHandshakeWait))
	if err := conn.WriteJSON(envelope{Type: msgHello, ID: id.String(), Seat: seat}); err != nil {
		return nil, multierr.Append(fmt.Errorf("hello: %w", err), conn.Close())
	}
	_ = conn.SetReadDeadline(time.Now().Add(wsHandshakeWait))
	var welcome envelope
	if err := conn.ReadJSON(&welcome); err != nil {
		return nil, multierr.Append(fmt.Errorf("welcome: %w", err), conn.Close())
	}
	if welcome.Type != msgWelcome || welcome.ID != id.String() {
		return nil, multierr.Append(fmt.Errorf("got %q for %s: %w", welcome.Type, welcome.ID, ErrHandshake), conn.Close())
	}
	_ = conn.SetReadDeadline(time.Time{})
	conn.SetReadLimit(wsReadLimit)

	pctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(pctx)
	t := &WSTransport{
		id:     id,
		seat:   seat,
		conn:   conn,
		log:    log.With("client", id.String(), "seat", seat),
		in:     make(chan Frame, wsQueueSize),
		out:    make(chan Frame, wsQueueSize),
		cancel: cancel,
		group:  g,
	}
	g.Go(func() error { return t.readPump(gctx) })
	g.Go(func() error { return t.writePump(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		return conn.Close()
	})
	t.log.Infow("connected to relay", "url", url)
	return t, nil
}

// ID is the client id announced to the relay.
func (t *WSTransport) ID() uuid.UUID { return t.id }

func (t *WSTransport) Send(f Frame) error {
	if err := t.Err(); err != nil {
		return err
	}
	select {
	case t.out <- f:
		return nil
	default:
		return ErrBackpressure
	}
}

func (t *WSTransport) Receive() []Frame {
	var out []Frame
	for {
		select {
		case f := <-t.in:
			out = append(out, f)
		default:
			return out
		}
	}
}

// Err returns the error that stopped the pumps, if any.
func (t *WSTransport) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func (t *WSTransport) fail(err error) error {
	t.mu.Lock()
	if t.err == nil {
		t.err = err
	}
	t.mu.Unlock()
	return err
}

// Close stops both pumps and closes the connection.
func (t *WSTransport) Close() error {
	t.closeOnce.Do(func() {
		t.fail(ErrClosed)
		t.cancel()
		err := t.group.Wait()
		if isClosedConn(err) {
			err = nil
		}
		t.closeErr = err
	})
	return t.closeErr
}

func (t *WSTransport) readPump(ctx context.Context) error {
	for {
		var env envelope
		if err := t.conn.ReadJSON(&env); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			t.log.Warnw("relay read failed", "err", err)
			return t.fail(fmt.Errorf("read: %w", err))
		}
		if env.Type != msgFrame || env.Frame == nil {
			continue
		}
		select {
		case t.in <- *env.Frame:
		case <-ctx.Done():
			return nil
		}
	}
}

func (t *WSTransport) writePump(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			_ = t.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			return nil
		case f := <-t.out:
			_ = t.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := t.conn.WriteJSON(envelope{Type: msgFrame, ID: t.id.String(), Seat: t.seat, Frame: &f}); err != nil {
				t.log.Warnw("relay write failed", "err", err)
				return t.fail(fmt.Errorf("write: %w", err))
			}
		}
	}
}

func isClosedConn(err error) bool {
	return err == nil || errors.Is(err, net.ErrClosed) ||
		websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}
