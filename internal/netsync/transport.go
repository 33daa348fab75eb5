package netsync

import (
	"errors"
	"sync"
)

var (
	ErrClosed       = errors.New("transport closed")
	ErrBackpressure = errors.New("transport send queue full")
)

// Transport moves frames between peers. Send and Receive never block;
// Receive drains whatever has arrived since the last call. Every frame a
// client sends, including its own, is eventually received by all clients.
type Transport interface {
	Send(f Frame) error
	Receive() []Frame
	Close() error
}

// LocalNetwork links in-process transports. Each Send is delivered to every
// endpoint, the sender included.
type LocalNetwork struct {
	mu        sync.Mutex
	endpoints []*LocalTransport
}

// NewLocalNetwork returns a network with n connected endpoints.
func NewLocalNetwork(n int) *LocalNetwork {
	net := &LocalNetwork{}
	for i := 0; i < n; i++ {
		net.endpoints = append(net.endpoints, &LocalTransport{net: net})
	}
	return net
}

// Endpoint returns endpoint i.
func (n *LocalNetwork) Endpoint(i int) *LocalTransport {
	return n.endpoints[i]
}

// NewLoopback returns a single-player transport.
func NewLoopback() *LocalTransport {
	return NewLocalNetwork(1).Endpoint(0)
}

// LocalTransport is one endpoint of a LocalNetwork.
type LocalTransport struct {
	net    *LocalNetwork
	inbox  []Frame
	closed bool
}

func (t *LocalTransport) Send(f Frame) error {
	t.net.mu.Lock()
	defer t.net.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	for _, ep := range t.net.endpoints {
		if ep.closed {
			continue
		}
		cp := f
		cp.Orders = append(cp.Orders[:0:0], f.Orders...)
		ep.inbox = append(ep.inbox, cp)
	}
	return nil
}

func (t *LocalTransport) Receive() []Frame {
	t.net.mu.Lock()
	defer t.net.mu.Unlock()
	out := t.inbox
	t.inbox = nil
	return out
}

func (t *LocalTransport) Close() error {
	t.net.mu.Lock()
	defer t.net.mu.Unlock()
	t.closed = true
	t.inbox = nil
	return nil
}
