package netsync

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
)

// Recorder wraps a transport and writes every received frame to a replay.
type Recorder struct {
	inner Transport
	out   io.WriteCloser
	fw    *FrameWriter
	err   error
}

// NewRecorder writes h to out and starts recording inner.
func NewRecorder(inner Transport, out io.WriteCloser, h ReplayHeader) (*Recorder, error) {
	fw := NewFrameWriter(out)
	if err := fw.WriteHeader(h); err != nil {
		return nil, fmt.Errorf("replay header: %w", err)
	}
	return &Recorder{inner: inner, out: out, fw: fw}, nil
}

// CreateRecorder records inner into a new file at path.
func CreateRecorder(inner Transport, path string, h ReplayHeader) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create replay: %w", err)
	}
	r, err := NewRecorder(inner, f, h)
	if err != nil {
		return nil, multierr.Append(err, f.Close())
	}
	return r, nil
}

func (r *Recorder) Send(f Frame) error { return r.inner.Send(f) }

func (r *Recorder) Receive() []Frame {
	frames := r.inner.Receive()
	if r.err != nil {
		return frames
	}
	for _, f := range frames {
		if err := r.fw.WriteFrame(f); err != nil {
			// Keep the game running; the replay is simply truncated.
			r.err = fmt.Errorf("replay write: %w", err)
			break
		}
	}
	return frames
}

// Err returns the first write error, if any.
func (r *Recorder) Err() error { return r.err }

func (r *Recorder) Close() error {
	return multierr.Combine(r.inner.Close(), r.out.Close(), r.err)
}

// ReplayTransport plays back a recorded game. Frames sent to it are dropped.
type ReplayTransport struct {
	header    ReplayHeader
	frames    []Frame
	delivered bool
	last      int
}

// NewReplayTransport parses a replay from r.
func NewReplayTransport(r io.Reader) (*ReplayTransport, error) {
	h, frames, err := ReadReplay(r)
	if err != nil {
		return nil, err
	}
	t := &ReplayTransport{header: h, frames: frames}
	for _, f := range frames {
		if f.Number > t.last {
			t.last = f.Number
		}
	}
	return t, nil
}

// OpenReplay reads the replay file at path.
func OpenReplay(path string) (*ReplayTransport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay: %w", err)
	}
	defer f.Close()
	return NewReplayTransport(f)
}

func (t *ReplayTransport) Header() ReplayHeader { return t.header }

// LastFrame is the highest frame number in the replay.
func (t *ReplayTransport) LastFrame() int { return t.last }

func (t *ReplayTransport) Send(Frame) error { return nil }

func (t *ReplayTransport) Receive() []Frame {
	if t.delivered {
		return nil
	}
	t.delivered = true
	return t.frames
}

func (t *ReplayTransport) Close() error { return nil }
