package netsync

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Garsondee/Red-Command/internal/order"
)

// Frame is one client's batch of orders for one lockstep frame.
type Frame struct {
	Number int           `json:"frame"`
	Client int           `json:"client"`
	Orders []order.Order `json:"orders,omitempty"`
}

func (f Frame) String() string {
	return fmt.Sprintf("frame %d client %d (%d orders)", f.Number, f.Client, len(f.Orders))
}

// ReplayHeader is the first line of a replay file.
type ReplayHeader struct {
	Version int    `json:"version"`
	Clients int    `json:"clients"`
	Seats   int    `json:"seats,omitempty"`
	Humans  int    `json:"humans,omitempty"`
	Map     string `json:"map,omitempty"`
}

const replayVersion = 1

var ErrBadReplay = errors.New("malformed replay")

// FrameWriter writes frames as JSON lines.
type FrameWriter struct {
	enc *json.Encoder
}

func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{enc: json.NewEncoder(w)}
}

func (fw *FrameWriter) WriteHeader(h ReplayHeader) error {
	h.Version = replayVersion
	return fw.enc.Encode(h)
}

func (fw *FrameWriter) WriteFrame(f Frame) error {
	return fw.enc.Encode(f)
}

// ReadReplay parses a header line followed by frame lines.
func ReadReplay(r io.Reader) (ReplayHeader, []Frame, error) {
	var h ReplayHeader
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return h, nil, err
		}
		return h, nil, fmt.Errorf("missing header: %w", ErrBadReplay)
	}
	if err := json.Unmarshal(sc.Bytes(), &h); err != nil {
		return h, nil, fmt.Errorf("header: %v: %w", err, ErrBadReplay)
	}
	if h.Version != replayVersion || h.Clients < 1 {
		return h, nil, fmt.Errorf("header version=%d clients=%d: %w", h.Version, h.Clients, ErrBadReplay)
	}
	var frames []Frame
	line := 1
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var f Frame
		if err := json.Unmarshal(sc.Bytes(), &f); err != nil {
			return h, frames, fmt.Errorf("line %d: %v: %w", line, err, ErrBadReplay)
		}
		frames = append(frames, f)
	}
	return h, frames, sc.Err()
}
