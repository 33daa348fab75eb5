package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Garsondee/Red-Command/internal/logging"
	"github.com/Garsondee/Red-Command/internal/netsync"
	"github.com/Garsondee/Red-Command/internal/order"
	"github.com/Garsondee/Red-Command/internal/sched"
	"github.com/Garsondee/Red-Command/internal/world"
)

// maxStalls bounds how long a replay may wait on a frame. Every recorded
// frame is available up front, so a stall means the replay is truncated.
const maxStalls = 8

var errIncompleteReplay = errors.New("replay ends mid-frame")

type forceCount struct {
	units, unitsAlive         int
	buildings, buildingsAlive int
	damaged                   int
}

type playerStats struct {
	index    int
	ready    bool
	issued   int
	rejected int
	chat     []string
	forces   forceCount
}

type replayStats struct {
	header     netsync.ReplayHeader
	lastFrame  int
	frames     int
	started    bool
	startFrame int
	sched      sched.Stats
	sync       netsync.Stats
	orders     *order.Log
	players    []playerStats
}

func main() {
	var replayPath string
	var logPath string
	var verbose bool
	var until int

	flag.StringVar(&replayPath, "replay", "", "replay file to play back")
	flag.StringVar(&logPath, "log", "", "write a debug log to this file")
	flag.BoolVar(&verbose, "v", false, "print every order")
	flag.IntVar(&until, "until", 0, "stop after this frame (0 = end of replay)")
	flag.Parse()

	if replayPath == "" {
		fmt.Println("error: -replay is required")
		os.Exit(2)
	}
	if until < 0 {
		fmt.Println("error: -until must be >= 0")
		os.Exit(2)
	}

	log, closeLog := logging.New(logging.Options{Path: logPath, Debug: logPath != ""})
	defer closeLog()

	rt, err := netsync.OpenReplay(replayPath)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}

	rs, err := runReplay(context.Background(), rt, until, log)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("=== Headless Order Report ===\n")
	fmt.Printf("replay=%s\n\n", replayPath)
	printReport(os.Stdout, rs, verbose)
}

// replaySeats returns the seat and human counts a replay was recorded with.
// Older headers carry only the client count.
func replaySeats(h netsync.ReplayHeader) (seats, humans int) {
	seats, humans = h.Seats, h.Humans
	if humans < 1 {
		humans = h.Clients
	}
	if seats < 1 {
		seats = max(h.Clients, 2)
	}
	if seats < humans {
		seats = humans
	}
	return seats, humans
}

// runReplay drives a spectator session through the scheduler on a manual
// clock until the replay (or frame until) is exhausted.
func runReplay(ctx context.Context, rt *netsync.ReplayTransport, until int, log *zap.SugaredLogger) (replayStats, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	h := rt.Header()
	seats, humans := replaySeats(h)
	w := world.Skirmish(seats)
	mgr := netsync.NewManager(w, rt, netsync.Config{LocalClient: -1, Clients: h.Clients, Humans: humans}, log)

	last := rt.LastFrame()
	if until > 0 && until < last {
		last = until
	}
	rs := replayStats{header: h, lastFrame: last, orders: mgr.Orders()}
	advance := func(n int) error {
		if err := mgr.Advance(n); err != nil {
			return err
		}
		if !rs.started && mgr.GameStarted() {
			rs.started = true
			rs.startFrame = mgr.Frame() - 1
		}
		return nil
	}
	s := sched.New(sched.DefaultTimestep, advance,
		sched.WithClock(sched.NewManualClock(time.Unix(0, 0))),
		sched.WithGate(mgr),
		sched.WithLogger(log),
		sched.WithActive(func() bool { return mgr.Frame() <= last }),
	)
	pump := func() error {
		if err := mgr.Err(); err != nil {
			return err
		}
		if s.Stats().Stalls > maxStalls {
			return fmt.Errorf("frame %d: %w", mgr.Frame(), errIncompleteReplay)
		}
		return nil
	}
	err := s.Run(ctx, pump)
	if err != nil && !errors.Is(err, sched.ErrStopped) {
		return rs, err
	}

	rs.frames = mgr.Frame() - 1
	rs.sched = s.Stats()
	rs.sync = mgr.Stats()
	rs.players = collectPlayers(w, mgr.Orders())
	return rs, nil
}

func collectPlayers(w *world.World, log *order.Log) []playerStats {
	players := w.Players()
	out := make([]playerStats, len(players))
	for i, p := range players {
		out[i] = playerStats{index: p.Index, ready: p.Ready}
	}
	for _, e := range log.Entries() {
		if e.Player < 0 || e.Player >= len(out) {
			continue
		}
		ps := &out[e.Player]
		ps.issued++
		if e.Result == "rejected" {
			ps.rejected++
		}
		if e.Order.Name == order.NameChat && e.Result != "rejected" {
			ps.chat = append(ps.chat, e.Order.Payload)
		}
	}
	for _, a := range w.Actors() {
		if a.Owner < 0 || a.Owner >= len(out) || a.Kind == "player" {
			continue
		}
		countActor(&out[a.Owner].forces, a)
	}
	return out
}

func countActor(fc *forceCount, a *world.Actor) {
	alive := !a.Dead
	if a.Building {
		fc.buildings++
		if alive {
			fc.buildingsAlive++
		}
	} else {
		fc.units++
		if alive {
			fc.unitsAlive++
		}
	}
	if alive && a.Damaged() {
		fc.damaged++
	}
}

// busiestFrames returns up to n frames with the most processed orders,
// busiest first and ties broken by frame number.
func busiestFrames(log *order.Log, n int) [][2]int {
	byFrame := map[int]int{}
	for _, e := range log.Entries() {
		byFrame[e.Frame]++
	}
	out := make([][2]int, 0, len(byFrame))
	for f, c := range byFrame {
		out = append(out, [2]int{f, c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][1] != out[j][1] {
			return out[i][1] > out[j][1]
		}
		return out[i][0] < out[j][0]
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func printReport(out io.Writer, rs replayStats, verbose bool) {
	seats, humans := replaySeats(rs.header)
	fmt.Fprintf(out, "map=%s clients=%d seats=%d humans=%d\n", orDash(rs.header.Map), rs.header.Clients, seats, humans)
	fmt.Fprintf(out, "frames=%d/%d started=%t", rs.frames, rs.lastFrame, rs.started)
	if rs.started {
		fmt.Fprintf(out, " start_frame=%d", rs.startFrame)
	}
	fmt.Fprintf(out, "\nsched: %s\nsync:  %s\n\n", rs.sched, rs.sync)

	fmt.Fprint(out, rs.orders.Summary())

	fmt.Fprintf(out, "\n--- Players ---\n")
	for _, p := range rs.players {
		fmt.Fprintf(out, "P%-2d ready=%-5t orders=%-4d rejected=%-3d units=%d/%d buildings=%d/%d damaged=%d\n",
			p.index, p.ready, p.issued, p.rejected,
			p.forces.unitsAlive, p.forces.units,
			p.forces.buildingsAlive, p.forces.buildings,
			p.forces.damaged)
	}

	if busy := busiestFrames(rs.orders, 5); len(busy) > 0 {
		parts := make([]string, len(busy))
		for i, b := range busy {
			parts[i] = fmt.Sprintf("F%d:%d", b[0], b[1])
		}
		fmt.Fprintf(out, "\nbusiest frames: %s\n", strings.Join(parts, " "))
	}

	var chat []string
	for _, p := range rs.players {
		for _, line := range p.chat {
			chat = append(chat, fmt.Sprintf("P%d: %s", p.index, line))
		}
	}
	if len(chat) > 0 {
		fmt.Fprintf(out, "\n--- Chat (%d) ---\n", len(chat))
		for _, line := range chat {
			fmt.Fprintln(out, line)
		}
	}

	if verbose {
		fmt.Fprintf(out, "\n--- Order log ---\n%s", rs.orders.Format())
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
