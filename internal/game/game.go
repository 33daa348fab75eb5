// Package game hosts the command pipeline inside an ebiten window.
package game

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Red-Command/internal/control"
	"github.com/Garsondee/Red-Command/internal/geom"
	"github.com/Garsondee/Red-Command/internal/input"
	"github.com/Garsondee/Red-Command/internal/netsync"
	"github.com/Garsondee/Red-Command/internal/sched"
	"github.com/Garsondee/Red-Command/internal/settings"
	"github.com/Garsondee/Red-Command/internal/world"
)

// Game is the ebiten host: each Update runs at most one simulation tick,
// then pumps platform input through the router.
type Game struct {
	cfg settings.Config
	log *zap.SugaredLogger

	world    *world.World
	manager  *netsync.Manager
	session  *control.Session
	ctrl     *control.Controller
	sched    *sched.Scheduler
	viewport *Viewport
	router   *input.Router
	platform *Platform

	face text.Face
}

// Options are the collaborators a Game is built from.
type Options struct {
	Config  settings.Config
	World   *world.World
	Manager *netsync.Manager
	Log     *zap.SugaredLogger
	Source  Source      // defaults to live ebiten input
	Clock   sched.Clock // defaults to the wall clock
}

func New(o Options) *Game {
	if o.Log == nil {
		o.Log = zap.NewNop().Sugar()
	}
	if o.Source == nil {
		o.Source = EbitenSource()
	}
	g := &Game{
		cfg:     o.Config,
		log:     o.Log,
		world:   o.World,
		manager: o.Manager,
		face:    text.NewGoXFace(basicfont.Face7x13),
	}

	chat := control.NewChat(clipboard.ReadAll)
	local := g.world.Player(o.Config.LocalSeat())
	g.session = control.NewSession(g.world, local, g.manager, chat, o.Log.Named("control"))
	g.manager.OnChat = func(frame, client int, msg string) {
		chat.Log().Add(frame, client, msg)
		g.log.Infow("chat", "frame", frame, "client", client, "msg", msg)
	}

	g.ctrl = control.New(g.session, modifierFunc(o.Source)).WithKeymap(control.NewKeymap(o.Config.DevMode))
	g.viewport = NewViewport(geom.Pt(o.Config.Width, o.Config.Height), world.MapSize, g.ctrl)
	g.router = input.NewRouter(g.viewport, g.ctrl)
	g.platform = NewPlatform(o.Source, g.router)

	opts := []sched.Option{
		sched.WithGate(g.manager),
		sched.WithLogger(o.Log.Named("sched")),
	}
	if o.Clock != nil {
		opts = append(opts, sched.WithClock(o.Clock))
	}
	g.sched = sched.New(o.Config.Rate, g.manager.Advance, opts...)
	if local != nil {
		g.viewport.Center(world.StartOf(local.Index))
	}
	return g
}

// Controller exposes the order controller.
func (g *Game) Controller() *control.Controller { return g.ctrl }

func (g *Game) Update() error {
	if _, err := g.sched.Step(); err != nil {
		g.log.Errorw("simulation tick failed", "err", err)
		return err
	}
	if err := g.manager.Err(); err != nil {
		return fmt.Errorf("lockstep: %w", err)
	}
	g.platform.Poll()
	return nil
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

// Close ends the session and releases its per-session state.
func (g *Game) Close() {
	g.session.End()
	g.log.Infow("session ended", "sched", g.sched.Stats().String(), "orders", g.manager.Stats().String())
}

var _ ebiten.Game = (*Game)(nil)
