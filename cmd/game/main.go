package main

import (
	"context"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Red-Command/internal/assets"
	"github.com/Garsondee/Red-Command/internal/game"
	"github.com/Garsondee/Red-Command/internal/logging"
	"github.com/Garsondee/Red-Command/internal/netsync"
	"github.com/Garsondee/Red-Command/internal/settings"
	"github.com/Garsondee/Red-Command/internal/world"
)

const dialTimeout = 10 * time.Second

// loadConfig resolves settings.yaml, .env, RA_* variables and key=value
// arguments into a validated Config.
func loadConfig(args []string, environ func() []string) (settings.Config, error) {
	s, err := settings.Load(settings.Options{File: "settings.yaml", EnvFile: ".env", Args: args, Environ: environ})
	if err != nil {
		return settings.Config{}, err
	}
	return settings.LoadConfig(s)
}

// startupFields are the key/value pairs logged once the client is configured.
func startupFields(cfg settings.Config, dataDir string) []any {
	return []any{
		"data", dataDir,
		"map", cfg.Map,
		"player", cfg.Player,
		"players", cfg.Players,
		"rate", cfg.Rate,
		"aftermath", cfg.Aftermath,
		"sheetsize", cfg.SheetSize,
		"networked", cfg.Networked(),
		"replay", cfg.Replay,
	}
}

func main() {
	// Settings decide where the real log goes; until then log to stderr.
	boot, closeBoot := logging.New(logging.Options{})
	cfg, err := loadConfig(os.Args[1:], os.Environ)
	if err != nil {
		boot.Fatalw("invalid settings", "err", err)
	}
	closeBoot()

	zl, closeLog := logging.New(logging.Options{Path: cfg.LogPath, Debug: cfg.LogDebug})
	defer closeLog()

	dir, err := assets.Locate(".", assets.ArchiveName)
	if err != nil {
		zl.Fatalw("game data not found", "err", err)
	}
	zl.Infow("starting", startupFields(cfg, dir)...)

	var transport netsync.Transport = netsync.NewLoopback()
	clients, local := 1, 0
	if cfg.Networked() {
		ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
		ws, err := netsync.Dial(ctx, cfg.RelayURL(), cfg.LocalSeat(), zl)
		cancel()
		if err != nil {
			zl.Fatalw("connect to relay", "url", cfg.RelayURL(), "err", err)
		}
		transport = ws
		clients, local = cfg.Players, cfg.LocalSeat()
	}
	if cfg.Replay != "" {
		rec, err := netsync.CreateRecorder(transport, cfg.Replay, netsync.ReplayHeader{
			Clients: clients,
			Seats:   cfg.Seats(),
			Humans:  cfg.Players,
			Map:     cfg.Map,
		})
		if err != nil {
			zl.Fatalw("record replay", "path", cfg.Replay, "err", err)
		}
		transport = rec
	}
	defer func() {
		if err := transport.Close(); err != nil {
			zl.Warnw("closing transport", "err", err)
		}
	}()

	w := world.Skirmish(cfg.Seats())
	mgr := netsync.NewManager(w, transport, netsync.Config{
		LocalClient: local,
		Clients:     clients,
		Humans:      cfg.Players,
	}, zl)

	g := game.New(game.Options{Config: cfg, World: w, Manager: mgr, Log: zl})
	defer g.Close()

	ebiten.SetWindowTitle("Red Command")
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetFullscreen(cfg.Fullscreen)
	if err := ebiten.RunGame(g); err != nil {
		zl.Errorw("game ended", "err", err)
	}
}
