package settings

import (
	"fmt"
	"time"
)

// Config is the client's startup configuration.
type Config struct {
	Width      int
	Height     int
	Fullscreen bool

	Rate   time.Duration // simulation timestep
	Replay string        // record to this file, or play it back headless

	Host string // relay host; empty plays locally
	Port int

	Map     string
	Player  int // local seat, 1-based
	Players int // human players that must be ready before the game starts

	Aftermath bool
	SheetSize int

	UnitDebug     bool
	BuildingDebug bool
	PathDebug     bool
	DevMode       bool // developer hotkeys

	LogPath  string
	LogDebug bool
}

// Defaults returns the configuration used when no setting is given.
func Defaults() Config {
	return Config{
		Width:     1024,
		Height:    768,
		Rate:      40 * time.Millisecond,
		Port:      1234,
		Map:       "scm12ea.ini",
		Player:    1,
		Players:   1,
		SheetSize: 512,
		LogPath:   "redcommand.log",
	}
}

// LocalSeat is the zero-based index of the local player.
func (c Config) LocalSeat() int { return c.Player - 1 }

// Seats is the number of player seats the world is built with.
func (c Config) Seats() int {
	if c.Players < 2 {
		return 2
	}
	return c.Players
}

// Networked reports whether the game runs over a relay.
func (c Config) Networked() bool { return c.Host != "" }

// RelayURL is the websocket address of the relay.
func (c Config) RelayURL() string {
	return fmt.Sprintf("ws://%s:%d/lockstep", c.Host, c.Port)
}

// LoadConfig reads every client key from s.
func LoadConfig(s *Settings) (Config, error) {
	d := Defaults()
	c := Config{
		Width:         s.Int("width", d.Width),
		Height:        s.Int("height", d.Height),
		Fullscreen:    s.Bool("fullscreen", d.Fullscreen),
		Rate:          s.Duration("rate", d.Rate, time.Millisecond),
		Replay:        s.String("replay", d.Replay),
		Host:          s.String("host", d.Host),
		Port:          s.Int("port", d.Port),
		Map:           s.String("map", d.Map),
		Player:        s.Int("player", d.Player),
		Players:       s.Int("players", d.Players),
		Aftermath:     s.Bool("aftermath", d.Aftermath),
		SheetSize:     s.Int("sheetsize", d.SheetSize),
		UnitDebug:     s.Bool("udebug", d.UnitDebug),
		BuildingDebug: s.Bool("bdebug", d.BuildingDebug),
		PathDebug:     s.Bool("pathdebug", d.PathDebug),
		DevMode:       s.Bool("devmode", d.DevMode),
		LogPath:       s.String("log", d.LogPath),
		LogDebug:      s.Bool("logdebug", d.LogDebug),
	}
	if err := s.Err(); err != nil {
		return c, err
	}
	return c, c.Validate()
}

// Validate checks ranges the rest of the client relies on.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("window %dx%d: %w", c.Width, c.Height, ErrBadValue)
	case c.Rate <= 0:
		return fmt.Errorf("rate %v: %w", c.Rate, ErrBadValue)
	case c.Players < 1:
		return fmt.Errorf("players %d: %w", c.Players, ErrBadValue)
	case c.Player < 1 || c.Player > c.Seats():
		return fmt.Errorf("player %d of %d seats: %w", c.Player, c.Seats(), ErrBadValue)
	case c.Networked() && c.Player > c.Players:
		// Every networked seat is a lockstep client.
		return fmt.Errorf("player %d of %d networked players: %w", c.Player, c.Players, ErrBadValue)
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("port %d: %w", c.Port, ErrBadValue)
	}
	return nil
}
