package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func environ(kv ...string) func() []string {
	return func() []string { return kv }
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "settings.yaml", "width: 800\nheight: 600\nmap: file.ini\nplayer: 2\nrate: 50\n")
	dotenv := writeFile(t, dir, ".env", "RA_HEIGHT=700\nRA_MAP=dotenv.ini\n")

	s, err := Load(Options{
		File:    file,
		EnvFile: dotenv,
		Environ: environ("RA_MAP=env.ini", "HOME=/root", "RA_=ignored"),
		Args:    []string{"player=1", "DevMode=true"},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	checks := []struct {
		key  string
		want string
		src  Source
	}{
		{"width", "800", SourceFile},
		{"height", "700", SourceDotEnv},
		{"map", "env.ini", SourceEnv},
		{"player", "1", SourceArg},
		{"devmode", "true", SourceArg},
	}
	for _, c := range checks {
		if got := s.String(c.key, ""); got != c.want {
			t.Fatalf("%s = %q, want %q", c.key, got, c.want)
		}
		if got := s.Source(c.key); got != c.src {
			t.Fatalf("%s source = %s, want %s", c.key, got, c.src)
		}
	}
	if s.Source("fullscreen") != SourceDefault {
		t.Fatalf("unset key should report default source")
	}
	if s.Duration("rate", 0, time.Millisecond) != 50*time.Millisecond {
		t.Fatalf("rate = %v", s.Duration("rate", 0, time.Millisecond))
	}
}

func TestLoad_MissingFilesAreFine(t *testing.T) {
	dir := t.TempDir()
	s, err := Load(Options{
		File:    filepath.Join(dir, "nope.yaml"),
		EnvFile: filepath.Join(dir, ".env"),
		Environ: environ(),
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(s.Keys()) != 0 {
		t.Fatalf("keys = %v", s.Keys())
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(Options{Environ: environ(), Args: []string{"fullscreen"}}); !errors.Is(err, ErrBadArgument) {
		t.Fatalf("want ErrBadArgument, got %v", err)
	}
	bad := writeFile(t, dir, "bad.yaml", "width: [1, 2\n")
	if _, err := Load(Options{File: bad, Environ: environ()}); err == nil {
		t.Fatalf("malformed yaml should fail")
	}
	nested := writeFile(t, dir, "nested.yaml", "window:\n  width: 3\n")
	if _, err := Load(Options{File: nested, Environ: environ()}); !errors.Is(err, ErrBadValue) {
		t.Fatalf("want ErrBadValue, got %v", err)
	}
}

func TestTypedGetters(t *testing.T) {
	s, err := Load(Options{Environ: environ(), Args: []string{
		"a=12", "b=yes", "c=off", "d=250ms", "e=3", "f=many", "g=maybe",
	}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Int("a", 0) != 12 || !s.Bool("b", false) || s.Bool("c", true) {
		t.Fatalf("basic conversions failed")
	}
	if s.Duration("d", 0, time.Second) != 250*time.Millisecond || s.Duration("e", 0, time.Second) != 3*time.Second {
		t.Fatalf("duration conversions failed")
	}
	if s.Int("missing", 7) != 7 {
		t.Fatalf("default not used")
	}
	if s.Err() != nil {
		t.Fatalf("no errors expected yet: %v", s.Err())
	}
	if s.Int("f", 5) != 5 || !s.Bool("g", true) {
		t.Fatalf("malformed values should fall back to the default")
	}
	if !errors.Is(s.Err(), ErrBadValue) {
		t.Fatalf("want ErrBadValue, got %v", s.Err())
	}
}

func TestLoadConfig(t *testing.T) {
	s, err := Load(Options{Environ: environ("RA_PLAYERS=2"), Args: []string{
		"player=2", "rate=60", "host=relay.local", "devmode=1", "udebug=true",
	}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c, err := LoadConfig(s)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if c.LocalSeat() != 1 || c.Players != 2 || c.Seats() != 2 {
		t.Fatalf("seats: %+v", c)
	}
	if c.Rate != 60*time.Millisecond || !c.DevMode || !c.UnitDebug || c.Map != "scm12ea.ini" {
		t.Fatalf("config: %+v", c)
	}
	if !c.Networked() || c.RelayURL() != "ws://relay.local:1234/lockstep" {
		t.Fatalf("relay url %q", c.RelayURL())
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	for _, args := range [][]string{
		{"player=3"},
		{"rate=0"},
		{"width=-1"},
		{"port=70000"},
		{"height=tall"},
		{"host=relay.local", "player=2", "players=1"},
	} {
		s, err := Load(Options{Environ: environ(), Args: args})
		if err != nil {
			t.Fatalf("load %v: %v", args, err)
		}
		if _, err := LoadConfig(s); !errors.Is(err, ErrBadValue) {
			t.Fatalf("%v: want ErrBadValue, got %v", args, err)
		}
	}
}

func TestConfig_LocalSecondSeatNeedsNoPeer(t *testing.T) {
	c := Defaults()
	c.Player = 2
	if err := c.Validate(); err != nil {
		t.Fatalf("offline play may take the second seat: %v", err)
	}
	c.Host = "relay.local"
	if err := c.Validate(); !errors.Is(err, ErrBadValue) {
		t.Fatalf("networked player 2 of 1 should be rejected, got %v", err)
	}
	c.Players = 2
	if err := c.Validate(); err != nil {
		t.Fatalf("networked player 2 of 2: %v", err)
	}
}
