package main

import (
	"errors"
	"testing"

	"github.com/Garsondee/Red-Command/internal/settings"
)

func noEnv() []string { return nil }

func TestLoadConfig_RejectsBadSettings(t *testing.T) {
	if _, err := loadConfig([]string{"host=relay.local", "player=2", "players=1"}, noEnv); !errors.Is(err, settings.ErrBadValue) {
		t.Fatalf("expected ErrBadValue, got %v", err)
	}
	if _, err := loadConfig([]string{"nokey"}, noEnv); !errors.Is(err, settings.ErrBadArgument) {
		t.Fatalf("expected ErrBadArgument, got %v", err)
	}
}

func TestStartupFields_LogsEveryParsedKey(t *testing.T) {
	cfg, err := loadConfig([]string{"aftermath=1", "sheetsize=1024"}, noEnv)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	fields := startupFields(cfg, "/data")
	if len(fields)%2 != 0 {
		t.Fatalf("fields must be key/value pairs: %v", fields)
	}
	got := map[string]any{}
	for i := 0; i < len(fields); i += 2 {
		got[fields[i].(string)] = fields[i+1]
	}
	if got["aftermath"] != true || got["sheetsize"] != 1024 || got["data"] != "/data" {
		t.Fatalf("unexpected startup fields: %v", got)
	}
}
