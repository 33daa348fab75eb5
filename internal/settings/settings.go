// Package settings resolves keyed startup options from command-line
// arguments, the environment and a YAML file, in that order of precedence.
package settings

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable the settings read.
const EnvPrefix = "RA_"

var (
	ErrBadArgument = errors.New("argument is not key=value")
	ErrBadValue    = errors.New("invalid setting value")
)

// Source names where a value came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceFile    Source = "file"
	SourceDotEnv  Source = "dotenv"
	SourceEnv     Source = "env"
	SourceArg     Source = "arg"
)

// Options says where to look.
type Options struct {
	File    string          // YAML settings file; missing is fine
	EnvFile string          // .env file; missing is fine
	Args    []string        // key=value pairs
	Environ func() []string // defaults to os.Environ
}

type entry struct {
	value  string
	source Source
}

// Settings is a read-only set of resolved values. Lookups of malformed
// values fall back to the default and are reported by Err.
type Settings struct {
	values map[string]entry
	errs   error
}

// Load resolves settings. An unreadable or malformed file, or a malformed
// argument, is an error; a missing file is not.
func Load(o Options) (*Settings, error) {
	if o.Environ == nil {
		o.Environ = os.Environ
	}
	s := &Settings{values: make(map[string]entry)}

	if o.File != "" {
		if err := s.loadYAML(o.File); err != nil {
			return nil, err
		}
	}
	if o.EnvFile != "" {
		env, err := godotenv.Read(o.EnvFile)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read %s: %w", o.EnvFile, err)
		default:
			s.mergeEnv(env, SourceDotEnv)
		}
	}
	env := make(map[string]string)
	for _, kv := range o.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	s.mergeEnv(env, SourceEnv)

	for _, arg := range o.Args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("%q: %w", arg, ErrBadArgument)
		}
		s.set(k, v, SourceArg)
	}
	return s, nil
}

func (s *Settings) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("yaml %s: %w", path, err)
	}
	for k, v := range raw {
		switch v.(type) {
		case map[string]interface{}, []interface{}:
			return fmt.Errorf("%s: key %q must be a scalar: %w", path, k, ErrBadValue)
		case nil:
			continue
		}
		s.set(k, fmt.Sprint(v), SourceFile)
	}
	return nil
}

func (s *Settings) mergeEnv(env map[string]string, src Source) {
	for k, v := range env {
		if strings.HasPrefix(k, EnvPrefix) && len(k) > len(EnvPrefix) {
			s.set(strings.TrimPrefix(k, EnvPrefix), v, src)
		}
	}
}

func (s *Settings) set(key, value string, src Source) {
	s.values[strings.ToLower(strings.TrimSpace(key))] = entry{value: strings.TrimSpace(value), source: src}
}

func (s *Settings) lookup(key string) (string, bool) {
	e, ok := s.values[strings.ToLower(key)]
	return e.value, ok
}

// Source reports where key was resolved from.
func (s *Settings) Source(key string) Source {
	if e, ok := s.values[strings.ToLower(key)]; ok {
		return e.source
	}
	return SourceDefault
}

// Keys returns every resolved key, sorted.
func (s *Settings) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *Settings) bad(key, value string, err error) {
	s.errs = multierr.Append(s.errs, fmt.Errorf("%s=%q: %v: %w", key, value, err, ErrBadValue))
}

func (s *Settings) String(key, def string) string {
	if v, ok := s.lookup(key); ok {
		return v
	}
	return def
}

func (s *Settings) Int(key string, def int) int {
	v, ok := s.lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		s.bad(key, v, err)
		return def
	}
	return n
}

func (s *Settings) Bool(key string, def bool) bool {
	v, ok := s.lookup(key)
	if !ok {
		return def
	}
	switch strings.ToLower(v) {
	case "yes", "on":
		return true
	case "no", "off":
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		s.bad(key, v, err)
		return def
	}
	return b
}

// Duration accepts Go duration syntax, or a bare integer in unit.
func (s *Settings) Duration(key string, def, unit time.Duration) time.Duration {
	v, ok := s.lookup(key)
	if !ok {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * unit
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		s.bad(key, v, err)
		return def
	}
	return d
}

// Err returns every malformed value met by the typed getters so far.
func (s *Settings) Err() error { return s.errs }
