package order

import (
	"fmt"
	"sort"
	"strings"
)

// LogEntry is one order as the sink saw it.
type LogEntry struct {
	Frame  int
	Player int    // issuing seat, -1 when unknown
	Order  Order  // the order as received
	Result string // "applied", "rejected" or "immediate"
	Reason string // rejection reason, empty otherwise
}

// String formats the entry as a fixed-width log line.
//
//	[F=042] P0  applied   Move subj=7 at (130,100)
func (e LogEntry) String() string {
	line := fmt.Sprintf("[F=%03d] P%-2d %-9s %s", e.Frame, e.Player, e.Result, e.Order)
	if e.Reason != "" {
		line += " -- " + e.Reason
	}
	return line
}

// Log is an unbounded, filterable record of processed orders.
type Log struct {
	entries []LogEntry
}

func NewLog() *Log {
	return &Log{}
}

// Add records a new entry.
func (l *Log) Add(frame, player int, o Order, result, reason string) {
	l.entries = append(l.entries, LogEntry{
		Frame:  frame,
		Player: player,
		Order:  o,
		Result: result,
		Reason: reason,
	})
}

// Entries returns all recorded entries.
func (l *Log) Entries() []LogEntry {
	return l.entries
}

// Filter returns entries matching the order name and/or result.
// Pass empty string to match any value for that field.
func (l *Log) Filter(name, result string) []LogEntry {
	var out []LogEntry
	for _, e := range l.entries {
		if name != "" && e.Order.Name != name {
			continue
		}
		if result != "" && e.Result != result {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterFrameRange returns entries within [from, to] inclusive.
func (l *Log) FilterFrameRange(from, to int) []LogEntry {
	var out []LogEntry
	for _, e := range l.entries {
		if e.Frame >= from && e.Frame <= to {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many entries match name and result.
func (l *Log) Count(name, result string) int {
	return len(l.Filter(name, result))
}

// LastOf returns the most recent entry for name, or false if none.
func (l *Log) LastOf(name string) (LogEntry, bool) {
	entries := l.Filter(name, "")
	if len(entries) == 0 {
		return LogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// Format returns the full log as a single string for t.Log output.
func (l *Log) Format() string {
	var sb strings.Builder
	for _, e := range l.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns per-order-name counts of applied and rejected orders.
func (l *Log) Summary() string {
	type counts struct{ applied, rejected int }
	byName := map[string]*counts{}
	for _, e := range l.entries {
		c, ok := byName[e.Order.Name]
		if !ok {
			c = &counts{}
			byName[e.Order.Name] = c
		}
		if e.Result == "rejected" {
			c.rejected++
		} else {
			c.applied++
		}
	}
	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	sort.Strings(names)

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Orders (%d) ---\n", len(l.entries))
	for _, n := range names {
		c := byName[n]
		fmt.Fprintf(&sb, "%-12s applied=%d rejected=%d\n", n, c.applied, c.rejected)
	}
	return sb.String()
}
