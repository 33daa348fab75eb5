package control

import (
	"strings"
	"unicode"
)

const (
	chatMaxRunes   = 120
	chatLogEntries = 60
)

// ChatEntry is one delivered chat line.
type ChatEntry struct {
	Frame   int
	Player  int
	Message string
}

// ChatLog is a ring buffer of delivered chat lines.
type ChatLog struct {
	entries []ChatEntry
	head    int
	count   int
}

func NewChatLog() *ChatLog {
	return &ChatLog{
		entries: make([]ChatEntry, chatLogEntries),
	}
}

// Add appends an entry, overwriting the oldest when full.
func (cl *ChatLog) Add(frame, player int, msg string) {
	cl.entries[cl.head] = ChatEntry{
		Frame:   frame,
		Player:  player,
		Message: msg,
	}
	cl.head = (cl.head + 1) % chatLogEntries
	if cl.count < chatLogEntries {
		cl.count++
	}
}

// Recent returns entries in chronological order (oldest first).
func (cl *ChatLog) Recent() []ChatEntry {
	result := make([]ChatEntry, cl.count)
	for i := 0; i < cl.count; i++ {
		idx := (cl.head - cl.count + i + chatLogEntries) % chatLogEntries
		result[i] = cl.entries[idx]
	}
	return result
}

// Chat is the text-capture mode. While active it owns the keyboard.
type Chat struct {
	active    bool
	text      []rune
	log       *ChatLog
	clipboard func() (string, error)
}

// NewChat builds a chat whose paste reads through clipboard.
func NewChat(clipboard func() (string, error)) *Chat {
	return &Chat{log: NewChatLog(), clipboard: clipboard}
}

func (c *Chat) Active() bool { return c.active }

func (c *Chat) Text() string { return string(c.text) }

func (c *Chat) Log() *ChatLog { return c.log }

// Toggle opens chat, or closes it and returns the trimmed line to send.
func (c *Chat) Toggle() (string, bool) {
	if !c.active {
		c.active = true
		c.text = c.text[:0]
		return "", false
	}
	line := strings.TrimSpace(string(c.text))
	c.active = false
	c.text = c.text[:0]
	return line, line != ""
}

// Cancel closes chat discarding the typed text.
func (c *Chat) Cancel() {
	c.active = false
	c.text = c.text[:0]
}

// TypeChar appends a printable rune; '\b' deletes the last one.
func (c *Chat) TypeChar(ch rune) {
	if !c.active {
		return
	}
	if ch == '\b' {
		if len(c.text) > 0 {
			c.text = c.text[:len(c.text)-1]
		}
		return
	}
	if !unicode.IsPrint(ch) || len(c.text) >= chatMaxRunes {
		return
	}
	c.text = append(c.text, ch)
}

// Paste appends the printable part of the clipboard text.
func (c *Chat) Paste() error {
	if !c.active || c.clipboard == nil {
		return nil
	}
	s, err := c.clipboard()
	if err != nil {
		return err
	}
	for _, r := range s {
		if r != '\b' {
			c.TypeChar(r)
		}
	}
	return nil
}
