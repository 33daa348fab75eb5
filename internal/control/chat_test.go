package control

import (
	"errors"
	"strings"
	"testing"
)

func TestChat_ToggleSendsTrimmedLine(t *testing.T) {
	c := NewChat(nil)
	if _, send := c.Toggle(); send || !c.Active() {
		t.Fatalf("first toggle should open without sending")
	}
	for _, r := range "  hello  " {
		c.TypeChar(r)
	}
	line, send := c.Toggle()
	if !send || line != "hello" {
		t.Fatalf("got %q %v", line, send)
	}
	if c.Active() || c.Text() != "" {
		t.Fatalf("chat should close and reset")
	}
}

func TestChat_BlankLineIsNotSent(t *testing.T) {
	c := NewChat(nil)
	c.Toggle()
	c.TypeChar(' ')
	if _, send := c.Toggle(); send {
		t.Fatalf("blank line should not be sent")
	}
}

func TestChat_TypeCharRules(t *testing.T) {
	c := NewChat(nil)
	c.TypeChar('x')
	if c.Text() != "" {
		t.Fatalf("typing while closed should be ignored")
	}
	c.Toggle()
	c.TypeChar('\b')
	c.TypeChar('a')
	c.TypeChar('\t')
	c.TypeChar('é')
	c.TypeChar('\b')
	c.TypeChar('b')
	if c.Text() != "ab" {
		t.Fatalf("text = %q", c.Text())
	}
	for i := 0; i < 200; i++ {
		c.TypeChar('z')
	}
	if n := len([]rune(c.Text())); n != chatMaxRunes {
		t.Fatalf("text length = %d, want %d", n, chatMaxRunes)
	}
}

func TestChat_PasteErrorAndClosed(t *testing.T) {
	boom := errors.New("no clipboard")
	c := NewChat(func() (string, error) { return "", boom })
	if err := c.Paste(); err != nil {
		t.Fatalf("paste while closed should be a no-op, got %v", err)
	}
	c.Toggle()
	if err := c.Paste(); !errors.Is(err, boom) {
		t.Fatalf("want clipboard error, got %v", err)
	}
}

func TestChatLog_RingBuffer(t *testing.T) {
	cl := NewChatLog()
	for i := 0; i < chatLogEntries+5; i++ {
		cl.Add(i, 0, strings.Repeat("m", 1))
	}
	recent := cl.Recent()
	if len(recent) != chatLogEntries {
		t.Fatalf("len = %d", len(recent))
	}
	if recent[0].Frame != 5 || recent[len(recent)-1].Frame != chatLogEntries+4 {
		t.Fatalf("order wrong: first=%d last=%d", recent[0].Frame, recent[len(recent)-1].Frame)
	}
}
