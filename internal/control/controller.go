package control

import (
	"github.com/Garsondee/Red-Command/internal/input"
	"github.com/Garsondee/Red-Command/internal/order"
	"github.com/Garsondee/Red-Command/internal/world"
)

// ModifierFunc samples the live modifier state.
type ModifierFunc func() input.Modifiers

// Controller owns the active order generator and routes everything the
// player does into orders for the session's sink. It is confined to the
// simulation thread.
type Controller struct {
	session   *Session
	gen       order.Generator
	modifiers ModifierFunc
	keymap    Keymap
}

// New returns a controller in Default mode with the production keymap.
func New(s *Session, modifiers ModifierFunc) *Controller {
	if modifiers == nil {
		modifiers = func() input.Modifiers { return input.ModNone }
	}
	return &Controller{
		session:   s,
		gen:       order.New(order.ModeDefault),
		modifiers: modifiers,
		keymap:    NewKeymap(false),
	}
}

// WithKeymap swaps the hotkey bindings. Intended for startup only.
func (c *Controller) WithKeymap(km Keymap) *Controller {
	c.keymap = km
	return c
}

func (c *Controller) Session() *Session { return c.session }

// Generator returns the active generator.
func (c *Controller) Generator() order.Generator { return c.gen }

// SetOrderGenerator replaces the active generator wholesale. Orders already
// handed to the sink are unaffected.
func (c *Controller) SetOrderGenerator(g order.Generator) {
	if g == nil {
		g = order.New(order.ModeDefault)
	}
	prev := c.gen.Mode()
	c.gen = g
	c.session.Log.Debugw("order generator replaced", "from", prev, "to", g.Mode())
}

// Modifiers samples the modifier state now.
func (c *Controller) Modifiers() input.Modifiers {
	return c.modifiers()
}

// DispatchMouseInput runs one pointer event through the active generator
// and submits what it emits, in emission order.
func (c *Controller) DispatchMouseInput(mi input.MouseInput) {
	ev := input.Event{
		Kind:      mi.Kind,
		Location:  mi.Location,
		Buttons:   mi.Buttons,
		Modifiers: c.modifiers(),
	}
	ctx := c.orderContext()
	for _, o := range c.gen.Generate(ev, ctx) {
		c.session.Sink.AddOrder(o)
	}
	if next, ok := ctx.Requested(); ok {
		c.SetOrderGenerator(next)
	}
}

// AddOrder submits o directly, bypassing the generator.
func (c *Controller) AddOrder(o order.Order) {
	c.session.Sink.AddOrder(o)
}

// DoControlGroup assigns (Ctrl) or recalls group index. Recall replaces the
// selection, or extends it with Shift. It returns the resulting group
// members; an action with no live actors changes nothing.
func (c *Controller) DoControlGroup(index int, mods input.Modifiers) ([]world.ActorID, error) {
	s := c.session
	if mods.Has(input.ModCtrl) {
		ids := liveIDs(s.Selection.Live(s.World))
		if len(ids) == 0 {
			s.Log.Debugw("control group assign dropped: empty selection", "group", index)
			return nil, checkIndex(index)
		}
		if err := s.Groups.Assign(index, ids); err != nil {
			return nil, err
		}
		return ids, nil
	}

	ids, err := s.Groups.Recall(index, s.World.IsAlive)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		s.Log.Debugw("control group recall dropped: no live members", "group", index)
		return nil, nil
	}
	if mods.Has(input.ModShift) {
		s.Selection.Add(ids)
	} else {
		s.Selection.Set(ids)
	}
	return ids, nil
}

// HandleKey routes a key press. Chat capture wins over control-group digits.
func (c *Controller) HandleKey(k input.Key) {
	ev := input.Event{Kind: input.KeyDown, Key: k, Modifiers: c.modifiers()}
	chat := c.session.Chat

	if chat.Active() {
		switch {
		case k == input.KeyEscape:
			chat.Cancel()
			return
		case k == input.KeyV && ev.Modifiers.Has(input.ModCtrl):
			if err := chat.Paste(); err != nil {
				c.session.Log.Warnw("clipboard paste failed", "err", err)
			}
			return
		}
	}

	if d, ok := k.Digit(); ok {
		if chat.Active() {
			return
		}
		if _, err := c.DoControlGroup(d, ev.Modifiers); err != nil {
			c.session.Log.Warnw("control group", "err", err)
		}
		return
	}

	if h, ok := c.keymap.lookup(k); ok {
		h(c, ev)
	}
}

// HandleChar routes a typed character: '\r' toggles chat, anything else is
// chat text while chat is open.
func (c *Controller) HandleChar(ch rune) {
	chat := c.session.Chat
	if ch == '\r' {
		line, send := chat.Toggle()
		if send {
			if p := c.session.LocalPlayer; p != nil {
				c.AddOrder(order.Chat(p.Actor, line))
			}
		}
		return
	}
	if chat.Active() {
		chat.TypeChar(ch)
	}
}

func (c *Controller) toggleReady(_ input.Event) {
	s := c.session
	if s.Sink.GameStarted() {
		return
	}
	p := s.LocalPlayer
	if p == nil || !s.World.IsAlive(p.Actor) {
		s.Log.Debugw("ready toggle dropped: no live player actor")
		return
	}
	c.AddOrder(order.ToggleReady(p.Actor, !p.Ready))
}

// cycleLocalPlayer moves control to the next seat. Developer keymap only.
func (c *Controller) cycleLocalPlayer(_ input.Event) {
	s := c.session
	players := s.World.Players()
	if len(players) == 0 || s.LocalPlayer == nil {
		return
	}
	s.LocalPlayer = players[(s.LocalPlayer.Index+1)%len(players)]
	s.Selection.Clear()
	s.Log.Infow("local player changed", "player", s.LocalPlayer.Index)
}

func (c *Controller) orderContext() *order.Context {
	return &order.Context{
		World:     c.session.World,
		Player:    c.session.LocalPlayer,
		Selection: c.session.Selection,
	}
}

func liveIDs(actors []*world.Actor) []world.ActorID {
	out := make([]world.ActorID, 0, len(actors))
	for _, a := range actors {
		out = append(out, a.ID)
	}
	return out
}
