package control

import (
	"go.uber.org/zap"

	"github.com/Garsondee/Red-Command/internal/order"
	"github.com/Garsondee/Red-Command/internal/world"
)

// Sink is the order manager the controller submits to.
type Sink interface {
	AddOrder(o order.Order)
	GameStarted() bool
}

// Session is the per-game state the controller acts on. It replaces what
// would otherwise be process-wide "current player" and "current world"
// variables; everything reaches it through the Controller.
type Session struct {
	World       *world.World
	LocalPlayer *world.Player
	Selection   *order.Selection
	Groups      *ControlGroups
	Chat        *Chat
	Sink        Sink
	Log         *zap.SugaredLogger
}

// NewSession wires an empty selection, control groups and chat around w.
func NewSession(w *world.World, local *world.Player, sink Sink, chat *Chat, log *zap.SugaredLogger) *Session {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if chat == nil {
		chat = NewChat(nil)
	}
	return &Session{
		World:       w,
		LocalPlayer: local,
		Selection:   &order.Selection{},
		Groups:      NewControlGroups(),
		Chat:        chat,
		Sink:        sink,
		Log:         log,
	}
}

// End releases per-session state.
func (s *Session) End() {
	s.Groups.Clear()
	s.Selection.Clear()
	s.Chat.Cancel()
}
