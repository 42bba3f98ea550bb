package session

import (
	"context"

	"github.com/rs/zerolog"

	"parley/models"
	"parley/push"
)

// Renderer is the projection boundary. It holds no state of its own:
// each callback means "re-read the state and redraw". Calls arrive
// after every mutation, never concurrently with one.
type Renderer interface {
	SidebarChanged()
	MessagesChanged()
	MessageAppended(m models.Message)
	ActiveChanged()
	PresenceChanged(active int)
	ConnectionChanged(connected bool)
	Notice(text string)
}

// Listener applies inbound push events to the session state.
type Listener struct {
	state *State
	api   Backend
	r     Renderer
	log   zerolog.Logger
}

func NewListener(state *State, api Backend, r Renderer, log zerolog.Logger) *Listener {
	return &Listener{state: state, api: api, r: r, log: log}
}

// Bind subscribes the listener to a channel. Handlers run on the
// channel's read loop, in delivery order.
func (l *Listener) Bind(ch *push.Channel) {
	ch.OnPresence(l.HandlePresence)
	ch.OnMessage(l.HandleMessage)
	ch.OnRoomLeft(l.HandleRoomLeft)
	ch.OnState(l.HandleConnectionState)
}

// HandlePresence overwrites the advisory presence counter. The value
// is trusted as-is.
func (l *Listener) HandlePresence(p push.PresenceUpdate) {
	l.state.SetPresence(p.Active)
	l.r.PresenceChanged(p.Active)
}

// HandleMessage appends the message to the visible list only when it
// belongs to the active conversation. Messages for other conversations
// never touch the visible list; they bump that conversation's unread
// counter instead.
func (l *Listener) HandleMessage(m models.Message) {
	active := l.state.Active()
	if active.Matches(m) {
		l.state.AppendMessage(m)
		l.r.MessageAppended(m)
		return
	}
	l.state.IncrementUnread(models.MessageKey(m, l.state.User().ID))
	l.r.SidebarChanged()
}

// HandleRoomLeft reacts to a forced room removal: if the active
// conversation is that room, the selector and the visible list are
// cleared. Either way the room list is refreshed from the server
// rather than patched incrementally.
func (l *Listener) HandleRoomLeft(e push.RoomLeft) {
	if l.state.Active().IsRoom(e.RoomID) {
		l.state.ClearActive()
		l.r.ActiveChanged()
		l.r.MessagesChanged()
	}
	rooms, err := l.api.Rooms(context.Background())
	if err != nil {
		l.log.Warn().Err(err).Msg("room list refresh after room:left failed")
		return
	}
	l.state.SetRooms(rooms)
	l.r.SidebarChanged()
}

// HandleConnectionState forwards channel up/down transitions to the
// renderer. Disconnects are informational here; sends fail fast on
// their own.
func (l *Listener) HandleConnectionState(connected bool) {
	l.r.ConnectionChanged(connected)
}
