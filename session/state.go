// Package session keeps the active-conversation view consistent with
// the REST backend and the push channel. State is a single owned
// value; it is mutated only by the Dispatcher (user intents) and the
// Listener (push events), and read by the renderer through snapshot
// accessors.
package session

import (
	"sync"

	"github.com/samber/lo"

	"parley/models"
)

// State is the session state: identity, sidebar lists, the active
// conversation selector and its visible message list, the staged
// attachment and the advisory presence count. Handlers complete one
// mutation before the next begins; the mutex enforces that.
type State struct {
	mu       sync.RWMutex
	user     models.User
	token    string
	rooms    []models.Room
	contacts []models.Contact
	active   models.Conversation
	messages []models.Message
	pending  *models.PendingAttachment
	presence int
	unread   map[string]int
}

func NewState() *State {
	return &State{unread: make(map[string]int)}
}

// Reset clears everything, as on logout.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = models.User{}
	s.token = ""
	s.rooms = nil
	s.contacts = nil
	s.active = models.Conversation{}
	s.messages = nil
	s.pending = nil
	s.presence = 0
	s.unread = make(map[string]int)
}

func (s *State) SetIdentity(u models.User, token string) {
	s.mu.Lock()
	s.user = u
	s.token = token
	s.mu.Unlock()
}

func (s *State) User() models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *State) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *State) SetRooms(rooms []models.Room) {
	s.mu.Lock()
	s.rooms = rooms
	s.mu.Unlock()
}

func (s *State) AppendRoom(r models.Room) {
	s.mu.Lock()
	s.rooms = append(s.rooms, r)
	s.mu.Unlock()
}

func (s *State) Rooms() []models.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Room(nil), s.rooms...)
}

func (s *State) SetContacts(contacts []models.Contact) {
	s.mu.Lock()
	s.contacts = contacts
	s.mu.Unlock()
}

// RemoveContact drops a contact from the list. Called only after the
// server has confirmed the removal.
func (s *State) RemoveContact(id int64) {
	s.mu.Lock()
	s.contacts = lo.Reject(s.contacts, func(c models.Contact, _ int) bool {
		return c.ID == id
	})
	s.mu.Unlock()
}

func (s *State) Contacts() []models.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Contact(nil), s.contacts...)
}

// SetActive switches the selector and discards the visible list. The
// new conversation's unread counter is reset; server state is
// untouched.
func (s *State) SetActive(c models.Conversation) {
	s.mu.Lock()
	s.active = c
	s.messages = nil
	if key := c.Key(); key != "" {
		delete(s.unread, key)
	}
	s.mu.Unlock()
}

// ClearActive drops the selector and the visible list.
func (s *State) ClearActive() {
	s.mu.Lock()
	s.active = models.Conversation{}
	s.messages = nil
	s.mu.Unlock()
}

func (s *State) Active() models.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// SetMessages replaces the visible list with fetched history, in
// server-returned order.
func (s *State) SetMessages(msgs []models.Message) {
	s.mu.Lock()
	s.messages = msgs
	s.mu.Unlock()
}

// AppendMessage appends to the end of the visible list. Append-only:
// no reordering, no dedup against ids already present.
func (s *State) AppendMessage(m models.Message) {
	s.mu.Lock()
	s.messages = append(s.messages, m)
	s.mu.Unlock()
}

func (s *State) Messages() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Message(nil), s.messages...)
}

func (s *State) SetPending(p *models.PendingAttachment) {
	s.mu.Lock()
	s.pending = p
	s.mu.Unlock()
}

func (s *State) Pending() *models.PendingAttachment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pending == nil {
		return nil
	}
	p := *s.pending
	return &p
}

func (s *State) SetPresence(active int) {
	s.mu.Lock()
	s.presence = active
	s.mu.Unlock()
}

func (s *State) Presence() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.presence
}

// IncrementUnread bumps the unread counter for a background
// conversation.
func (s *State) IncrementUnread(key string) {
	s.mu.Lock()
	s.unread[key]++
	s.mu.Unlock()
}

func (s *State) Unread(key string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unread[key]
}
