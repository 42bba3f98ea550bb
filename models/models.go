package models

import "strconv"

// Conversation kinds, as the backend tags them.
const (
	KindRoom = "room"
	KindDM   = "dm"
)

// AttachmentImage is the only attachment type the backend accepts.
const AttachmentImage = "image"

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Room struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Contact is a saved direct-message peer. It belongs to the user who
// saved it; the other party is not asked.
type Contact struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Message is a single chat message as the backend delivers it, either
// in a history response or on the push channel. RoomID is set for room
// messages, RecipientID for direct ones.
type Message struct {
	ID             int64  `json:"id"`
	Kind           string `json:"type"`
	RoomID         int64  `json:"room_id"`
	SenderID       int64  `json:"sender_id"`
	RecipientID    int64  `json:"recipient_id"`
	SenderName     string `json:"sender_name"`
	Content        string `json:"content"`
	AttachmentURL  string `json:"attachment_url"`
	AttachmentType string `json:"attachment_type"`
	CreatedAt      string `json:"created_at"`
}

// Upload is the backend's answer to an attachment upload.
type Upload struct {
	URL  string `json:"url"`
	Type string `json:"type"`
	Mime string `json:"mime"`
}

// PendingAttachment is a local file staged for the next send. At most
// one may be staged; it is cleared on send or explicit cancel.
type PendingAttachment struct {
	Path string
	Mime string
}

// Conversation selects the single active conversation. The zero value
// means none is selected.
type Conversation struct {
	Kind string
	ID   int64
	Name string
}

// RoomConversation returns a selector for a room.
func RoomConversation(r Room) Conversation {
	return Conversation{Kind: KindRoom, ID: r.ID, Name: r.Name}
}

// DMConversation returns a selector for a saved contact.
func DMConversation(c Contact) Conversation {
	return Conversation{Kind: KindDM, ID: c.ID, Name: c.Name}
}

// None reports whether no conversation is selected.
func (c Conversation) None() bool {
	return c.Kind == ""
}

// IsRoom reports whether the selector points at the given room.
func (c Conversation) IsRoom(roomID int64) bool {
	return c.Kind == KindRoom && c.ID == roomID
}

// Matches reports whether an incoming message belongs to this
// conversation: room messages match on room id, direct messages match
// when the active peer is either the sender or the recipient.
func (c Conversation) Matches(m Message) bool {
	switch c.Kind {
	case KindRoom:
		return m.Kind == KindRoom && m.RoomID == c.ID
	case KindDM:
		return m.Kind == KindDM && (m.SenderID == c.ID || m.RecipientID == c.ID)
	}
	return false
}

// Key returns a stable identifier for the conversation, used to key
// unread counters.
func (c Conversation) Key() string {
	if c.None() {
		return ""
	}
	return ConversationKey(c.Kind, c.ID)
}

// ConversationKey builds the identifier Key returns.
func ConversationKey(kind string, id int64) string {
	return kind + ":" + strconv.FormatInt(id, 10)
}

// MessageKey returns the conversation key a message belongs to, from
// the point of view of the user selfID. For a direct message that is
// the other party, whichever side of the pair we are on.
func MessageKey(m Message, selfID int64) string {
	if m.Kind == KindRoom {
		return ConversationKey(KindRoom, m.RoomID)
	}
	peer := m.SenderID
	if peer == selfID {
		peer = m.RecipientID
	}
	return ConversationKey(KindDM, peer)
}
