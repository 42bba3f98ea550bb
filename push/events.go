package push

import (
	"encoding/json"
	"fmt"

	"parley/models"
)

// Event names on the wire.
const (
	EventPresence = "presence:update"
	EventMessage  = "message:new"
	EventRoomLeft = "room:left"
	EventSend     = "message:send"
	EventLeave    = "room:leave"
)

// Envelope frames every event in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// PresenceUpdate is the advisory count of active sessions.
type PresenceUpdate struct {
	Active int `json:"active"`
}

// RoomLeft tells the client it no longer belongs to a room.
type RoomLeft struct {
	RoomID int64 `json:"roomId"`
}

// SendPayload is the outbound message emission. Field names follow the
// backend's send contract, not the inbound message shape.
type SendPayload struct {
	Kind           string `json:"type"`
	RoomID         int64  `json:"roomId,omitempty"`
	ToUserID       int64  `json:"toUserId,omitempty"`
	Content        string `json:"content"`
	AttachmentURL  string `json:"attachmentUrl,omitempty"`
	AttachmentType string `json:"attachmentType,omitempty"`
}

// LeavePayload is the outbound leave notification.
type LeavePayload struct {
	RoomID int64 `json:"roomId"`
}

// decode validates an inbound frame at the channel boundary and
// returns the typed payload, or an error for frames that do not parse.
// Unknown events come back with ok=false and are dropped by the read
// loop.
func decode(data []byte) (event string, payload any, ok bool, err error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", nil, false, fmt.Errorf("malformed frame: %w", err)
	}
	switch env.Event {
	case EventPresence:
		var p PresenceUpdate
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return env.Event, nil, false, fmt.Errorf("malformed %s: %w", env.Event, err)
		}
		return env.Event, p, true, nil
	case EventMessage:
		var m models.Message
		if err := json.Unmarshal(env.Data, &m); err != nil {
			return env.Event, nil, false, fmt.Errorf("malformed %s: %w", env.Event, err)
		}
		if m.Kind != models.KindRoom && m.Kind != models.KindDM {
			return env.Event, nil, false, fmt.Errorf("message with unknown type %q", m.Kind)
		}
		return env.Event, m, true, nil
	case EventRoomLeft:
		var r RoomLeft
		if err := json.Unmarshal(env.Data, &r); err != nil {
			return env.Event, nil, false, fmt.Errorf("malformed %s: %w", env.Event, err)
		}
		return env.Event, r, true, nil
	}
	return env.Event, nil, false, nil
}
