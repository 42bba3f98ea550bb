package push

import (
	"testing"

	"parley/models"
)

func TestDecodeMessage(t *testing.T) {
	frame := []byte(`{"event": "message:new", "data": {
		"id": 7, "type": "room", "room_id": 3, "sender_id": 2,
		"sender_name": "bob", "content": "hi",
		"created_at": "2024-05-01T12:00:00"}}`)

	event, payload, ok, err := decode(frame)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !ok || event != EventMessage {
		t.Fatalf("decode returned ok=%v event=%q", ok, event)
	}
	m, isMsg := payload.(models.Message)
	if !isMsg {
		t.Fatalf("payload type = %T, want models.Message", payload)
	}
	if m.ID != 7 || m.Kind != models.KindRoom || m.RoomID != 3 || m.Content != "hi" {
		t.Errorf("decoded message = %+v", m)
	}
}

func TestDecodePresence(t *testing.T) {
	_, payload, ok, err := decode([]byte(`{"event": "presence:update", "data": {"active": 4}}`))
	if err != nil || !ok {
		t.Fatalf("decode returned ok=%v err=%v", ok, err)
	}
	if p := payload.(PresenceUpdate); p.Active != 4 {
		t.Errorf("active = %d, want 4", p.Active)
	}
}

func TestDecodeRoomLeft(t *testing.T) {
	_, payload, ok, err := decode([]byte(`{"event": "room:left", "data": {"roomId": 9}}`))
	if err != nil || !ok {
		t.Fatalf("decode returned ok=%v err=%v", ok, err)
	}
	if r := payload.(RoomLeft); r.RoomID != 9 {
		t.Errorf("room id = %d, want 9", r.RoomID)
	}
}

func TestDecodeRejectsBadFrames(t *testing.T) {
	tests := []struct {
		name  string
		frame string
	}{
		{"not json", `garbage`},
		{"malformed data", `{"event": "presence:update", "data": "nope"}`},
		{"message with unknown type", `{"event": "message:new", "data": {"id": 1, "type": "broadcast"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, ok, err := decode([]byte(tt.frame)); err == nil || ok {
				t.Errorf("decode accepted a bad frame: ok=%v err=%v", ok, err)
			}
		})
	}
}

func TestDecodeDropsUnknownEvents(t *testing.T) {
	event, _, ok, err := decode([]byte(`{"event": "typing:start", "data": {}}`))
	if err != nil {
		t.Fatalf("unknown event treated as an error: %v", err)
	}
	if ok {
		t.Errorf("unknown event %q not dropped", event)
	}
}
