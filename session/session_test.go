package session

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"parley/config"
	"parley/models"
	"parley/push"
)

// fakeBackend implements Backend with overridable func fields. Calls
// without an override return zero values.
type fakeBackend struct {
	token string

	registerFn      func(ctx context.Context, name, email, password string) (models.User, string, error)
	loginFn         func(ctx context.Context, email, password string) (models.User, string, error)
	meFn            func(ctx context.Context) (models.User, error)
	roomsFn         func(ctx context.Context) ([]models.Room, error)
	createRoomFn    func(ctx context.Context, name string) (models.Room, error)
	leaveRoomFn     func(ctx context.Context, roomID int64) error
	roomMessagesFn  func(ctx context.Context, roomID int64) ([]models.Message, error)
	dmMessagesFn    func(ctx context.Context, userID int64) ([]models.Message, error)
	activeCountFn   func(ctx context.Context) (int, error)
	contactsFn      func(ctx context.Context) ([]models.Contact, error)
	addContactFn    func(ctx context.Context, email string) (models.Contact, error)
	removeContactFn func(ctx context.Context, userID int64) error
	uploadFn        func(ctx context.Context, path string) (models.Upload, error)
}

func (f *fakeBackend) SetToken(token string) { f.token = token }

func (f *fakeBackend) Register(ctx context.Context, name, email, password string) (models.User, string, error) {
	if f.registerFn != nil {
		return f.registerFn(ctx, name, email, password)
	}
	return models.User{}, "", nil
}

func (f *fakeBackend) Login(ctx context.Context, email, password string) (models.User, string, error) {
	if f.loginFn != nil {
		return f.loginFn(ctx, email, password)
	}
	return models.User{}, "", nil
}

func (f *fakeBackend) Me(ctx context.Context) (models.User, error) {
	if f.meFn != nil {
		return f.meFn(ctx)
	}
	return models.User{}, nil
}

func (f *fakeBackend) Rooms(ctx context.Context) ([]models.Room, error) {
	if f.roomsFn != nil {
		return f.roomsFn(ctx)
	}
	return nil, nil
}

func (f *fakeBackend) CreateRoom(ctx context.Context, name string) (models.Room, error) {
	if f.createRoomFn != nil {
		return f.createRoomFn(ctx, name)
	}
	return models.Room{}, nil
}

func (f *fakeBackend) LeaveRoom(ctx context.Context, roomID int64) error {
	if f.leaveRoomFn != nil {
		return f.leaveRoomFn(ctx, roomID)
	}
	return nil
}

func (f *fakeBackend) RoomMessages(ctx context.Context, roomID int64) ([]models.Message, error) {
	if f.roomMessagesFn != nil {
		return f.roomMessagesFn(ctx, roomID)
	}
	return nil, nil
}

func (f *fakeBackend) DMMessages(ctx context.Context, userID int64) ([]models.Message, error) {
	if f.dmMessagesFn != nil {
		return f.dmMessagesFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeBackend) ActiveCount(ctx context.Context) (int, error) {
	if f.activeCountFn != nil {
		return f.activeCountFn(ctx)
	}
	return 0, nil
}

func (f *fakeBackend) Contacts(ctx context.Context) ([]models.Contact, error) {
	if f.contactsFn != nil {
		return f.contactsFn(ctx)
	}
	return nil, nil
}

func (f *fakeBackend) AddContact(ctx context.Context, email string) (models.Contact, error) {
	if f.addContactFn != nil {
		return f.addContactFn(ctx, email)
	}
	return models.Contact{}, nil
}

func (f *fakeBackend) RemoveContact(ctx context.Context, userID int64) error {
	if f.removeContactFn != nil {
		return f.removeContactFn(ctx, userID)
	}
	return nil
}

func (f *fakeBackend) Upload(ctx context.Context, path string) (models.Upload, error) {
	if f.uploadFn != nil {
		return f.uploadFn(ctx, path)
	}
	return models.Upload{}, nil
}

// fakeEmitter records channel emissions.
type fakeEmitter struct {
	connected bool
	sendErr   error
	sent      []push.SendPayload
	left      []int64
}

func (f *fakeEmitter) Connected() bool { return f.connected }

func (f *fakeEmitter) SendMessage(p push.SendPayload) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, p)
	return nil
}

func (f *fakeEmitter) LeaveRoom(roomID int64) error {
	f.left = append(f.left, roomID)
	return nil
}

// recordingRenderer records every callback in order.
type recordingRenderer struct {
	mu       sync.Mutex
	calls    []string
	appended []models.Message
	notices  []string
}

func (r *recordingRenderer) record(name string) {
	r.mu.Lock()
	r.calls = append(r.calls, name)
	r.mu.Unlock()
}

func (r *recordingRenderer) SidebarChanged()  { r.record("sidebar") }
func (r *recordingRenderer) MessagesChanged() { r.record("messages") }
func (r *recordingRenderer) ActiveChanged()   { r.record("active") }

func (r *recordingRenderer) MessageAppended(m models.Message) {
	r.mu.Lock()
	r.calls = append(r.calls, "appended")
	r.appended = append(r.appended, m)
	r.mu.Unlock()
}

func (r *recordingRenderer) PresenceChanged(active int)      { r.record("presence") }
func (r *recordingRenderer) ConnectionChanged(connected bool) { r.record("connection") }

func (r *recordingRenderer) Notice(text string) {
	r.mu.Lock()
	r.calls = append(r.calls, "notice")
	r.notices = append(r.notices, text)
	r.mu.Unlock()
}

func (r *recordingRenderer) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c == name {
			n++
		}
	}
	return n
}

// setupDispatcher wires a Dispatcher over fakes and a temp token file.
func setupDispatcher(t *testing.T, backend *fakeBackend, emitter *fakeEmitter) (*Dispatcher, *State, *recordingRenderer, *config.TokenStore) {
	t.Helper()
	state := NewState()
	r := &recordingRenderer{}
	tokens := config.NewTokenStore(filepath.Join(t.TempDir(), "token"))
	d := NewDispatcher(state, backend, emitter, r, tokens, zerolog.Nop())
	return d, state, r, tokens
}

func roomMsg(id, roomID, senderID int64, content string) models.Message {
	return models.Message{ID: id, Kind: models.KindRoom, RoomID: roomID, SenderID: senderID, Content: content}
}

func dmMsg(id, senderID, recipientID int64, content string) models.Message {
	return models.Message{ID: id, Kind: models.KindDM, SenderID: senderID, RecipientID: recipientID, Content: content}
}
