package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"parley/api"
	"parley/config"
	"parley/models"
	"parley/push"
)

// Backend is the REST surface the session layer consumes.
type Backend interface {
	SetToken(token string)
	Register(ctx context.Context, name, email, password string) (models.User, string, error)
	Login(ctx context.Context, email, password string) (models.User, string, error)
	Me(ctx context.Context) (models.User, error)
	Rooms(ctx context.Context) ([]models.Room, error)
	CreateRoom(ctx context.Context, name string) (models.Room, error)
	LeaveRoom(ctx context.Context, roomID int64) error
	RoomMessages(ctx context.Context, roomID int64) ([]models.Message, error)
	DMMessages(ctx context.Context, userID int64) ([]models.Message, error)
	ActiveCount(ctx context.Context) (int, error)
	Contacts(ctx context.Context) ([]models.Contact, error)
	AddContact(ctx context.Context, email string) (models.Contact, error)
	RemoveContact(ctx context.Context, userID int64) error
	Upload(ctx context.Context, path string) (models.Upload, error)
}

// Emitter is the outbound half of the push channel.
type Emitter interface {
	Connected() bool
	SendMessage(p push.SendPayload) error
	LeaveRoom(roomID int64) error
}

// Validation and precondition failures. None of these issue a request.
var (
	ErrNoActiveConversation = errors.New("no conversation selected")
	ErrEmptyMessage         = errors.New("message needs text or an attachment")
	ErrEmptyCreateForm      = errors.New("enter an email for a DM or a room name")
	ErrNotARoom             = errors.New("active conversation is not a room")
)

// Dispatcher turns user intents into backend calls and channel
// emissions, and reconciles the session state with the results.
type Dispatcher struct {
	state    *State
	api      Backend
	ch       Emitter
	r        Renderer
	tokens   *config.TokenStore
	log      zerolog.Logger
	validate *validator.Validate

	// selection generation; history responses from superseded
	// selections are discarded.
	gen atomic.Int64
}

func NewDispatcher(state *State, backend Backend, ch Emitter, r Renderer, tokens *config.TokenStore, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		state:    state,
		api:      backend,
		ch:       ch,
		r:        r,
		tokens:   tokens,
		log:      log,
		validate: validator.New(),
	}
}

// Boot restores a persisted session. It returns false when there is no
// token or the identity check rejects it; a rejected token is dropped
// so the next boot starts clean.
func (d *Dispatcher) Boot(ctx context.Context) (bool, error) {
	token, err := d.tokens.Load()
	if err != nil {
		return false, err
	}
	if token == "" {
		return false, nil
	}

	d.api.SetToken(token)
	user, err := d.api.Me(ctx)
	if err != nil {
		d.api.SetToken("")
		if clearErr := d.tokens.Clear(); clearErr != nil {
			d.log.Warn().Err(clearErr).Msg("token clear failed")
		}
		if api.IsAuth(err) {
			return false, nil
		}
		return false, err
	}

	d.state.SetIdentity(user, token)
	return true, d.loadSidebar(ctx)
}

// Login authenticates and persists the returned token.
func (d *Dispatcher) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if err := d.validate.Var(email, "required,email"); err != nil {
		return errors.New("enter a valid email")
	}
	if password == "" {
		return errors.New("enter a password")
	}

	user, token, err := d.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return d.establish(ctx, user, token)
}

// Register creates an account and starts a session with it.
func (d *Dispatcher) Register(ctx context.Context, name, email, password string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return errors.New("enter a name")
	}
	if err := d.validate.Var(email, "required,email"); err != nil {
		return errors.New("enter a valid email")
	}
	if len(password) < 4 {
		return errors.New("password too short")
	}

	user, token, err := d.api.Register(ctx, name, email, password)
	if err != nil {
		return err
	}
	return d.establish(ctx, user, token)
}

func (d *Dispatcher) establish(ctx context.Context, user models.User, token string) error {
	d.api.SetToken(token)
	d.state.SetIdentity(user, token)
	if err := d.tokens.Save(token); err != nil {
		d.log.Warn().Err(err).Msg("token persist failed")
	}
	return d.loadSidebar(ctx)
}

// Logout drops the token and resets the session.
func (d *Dispatcher) Logout() {
	if err := d.tokens.Clear(); err != nil {
		d.log.Warn().Err(err).Msg("token clear failed")
	}
	d.api.SetToken("")
	d.state.Reset()
}

// loadSidebar fetches rooms, contacts and the presence count fresh.
func (d *Dispatcher) loadSidebar(ctx context.Context) error {
	rooms, err := d.api.Rooms(ctx)
	if err != nil {
		return err
	}
	contacts, err := d.api.Contacts(ctx)
	if err != nil {
		return err
	}
	d.state.SetRooms(rooms)
	d.state.SetContacts(contacts)
	d.r.SidebarChanged()

	if active, err := d.api.ActiveCount(ctx); err == nil {
		d.state.SetPresence(active)
		d.r.PresenceChanged(active)
	}
	return nil
}

// RefreshSidebar re-fetches rooms and contacts on request.
func (d *Dispatcher) RefreshSidebar(ctx context.Context) error {
	return d.loadSidebar(ctx)
}

// SelectConversation switches the active conversation: the visible
// list is cleared first, then history is fetched and rendered in
// server order. No optimistic content. In-flight fetches are not
// cancelled; a response from a superseded selection is discarded by
// the generation check.
func (d *Dispatcher) SelectConversation(ctx context.Context, conv models.Conversation) error {
	gen := d.gen.Add(1)

	d.state.SetActive(conv)
	d.r.ActiveChanged()
	d.r.MessagesChanged()
	d.r.SidebarChanged()

	var msgs []models.Message
	var err error
	switch conv.Kind {
	case models.KindRoom:
		msgs, err = d.api.RoomMessages(ctx, conv.ID)
	case models.KindDM:
		msgs, err = d.api.DMMessages(ctx, conv.ID)
	default:
		return nil
	}

	if gen != d.gen.Load() {
		// A later selection won; this response is stale.
		return nil
	}
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	d.state.SetMessages(msgs)
	d.r.MessagesChanged()
	return nil
}

// SendMessage composes and emits the current input. Preconditions: a
// conversation is selected and the channel is up — a disconnected
// channel fails fast, nothing is queued. A staged attachment is
// uploaded first and a failed upload aborts the whole send. The sent
// message is not echoed locally; it reappears through the push channel
// once the server has accepted it.
func (d *Dispatcher) SendMessage(ctx context.Context, text string) error {
	active := d.state.Active()
	if active.None() {
		return ErrNoActiveConversation
	}
	if !d.ch.Connected() {
		return push.ErrNotConnected
	}

	text = strings.TrimSpace(text)
	pending := d.state.Pending()
	if text == "" && pending == nil {
		return ErrEmptyMessage
	}

	var attachmentURL, attachmentType string
	if pending != nil {
		up, err := d.api.Upload(ctx, pending.Path)
		if err != nil {
			// Compose state stays intact so the user can retry.
			return fmt.Errorf("upload: %w", err)
		}
		attachmentURL = up.URL
		attachmentType = up.Type
	}

	payload := push.SendPayload{
		Kind:           active.Kind,
		Content:        text,
		AttachmentURL:  attachmentURL,
		AttachmentType: attachmentType,
	}
	if active.Kind == models.KindRoom {
		payload.RoomID = active.ID
	} else {
		payload.ToUserID = active.ID
	}

	if err := d.ch.SendMessage(payload); err != nil {
		return err
	}

	d.state.SetPending(nil)
	return nil
}

// StageAttachment stages one local image for the next send, replacing
// any previously staged file.
func (d *Dispatcher) StageAttachment(path string) error {
	mime, err := api.SniffImage(path)
	if err != nil {
		return err
	}
	d.state.SetPending(&models.PendingAttachment{Path: path, Mime: mime})
	return nil
}

// ClearAttachment cancels the staged attachment.
func (d *Dispatcher) ClearAttachment() {
	d.state.SetPending(nil)
}

// CreateConversation handles the new-conversation form. Exactly one of
// email or room name is required; email wins when both are filled.
// A saved contact triggers a full contact-list refresh, a new room is
// appended locally without a refetch. Either way the new conversation
// becomes active.
func (d *Dispatcher) CreateConversation(ctx context.Context, email, roomName string) (models.Conversation, error) {
	email = strings.TrimSpace(email)
	roomName = strings.TrimSpace(roomName)

	if email != "" {
		if err := d.validate.Var(email, "email"); err != nil {
			return models.Conversation{}, errors.New("enter a valid email")
		}
		contact, err := d.api.AddContact(ctx, email)
		if err != nil {
			return models.Conversation{}, err
		}
		contacts, err := d.api.Contacts(ctx)
		if err != nil {
			return models.Conversation{}, err
		}
		d.state.SetContacts(contacts)
		d.r.SidebarChanged()

		conv := models.DMConversation(contact)
		return conv, d.SelectConversation(ctx, conv)
	}

	if roomName == "" {
		return models.Conversation{}, ErrEmptyCreateForm
	}

	room, err := d.api.CreateRoom(ctx, roomName)
	if err != nil {
		return models.Conversation{}, err
	}
	d.state.AppendRoom(room)
	d.r.SidebarChanged()

	conv := models.RoomConversation(room)
	return conv, d.SelectConversation(ctx, conv)
}

// LeaveRoom leaves a room: backend first, then a companion leave
// notification on the channel, then a room-list refetch. The active
// selector is cleared only when it pointed at the room being left.
func (d *Dispatcher) LeaveRoom(ctx context.Context, roomID int64) error {
	if err := d.api.LeaveRoom(ctx, roomID); err != nil {
		return err
	}

	if d.ch.Connected() {
		if err := d.ch.LeaveRoom(roomID); err != nil {
			d.log.Warn().Err(err).Int64("room_id", roomID).Msg("leave notification failed")
		}
	}

	rooms, err := d.api.Rooms(ctx)
	if err != nil {
		d.log.Warn().Err(err).Msg("room list refresh after leave failed")
	} else {
		d.state.SetRooms(rooms)
	}

	if d.state.Active().IsRoom(roomID) {
		d.state.ClearActive()
		d.r.ActiveChanged()
		d.r.MessagesChanged()
	}
	d.r.SidebarChanged()
	return nil
}

// LeaveActiveRoom leaves the currently viewed room.
func (d *Dispatcher) LeaveActiveRoom(ctx context.Context) error {
	active := d.state.Active()
	if active.Kind != models.KindRoom {
		return ErrNotARoom
	}
	return d.LeaveRoom(ctx, active.ID)
}

// RemoveContact unsaves a contact. The local list changes only after
// the server confirms; the active conversation is cleared when it was
// the removed contact.
func (d *Dispatcher) RemoveContact(ctx context.Context, userID int64) error {
	if err := d.api.RemoveContact(ctx, userID); err != nil {
		return err
	}
	d.state.RemoveContact(userID)

	active := d.state.Active()
	if active.Kind == models.KindDM && active.ID == userID {
		d.state.ClearActive()
		d.r.ActiveChanged()
		d.r.MessagesChanged()
	}
	d.r.SidebarChanged()
	return nil
}
