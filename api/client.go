// Package api is the REST client for the chat backend. One method per
// endpoint; every authenticated call carries the session token as a
// bearer header.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"parley/models"
)

// Error is a failed backend call. The backend reports failures as
// {"detail": ...} or {"error": ...} payloads.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// IsAuth reports whether err is an authentication failure (bad
// credentials or an expired token).
func IsAuth(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// Client talks to the backend's /api routes. The token is read by
// every request and replaced only on login, register and logout.
type Client struct {
	base string
	http *http.Client
	log  zerolog.Logger

	mu    sync.RWMutex
	token string
}

func New(serverURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		base: strings.TrimRight(serverURL, "/"),
		http: &http.Client{Timeout: timeout},
		log:  log,
	}
}

// SetToken replaces the session token. An empty token means
// unauthenticated.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current session token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// ServerURL returns the backend root, also used to derive the push
// channel address and absolute attachment URLs.
func (c *Client) ServerURL() string {
	return c.base
}

type authResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

func (c *Client) Register(ctx context.Context, name, email, password string) (models.User, string, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/register", body, &resp); err != nil {
		return models.User{}, "", err
	}
	return resp.User, resp.Token, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (models.User, string, error) {
	body := map[string]string{"email": email, "password": password}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/login", body, &resp); err != nil {
		return models.User{}, "", err
	}
	return resp.User, resp.Token, nil
}

// Me fetches the current user, validating the stored token.
func (c *Client) Me(ctx context.Context) (models.User, error) {
	var u models.User
	err := c.do(ctx, http.MethodGet, "/me", nil, &u)
	return u, err
}

// Rooms lists the rooms the current user has joined.
func (c *Client) Rooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	err := c.do(ctx, http.MethodGet, "/rooms", nil, &rooms)
	return rooms, err
}

func (c *Client) CreateRoom(ctx context.Context, name string) (models.Room, error) {
	var room models.Room
	err := c.do(ctx, http.MethodPost, "/rooms", map[string]string{"name": name}, &room)
	return room, err
}

func (c *Client) JoinRoom(ctx context.Context, roomID int64) error {
	return c.do(ctx, http.MethodPost, "/rooms/"+strconv.FormatInt(roomID, 10)+"/join", nil, nil)
}

func (c *Client) LeaveRoom(ctx context.Context, roomID int64) error {
	return c.do(ctx, http.MethodPost, "/rooms/"+strconv.FormatInt(roomID, 10)+"/leave", nil, nil)
}

// RoomMessages fetches the full history of a room in server order.
func (c *Client) RoomMessages(ctx context.Context, roomID int64) ([]models.Message, error) {
	var msgs []models.Message
	err := c.do(ctx, http.MethodGet, "/messages/room/"+strconv.FormatInt(roomID, 10), nil, &msgs)
	return msgs, err
}

// DMMessages fetches the direct-message history with another user.
func (c *Client) DMMessages(ctx context.Context, userID int64) ([]models.Message, error) {
	var msgs []models.Message
	err := c.do(ctx, http.MethodGet, "/messages/dm/"+strconv.FormatInt(userID, 10), nil, &msgs)
	return msgs, err
}

func (c *Client) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := c.do(ctx, http.MethodGet, "/users/find?email="+url.QueryEscape(email), nil, &u)
	return u, err
}

// ActiveCount fetches the advisory count of active sessions.
func (c *Client) ActiveCount(ctx context.Context) (int, error) {
	var resp struct {
		Active int `json:"active"`
	}
	err := c.do(ctx, http.MethodGet, "/active-count", nil, &resp)
	return resp.Active, err
}

// Contacts lists the saved direct-message contacts.
func (c *Client) Contacts(ctx context.Context) ([]models.Contact, error) {
	var contacts []models.Contact
	err := c.do(ctx, http.MethodGet, "/dm/list", nil, &contacts)
	return contacts, err
}

// AddContact saves a contact by email. The call is idempotent: the
// backend returns the existing record when the contact is already
// saved.
func (c *Client) AddContact(ctx context.Context, email string) (models.Contact, error) {
	var contact models.Contact
	err := c.do(ctx, http.MethodPost, "/dm/add?email="+url.QueryEscape(email), nil, &contact)
	return contact, err
}

func (c *Client) RemoveContact(ctx context.Context, userID int64) error {
	return c.do(ctx, http.MethodPost, "/dm/remove/"+strconv.FormatInt(userID, 10), nil, nil)
}

// do issues a JSON request against an /api route and decodes the
// response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+"/api"+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Debug().Int("status", resp.StatusCode).Str("path", path).Msg("api request failed")
		return decodeError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

func decodeError(status int, data []byte) error {
	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	msg := ""
	if json.Unmarshal(data, &payload) == nil {
		if payload.Detail != "" {
			msg = payload.Detail
		} else if payload.Error != "" {
			msg = payload.Error
		}
	}
	return &Error{Status: status, Message: msg}
}
