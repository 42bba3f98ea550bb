package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// setupClient starts a test server with the given handler and returns a
// client pointed at it.
func setupClient(t *testing.T, handler http.HandlerFunc) (*Client, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	c := New(srv.URL, 5*time.Second, zerolog.Nop())
	return c, srv.Close
}

func TestLoginRequest(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody map[string]string

	c, cleanup := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("request body did not decode: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"user":  map[string]any{"id": 1, "name": "alice", "email": "alice@example.com"},
			"token": "tok-123",
		})
	})
	defer cleanup()

	user, token, err := c.Login(context.Background(), "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/login" {
		t.Errorf("request = %s %s, want POST /api/login", gotMethod, gotPath)
	}
	if gotBody["email"] != "alice@example.com" || gotBody["password"] != "secret" {
		t.Errorf("request body = %v", gotBody)
	}
	if user.Name != "alice" || token != "tok-123" {
		t.Errorf("Login returned %+v / %q", user, token)
	}
}

func TestBearerHeader(t *testing.T) {
	var gotAuth string
	c, cleanup := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"id": 1, "name": "alice"})
	})
	defer cleanup()

	c.SetToken("tok-456")
	if _, err := c.Me(context.Background()); err != nil {
		t.Fatalf("Me failed: %v", err)
	}
	if gotAuth != "Bearer tok-456" {
		t.Errorf("Authorization header = %q, want Bearer tok-456", gotAuth)
	}
}

func TestNoTokenNoHeader(t *testing.T) {
	var gotAuth string
	c, cleanup := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("[]"))
	})
	defer cleanup()

	if _, err := c.Rooms(context.Background()); err != nil {
		t.Fatalf("Rooms failed: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization header sent without a token: %q", gotAuth)
	}
}

func TestErrorDecoding(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"detail field", 400, `{"detail": "email already registered"}`, "email already registered"},
		{"error field", 403, `{"error": "not a member"}`, "not a member"},
		{"no message", 500, `<html>oops</html>`, "HTTP 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, cleanup := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			defer cleanup()

			_, err := c.Me(context.Background())
			if err == nil {
				t.Fatalf("expected an error for status %d", tt.status)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("error message = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestIsAuth(t *testing.T) {
	c, cleanup := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "invalid token"}`))
	})
	defer cleanup()

	_, err := c.Me(context.Background())
	if !IsAuth(err) {
		t.Errorf("IsAuth(%v) = false, want true", err)
	}
	if IsAuth(&Error{Status: 500}) {
		t.Errorf("IsAuth treats a server error as an auth failure")
	}
	if IsAuth(nil) {
		t.Errorf("IsAuth(nil) = true")
	}
}

func TestRoutePaths(t *testing.T) {
	var paths []string
	c, cleanup := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.RequestURI())
		w.Write([]byte("{}"))
	})
	defer cleanup()

	ctx := context.Background()
	c.JoinRoom(ctx, 7)
	c.LeaveRoom(ctx, 7)
	c.RoomMessages(ctx, 7)
	c.DMMessages(ctx, 42)
	c.FindUserByEmail(ctx, "bob+test@example.com")
	c.ActiveCount(ctx)
	c.Contacts(ctx)
	c.AddContact(ctx, "bob+test@example.com")
	c.RemoveContact(ctx, 42)

	want := []string{
		"POST /api/rooms/7/join",
		"POST /api/rooms/7/leave",
		"GET /api/messages/room/7",
		"GET /api/messages/dm/42",
		"GET /api/users/find?email=bob%2Btest%40example.com",
		"GET /api/active-count",
		"GET /api/dm/list",
		"POST /api/dm/add?email=bob%2Btest%40example.com",
		"POST /api/dm/remove/42",
	}
	if len(paths) != len(want) {
		t.Fatalf("issued %d requests, want %d: %v", len(paths), len(want), paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("request %d = %q, want %q", i, paths[i], want[i])
		}
	}
}
