package directory

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"roombook/pkg/logger"
	"roombook/pkg/middleware"
)

func testLog() *logger.Logger {
	return logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT})
}

func TestResolveUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/users/alice":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"alice","username":"alice","role":"regular"}`))
		case "/api/v1/users/ghost":
			w.WriteHeader(http.StatusNotFound)
		case "/api/v1/users/broken":
			w.WriteHeader(http.StatusInternalServerError)
		case "/api/v1/users/garbled":
			_, _ = w.Write([]byte(`{not json`))
		case "/api/v1/users/hollow":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"","username":""}`))
		}
	}))
	defer server.Close()

	users := NewUserDirectory(server.URL, 2*time.Second, testLog())

	tests := []struct {
		name       string
		identifier string
		wantErr    error
	}{
		{"known user", "alice", nil},
		{"unknown user", "ghost", ErrNotFound},
		{"server error", "broken", ErrUnavailable},
		{"malformed payload", "garbled", ErrUnavailable},
		{"payload without id", "hollow", ErrNotFound},
		{"empty identifier", "", ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := users.ResolveUser(context.Background(), tt.identifier)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ResolveUser(%q) error = %v, want %v", tt.identifier, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveUser(%q) unexpected error: %v", tt.identifier, err)
			}
			if user.ID != tt.identifier {
				t.Errorf("user id = %q, want %q", user.ID, tt.identifier)
			}
		})
	}
}

func TestResolveUser_ForwardsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"alice","username":"alice","role":"regular"}`))
	}))
	defer server.Close()

	users := NewUserDirectory(server.URL, 2*time.Second, testLog())

	t.Run("token in context is forwarded", func(t *testing.T) {
		ctx := middleware.ContextWithBearer(context.Background(), "signed-token")

		if _, err := users.ResolveUser(ctx, "alice"); err != nil {
			t.Fatalf("ResolveUser() unexpected error: %v", err)
		}
		if gotAuth != "Bearer signed-token" {
			t.Errorf("Authorization header = %q, want the caller's bearer token", gotAuth)
		}
	})

	t.Run("no token means no header", func(t *testing.T) {
		if _, err := users.ResolveUser(context.Background(), "alice"); err != nil {
			t.Fatalf("ResolveUser() unexpected error: %v", err)
		}
		if gotAuth != "" {
			t.Errorf("Authorization header = %q, want empty", gotAuth)
		}
	})
}

func TestResolveUser_ServiceDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	users := NewUserDirectory(server.URL, time.Second, testLog())

	_, err := users.ResolveUser(context.Background(), "alice")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("ResolveUser against dead server error = %v, want ErrUnavailable", err)
	}
}

func TestResolveRoom(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/rooms/room-1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"room-1","name":"Boardroom","is_active":true,"capacity":12}`))
		case "/api/v1/rooms/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer server.Close()

	rooms := NewRoomDirectory(server.URL, 2*time.Second, testLog())

	t.Run("known room", func(t *testing.T) {
		room, err := rooms.ResolveRoom(context.Background(), "room-1")
		if err != nil {
			t.Fatalf("ResolveRoom() unexpected error: %v", err)
		}
		if !room.IsActive || room.Capacity != 12 {
			t.Errorf("room = %+v, want active with capacity 12", room)
		}
	})

	t.Run("missing room", func(t *testing.T) {
		_, err := rooms.ResolveRoom(context.Background(), "missing")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("gateway error is unavailable", func(t *testing.T) {
		_, err := rooms.ResolveRoom(context.Background(), "flaky")
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("error = %v, want ErrUnavailable", err)
		}
	})
}
