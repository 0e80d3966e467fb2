// Package directory talks to the external user and room services. The
// booking engine never dereferences user or room identifiers itself; these
// lookups are its only view of either resource.
package directory

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"roombook/pkg/client"
	"roombook/pkg/logger"
	"roombook/pkg/middleware"
)

var (
	// ErrNotFound means the collaborator answered and the resource does not
	// exist. ErrUnavailable means the collaborator could not answer; callers
	// must not treat it as either existence or absence.
	ErrNotFound    = errors.New("resource not found")
	ErrUnavailable = errors.New("directory service unavailable")
)

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type Room struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
	Capacity int    `json:"capacity"`
}

type UserDirectory interface {
	ResolveUser(ctx context.Context, identifier string) (*User, error)
}

type RoomDirectory interface {
	ResolveRoom(ctx context.Context, roomID string) (*Room, error)
}

type userClient struct {
	http *client.HttpClient
	log  *logger.Logger
}

type roomClient struct {
	http *client.HttpClient
	log  *logger.Logger
}

func NewUserDirectory(baseURL string, timeout time.Duration, log *logger.Logger) UserDirectory {
	return &userClient{
		http: client.NewHttpClient(baseURL, timeout),
		log:  log,
	}
}

func NewRoomDirectory(baseURL string, timeout time.Duration, log *logger.Logger) RoomDirectory {
	return &roomClient{
		http: client.NewHttpClient(baseURL, timeout),
		log:  log,
	}
}

// fetch forwards the caller's bearer token when the request context carries
// one; the user and room services authenticate with the same shared secret.
func fetch(ctx context.Context, hc *client.HttpClient, path string) (*client.Response, error) {
	if raw := middleware.BearerFromContext(ctx); raw != "" {
		return hc.GETWithToken(ctx, path, raw)
	}
	return hc.GET(ctx, path)
}

func (c *userClient) ResolveUser(ctx context.Context, identifier string) (*User, error) {
	if identifier == "" {
		return nil, ErrNotFound
	}

	resp, err := fetch(ctx, c.http, "/api/v1/users/"+url.PathEscape(identifier))
	if err != nil {
		c.log.Warn("User lookup failed", "identifier", identifier, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		c.log.Warn("User lookup returned unexpected status", "identifier", identifier, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var user User
	if err := resp.DecodeJSON(&user); err != nil {
		return nil, fmt.Errorf("%w: malformed user payload: %v", ErrUnavailable, err)
	}
	if user.ID == "" {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (c *roomClient) ResolveRoom(ctx context.Context, roomID string) (*Room, error) {
	if roomID == "" {
		return nil, ErrNotFound
	}

	resp, err := fetch(ctx, c.http, "/api/v1/rooms/"+url.PathEscape(roomID))
	if err != nil {
		c.log.Warn("Room lookup failed", "room_id", roomID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		c.log.Warn("Room lookup returned unexpected status", "room_id", roomID, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var room Room
	if err := resp.DecodeJSON(&room); err != nil {
		return nil, fmt.Errorf("%w: malformed room payload: %v", ErrUnavailable, err)
	}
	if room.ID == "" {
		return nil, ErrNotFound
	}
	return &room, nil
}
