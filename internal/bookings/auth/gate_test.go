package auth

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"roombook/internal/directory"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/logger"
	"roombook/pkg/token"
)

type mockUserDirectory struct {
	resolveFn func(ctx context.Context, identifier string) (*directory.User, error)
}

func (m *mockUserDirectory) ResolveUser(ctx context.Context, identifier string) (*directory.User, error) {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, identifier)
	}
	return &directory.User{ID: identifier, Username: identifier, Role: "regular"}, nil
}

func newTestGate(users directory.UserDirectory) *Gate {
	log := logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT})
	return NewGate(users, log)
}

func claimsFor(subject, role string) *token.Claims {
	return &token.Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: subject,
		},
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		raw  string
		want Role
	}{
		{"admin", RoleAdmin},
		{"manager", RoleManager},
		{"regular", RoleRegular},
		{"auditor", RoleAuditor},
		{"service_account", RoleServiceAccount},
		{"superuser", RoleRegular},
		{"", RoleRegular},
	}

	for _, tt := range tests {
		if got := ParseRole(tt.raw); got != tt.want {
			t.Errorf("ParseRole(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestAuthorize_PermissionMatrix(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		op       Operation
		subject  string
		ownerID  string
		wantCode string
	}{
		{"any role can create", "regular", OpCreate, "alice", "", ""},
		{"service account can create", "service_account", OpCreate, "svc", "", ""},

		{"owner reads own booking", "regular", OpRead, "alice", "alice", ""},
		{"regular cannot read another's booking", "regular", OpRead, "alice", "bob", apperrors.CodeForbidden},
		{"admin reads any booking", "admin", OpRead, "root", "bob", ""},
		{"auditor reads any booking", "auditor", OpRead, "audit", "bob", ""},

		{"admin lists bookings", "admin", OpList, "root", "", ""},
		{"manager lists bookings", "manager", OpList, "mgr", "", ""},
		{"auditor lists bookings", "auditor", OpList, "audit", "", ""},
		{"regular cannot list bookings", "regular", OpList, "alice", "", apperrors.CodeForbidden},

		{"auditor reads statistics", "auditor", OpReadStats, "audit", "", ""},
		{"regular cannot read statistics", "regular", OpReadStats, "alice", "", apperrors.CodeForbidden},

		{"owner updates own booking", "regular", OpUpdate, "alice", "alice", ""},
		{"regular cannot update another's booking", "regular", OpUpdate, "alice", "bob", apperrors.CodeForbidden},
		{"manager updates any booking", "manager", OpUpdate, "mgr", "bob", ""},

		{"owner cancels own booking", "regular", OpCancel, "alice", "alice", ""},
		{"admin cancels any booking", "admin", OpCancel, "root", "bob", ""},

		{"manager overrides", "manager", OpOverride, "mgr", "", ""},
		{"regular cannot override", "regular", OpOverride, "alice", "", apperrors.CodeForbidden},
		{"owner cannot override own booking", "regular", OpOverride, "alice", "alice", apperrors.CodeForbidden},
		{"auditor cannot override", "auditor", OpOverride, "audit", "", apperrors.CodeForbidden},

		{"admin deletes", "admin", OpDelete, "root", "", ""},
		{"manager cannot delete", "manager", OpDelete, "mgr", "", apperrors.CodeForbidden},

		{"service account lists room bookings", "service_account", OpRoomListing, "svc", "", ""},
		{"admin cannot use internal room listing", "admin", OpRoomListing, "root", "", apperrors.CodeForbidden},
	}

	gate := newTestGate(&mockUserDirectory{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := gate.Authorize(context.Background(), claimsFor(tt.subject, tt.role), tt.op, tt.ownerID)
			if tt.wantCode != "" {
				if err == nil {
					t.Fatal("expected denial, got nil error")
				}
				if !apperrors.IsCode(err, tt.wantCode) {
					t.Fatalf("expected %s, got: %v", tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Authorize() unexpected error: %v", err)
			}
			if user == nil {
				t.Fatal("Authorize() returned nil user on grant")
			}
		})
	}
}

func TestAuthorize_MissingClaims(t *testing.T) {
	gate := newTestGate(&mockUserDirectory{})

	_, err := gate.Authorize(context.Background(), nil, OpCreate, "")
	if !apperrors.IsCode(err, apperrors.CodeUnauthorized) {
		t.Errorf("expected unauthorized, got: %v", err)
	}
}

func TestAuthorize_FailsClosed(t *testing.T) {
	t.Run("directory unavailable denies with 503", func(t *testing.T) {
		gate := newTestGate(&mockUserDirectory{
			resolveFn: func(ctx context.Context, identifier string) (*directory.User, error) {
				return nil, directory.ErrUnavailable
			},
		})

		_, err := gate.Authorize(context.Background(), claimsFor("alice", "regular"), OpRead, "alice")
		if !apperrors.IsCode(err, apperrors.CodeUnavailable) {
			t.Errorf("expected service unavailable, got: %v", err)
		}
	})

	t.Run("unknown subject denied", func(t *testing.T) {
		gate := newTestGate(&mockUserDirectory{
			resolveFn: func(ctx context.Context, identifier string) (*directory.User, error) {
				return nil, directory.ErrNotFound
			},
		})

		_, err := gate.Authorize(context.Background(), claimsFor("ghost", "regular"), OpRead, "ghost")
		if !apperrors.IsCode(err, apperrors.CodeForbidden) {
			t.Errorf("expected forbidden, got: %v", err)
		}
	})

	t.Run("deactivated admin denied on role grant", func(t *testing.T) {
		gate := newTestGate(&mockUserDirectory{
			resolveFn: func(ctx context.Context, identifier string) (*directory.User, error) {
				return nil, directory.ErrNotFound
			},
		})

		_, err := gate.Authorize(context.Background(), claimsFor("ex-admin", "admin"), OpList, "")
		if !apperrors.IsCode(err, apperrors.CodeForbidden) {
			t.Errorf("expected forbidden, got: %v", err)
		}
	})
}

func TestResolveIdentity(t *testing.T) {
	t.Run("resolves subject", func(t *testing.T) {
		gate := newTestGate(&mockUserDirectory{})

		user, err := gate.ResolveIdentity(context.Background(), claimsFor("alice", "regular"))
		if err != nil {
			t.Fatalf("ResolveIdentity() unexpected error: %v", err)
		}
		if user.ID != "alice" {
			t.Errorf("user id = %q, want alice", user.ID)
		}
	})

	t.Run("empty subject unauthorized", func(t *testing.T) {
		gate := newTestGate(&mockUserDirectory{})

		_, err := gate.ResolveIdentity(context.Background(), claimsFor("", "regular"))
		if !apperrors.IsCode(err, apperrors.CodeUnauthorized) {
			t.Errorf("expected unauthorized, got: %v", err)
		}
	})
}
