package auth

import (
	"context"
	"errors"

	"roombook/internal/directory"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/logger"
	"roombook/pkg/token"
)

type Role string

const (
	RoleAdmin          Role = "admin"
	RoleManager        Role = "manager"
	RoleRegular        Role = "regular"
	RoleAuditor        Role = "auditor"
	RoleServiceAccount Role = "service_account"
)

// ParseRole maps an arbitrary role string onto a known role. Unknown values
// fall back to regular, the least privileged human role.
func ParseRole(raw string) Role {
	switch Role(raw) {
	case RoleAdmin, RoleManager, RoleRegular, RoleAuditor, RoleServiceAccount:
		return Role(raw)
	default:
		return RoleRegular
	}
}

type Operation string

const (
	OpCreate      Operation = "booking.create"
	OpCheckAvail  Operation = "booking.check_availability"
	OpRead        Operation = "booking.read"
	OpList        Operation = "booking.list"
	OpReadStats   Operation = "booking.stats"
	OpUpdate      Operation = "booking.update"
	OpCancel      Operation = "booking.cancel"
	OpOverride    Operation = "booking.override"
	OpDelete      Operation = "booking.delete"
	OpRoomListing Operation = "booking.room_listing"
)

// rule describes who may perform an operation. roles grants unconditionally;
// ownerAllowed additionally admits the booking's owner regardless of role.
type rule struct {
	roles        map[Role]bool
	ownerAllowed bool
	anyRole      bool
}

var permissions = map[Operation]rule{
	OpCreate:     {anyRole: true},
	OpCheckAvail: {anyRole: true},
	OpRead: {
		roles:        map[Role]bool{RoleAdmin: true, RoleManager: true, RoleAuditor: true},
		ownerAllowed: true,
	},
	OpList: {
		roles: map[Role]bool{RoleAdmin: true, RoleManager: true, RoleAuditor: true},
	},
	OpReadStats: {
		roles: map[Role]bool{RoleAdmin: true, RoleManager: true, RoleAuditor: true},
	},
	OpUpdate: {
		roles:        map[Role]bool{RoleAdmin: true, RoleManager: true},
		ownerAllowed: true,
	},
	OpCancel: {
		roles:        map[Role]bool{RoleAdmin: true, RoleManager: true},
		ownerAllowed: true,
	},
	OpOverride: {
		roles: map[Role]bool{RoleAdmin: true, RoleManager: true},
	},
	OpDelete: {
		roles: map[Role]bool{RoleAdmin: true},
	},
	OpRoomListing: {
		roles: map[Role]bool{RoleServiceAccount: true},
	},
}

// Gate decides whether a caller may perform a booking operation. Role comes
// from the verified token; ownership is resolved against the user directory
// so a forged user id in a token body cannot claim someone else's bookings.
type Gate struct {
	users directory.UserDirectory
	log   *logger.Logger
}

func NewGate(users directory.UserDirectory, log *logger.Logger) *Gate {
	return &Gate{users: users, log: log}
}

// ResolveIdentity looks the caller up in the user directory. The gate fails
// closed: an unreachable directory denies the request rather than guessing.
func (g *Gate) ResolveIdentity(ctx context.Context, claims *token.Claims) (*directory.User, error) {
	if claims == nil || claims.Subject == "" {
		return nil, apperrors.Unauthorized("Authentication required")
	}

	user, err := g.users.ResolveUser(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			g.log.Warn("Token subject not found in user directory", "subject", claims.Subject)
			return nil, apperrors.NotFoundWithID("User", claims.Subject)
		}
		g.log.Error("User directory lookup failed", "subject", claims.Subject, "error", err)
		return nil, apperrors.Unavailable("Users service")
	}
	return user, nil
}

// Authorize checks the permission table for op. ownerID is the booking
// owner's user id for owner-scoped operations, empty otherwise.
func (g *Gate) Authorize(ctx context.Context, claims *token.Claims, op Operation, ownerID string) (*directory.User, error) {
	if claims == nil {
		return nil, apperrors.Unauthorized("Authentication required")
	}

	r, ok := permissions[op]
	if !ok {
		g.log.Error("No permission rule registered for operation", "operation", op)
		return nil, apperrors.Forbidden("Operation not permitted")
	}

	role := ParseRole(claims.Role)

	if r.anyRole {
		return g.resolveForAudit(ctx, claims)
	}

	if r.roles[role] {
		return g.resolveForAudit(ctx, claims)
	}

	if r.ownerAllowed && ownerID != "" {
		user, err := g.ResolveIdentity(ctx, claims)
		if err != nil {
			if apperrors.IsCode(err, apperrors.CodeNotFound) {
				// Cannot establish who the caller is, so cannot establish
				// ownership. Deny.
				return nil, apperrors.Forbidden("You do not have permission to perform this operation")
			}
			return nil, err
		}
		if user.ID == ownerID {
			return user, nil
		}
	}

	g.log.Warn("Operation denied",
		"operation", op,
		"subject", claims.Subject,
		"role", string(role),
	)
	return nil, apperrors.Forbidden("You do not have permission to perform this operation")
}

// resolveForAudit confirms the caller still exists before granting role-based
// access. Deactivated accounts keep valid tokens until expiry; the directory
// is the source of truth.
func (g *Gate) resolveForAudit(ctx context.Context, claims *token.Claims) (*directory.User, error) {
	user, err := g.ResolveIdentity(ctx, claims)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			return nil, apperrors.Forbidden("You do not have permission to perform this operation")
		}
		return nil, err
	}
	return user, nil
}
