// Package appctx provides request-scoped values extraction.
package appctx

import (
	"context"
)

// Role identifies the caller's resolved role. Resolution itself is the
// identity collaborator's job; the core only consumes the result.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleStoreStaff Role = "store_staff"
	RoleShopStaff  Role = "shop_staff"

	// RoleCustomer is an external wholesale customer (a request whose
	// token carries no staff role).
	RoleCustomer Role = "customer"
)

// Actor contains the authenticated caller's identity as supplied by the
// external identity provider: user id, role and home location, plus the
// approved flag for wholesale customers.
type Actor struct {
	UserID     string
	Name       string
	Role       Role
	LocationID string
	Approved   bool
}

// IsStaff reports whether the actor holds any staff role.
func (a *Actor) IsStaff() bool {
	switch a.Role {
	case RoleAdmin, RoleStoreStaff, RoleShopStaff:
		return true
	}
	return false
}

// IsElevated reports whether the actor may perform privileged
// operations such as manual stock adjustment.
func (a *Actor) IsElevated() bool {
	return a.Role == RoleAdmin || a.Role == RoleStoreStaff
}

type actorContextKey struct{}

// WithActor adds Actor to context.
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// GetActor returns Actor from context.
func GetActor(ctx context.Context) *Actor {
	if v, ok := ctx.Value(actorContextKey{}).(*Actor); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if a := GetActor(ctx); a != nil {
		return a.UserID
	}
	return ""
}

// GetRole returns the actor's role, or RoleCustomer when no actor is present.
func GetRole(ctx context.Context) Role {
	if a := GetActor(ctx); a != nil {
		return a.Role
	}
	return RoleCustomer
}

// HasRole checks if the actor holds a specific role.
func HasRole(ctx context.Context, role Role) bool {
	a := GetActor(ctx)
	return a != nil && a.Role == role
}
