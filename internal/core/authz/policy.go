// Package authz holds the single authorization decision point for the core.
// Every service entry point consults Authorize exactly once instead of
// scattering inline role checks across call sites.
package authz

import (
	"context"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/apperror"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/appctx"
)

// Operation names a privileged action in the core.
type Operation string

const (
	OpProductWrite     Operation = "product:write"
	OpLocationWrite    Operation = "location:write"
	OpStockRead        Operation = "stock:read"
	OpStockAdjust      Operation = "stock:adjust"
	OpSnapshotRead     Operation = "snapshot:read"
	OpSnapshotOverride Operation = "snapshot:override"
	OpSaleRecord       Operation = "sale:record"
	OpSaleRead         Operation = "sale:read"
	OpOrderCreate      Operation = "order:create"
	OpOrderApprove     Operation = "order:approve"
	OpOrderReject      Operation = "order:reject"
	OpOrderFulfill     Operation = "order:fulfill"
	OpReportRead       Operation = "report:read"
)

// allowed maps each operation to the roles permitted to perform it.
var allowed = map[Operation][]appctx.Role{
	OpProductWrite:     {appctx.RoleAdmin, appctx.RoleStoreStaff},
	OpLocationWrite:    {appctx.RoleAdmin},
	OpStockRead:        {appctx.RoleAdmin, appctx.RoleStoreStaff, appctx.RoleShopStaff},
	OpStockAdjust:      {appctx.RoleAdmin, appctx.RoleStoreStaff},
	OpSnapshotRead:     {appctx.RoleAdmin, appctx.RoleStoreStaff, appctx.RoleShopStaff},
	OpSnapshotOverride: {appctx.RoleAdmin, appctx.RoleStoreStaff},
	OpSaleRecord:       {appctx.RoleAdmin, appctx.RoleStoreStaff, appctx.RoleShopStaff},
	OpSaleRead:         {appctx.RoleAdmin, appctx.RoleStoreStaff, appctx.RoleShopStaff},
	OpOrderCreate:      {appctx.RoleCustomer},
	OpOrderApprove:     {appctx.RoleAdmin, appctx.RoleStoreStaff},
	OpOrderReject:      {appctx.RoleAdmin, appctx.RoleStoreStaff},
	OpOrderFulfill:     {appctx.RoleAdmin, appctx.RoleStoreStaff},
	OpReportRead:       {appctx.RoleAdmin, appctx.RoleStoreStaff, appctx.RoleShopStaff},
}

// Authorize decides whether the actor in ctx may perform op.
// Fails closed: no actor, or a role outside the table, is denied.
func Authorize(ctx context.Context, op Operation) error {
	actor := appctx.GetActor(ctx)
	if actor == nil {
		return apperror.NewUnauthorized("authentication required")
	}

	// Customers must additionally be account-approved; the flag is
	// resolved by the identity collaborator and carried on the actor.
	if actor.Role == appctx.RoleCustomer && !actor.Approved {
		return apperror.NewPermissionDenied("customer account is not approved").
			WithDetail("operation", string(op))
	}

	for _, role := range allowed[op] {
		if actor.Role == role {
			return nil
		}
	}

	return apperror.NewPermissionDenied("operation not permitted for role").
		WithDetail("operation", string(op)).
		WithDetail("role", string(actor.Role))
}

// AuthorizeLocation decides op plus location scoping: shop staff may
// only act on their own location, while admin and store staff act on any.
func AuthorizeLocation(ctx context.Context, op Operation, locationID string) error {
	if err := Authorize(ctx, op); err != nil {
		return err
	}

	actor := appctx.GetActor(ctx)
	if actor.Role == appctx.RoleShopStaff && actor.LocationID != locationID {
		return apperror.NewPermissionDenied("operation limited to assigned location").
			WithDetail("operation", string(op)).
			WithDetail("location_id", locationID)
	}
	return nil
}
