package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/apperror"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/appctx"
)

func ctxWithRole(role appctx.Role) context.Context {
	return appctx.WithActor(context.Background(), &appctx.Actor{
		UserID:   "u-1",
		Role:     role,
		Approved: role == appctx.RoleCustomer,
	})
}

func TestAuthorize_RoleMatrix(t *testing.T) {
	tests := []struct {
		name string
		op   Operation
		role appctx.Role
		want bool
	}{
		{"admin adjusts stock", OpStockAdjust, appctx.RoleAdmin, true},
		{"store staff adjusts stock", OpStockAdjust, appctx.RoleStoreStaff, true},
		{"shop staff cannot adjust stock", OpStockAdjust, appctx.RoleShopStaff, false},
		{"customer cannot adjust stock", OpStockAdjust, appctx.RoleCustomer, false},

		{"shop staff records sale", OpSaleRecord, appctx.RoleShopStaff, true},
		{"customer cannot record sale", OpSaleRecord, appctx.RoleCustomer, false},

		{"customer creates order", OpOrderCreate, appctx.RoleCustomer, true},
		{"admin cannot create order", OpOrderCreate, appctx.RoleAdmin, false},
		{"store staff cannot create order", OpOrderCreate, appctx.RoleStoreStaff, false},

		{"store staff approves order", OpOrderApprove, appctx.RoleStoreStaff, true},
		{"shop staff cannot approve order", OpOrderApprove, appctx.RoleShopStaff, false},
		{"store staff fulfills order", OpOrderFulfill, appctx.RoleStoreStaff, true},
		{"customer cannot fulfill order", OpOrderFulfill, appctx.RoleCustomer, false},

		{"only admin writes locations", OpLocationWrite, appctx.RoleAdmin, true},
		{"store staff cannot write locations", OpLocationWrite, appctx.RoleStoreStaff, false},

		{"shop staff reads snapshots", OpSnapshotRead, appctx.RoleShopStaff, true},
		{"shop staff cannot override snapshots", OpSnapshotOverride, appctx.RoleShopStaff, false},
		{"admin overrides snapshots", OpSnapshotOverride, appctx.RoleAdmin, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(ctxWithRole(tt.role), tt.op)
			if tt.want {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestAuthorize_FailsClosedWithoutActor(t *testing.T) {
	err := Authorize(context.Background(), OpStockRead)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestAuthorize_FailsClosedForUnknownRole(t *testing.T) {
	ctx := appctx.WithActor(context.Background(), &appctx.Actor{
		UserID: "u-1",
		Role:   appctx.Role("superuser"),
	})
	err := Authorize(ctx, OpStockRead)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodePermissionDenied, appErr.Code)
}

func TestAuthorize_UnapprovedCustomerDenied(t *testing.T) {
	ctx := appctx.WithActor(context.Background(), &appctx.Actor{
		UserID:   "c-1",
		Role:     appctx.RoleCustomer,
		Approved: false,
	})
	err := Authorize(ctx, OpOrderCreate)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodePermissionDenied, appErr.Code)
}

func TestAuthorizeLocation_ShopStaffScoping(t *testing.T) {
	own := "2f0c7b1a-0000-7000-8000-000000000001"
	other := "2f0c7b1a-0000-7000-8000-000000000002"

	ctx := appctx.WithActor(context.Background(), &appctx.Actor{
		UserID:     "u-1",
		Role:       appctx.RoleShopStaff,
		LocationID: own,
	})

	assert.NoError(t, AuthorizeLocation(ctx, OpStockRead, own))
	assert.Error(t, AuthorizeLocation(ctx, OpStockRead, other))

	// Elevated roles are not location-scoped.
	adminCtx := ctxWithRole(appctx.RoleAdmin)
	assert.NoError(t, AuthorizeLocation(adminCtx, OpStockRead, other))
}
