package store

import (
	"context"
	"errors"

	"iotadmin-service/internal/model"
)

// Sentinel errors returned by the stores. Anything else coming out of a
// store method is a storage failure and is propagated as-is.
var (
	ErrTenantNotFound = errors.New("tenant not found")
	ErrDeviceNotFound = errors.New("device not found")
)

// TenantPatch carries the fields supplied in a partial tenant update.
// A nil field means "not supplied"; this service never supports clearing
// a required field, so nil is the only no-op signal.
type TenantPatch struct {
	Name          *string
	ContactPerson *string
	ContactEmail  *string
	Status        *model.TenantStatus
}

// DevicePatch carries the fields supplied in a partial device update
type DevicePatch struct {
	Name         *string
	DeviceType   *string
	SerialNumber *string
	Status       *model.DeviceStatus
	TenantID     *uint
}

// DashboardStats holds the aggregate counts reported by the dashboard
type DashboardStats struct {
	TotalTenants  int64 `json:"total_tenants"`
	ActiveTenants int64 `json:"active_tenants"`
	TotalDevices  int64 `json:"total_devices"`
	OnlineDevices int64 `json:"online_devices"`
}

// TenantStore is the persistence boundary for tenants.
//
// GetByID returns (nil, nil) when the tenant does not exist; absence is a
// valid outcome for lookups, not an error. Update and Delete run their
// existence check and write inside one transaction, so a concurrent delete
// cannot slip between the check and the write. Delete cascades to the
// tenant's devices in the same transaction and reports how many it removed.
type TenantStore interface {
	Create(ctx context.Context, tenant *model.Tenant) error
	GetByID(ctx context.Context, id uint) (*model.Tenant, error)
	List(ctx context.Context) ([]model.Tenant, error)
	Update(ctx context.Context, id uint, patch TenantPatch) (*model.Tenant, error)
	Delete(ctx context.Context, id uint) (devicesDeleted int64, err error)
}

// DeviceStore is the persistence boundary for devices.
//
// Create and Update verify the referenced tenant inside the write
// transaction, before the row is written; both return ErrTenantNotFound
// when the reference does not resolve.
type DeviceStore interface {
	Create(ctx context.Context, device *model.Device) error
	GetByID(ctx context.Context, id uint) (*model.Device, error)
	List(ctx context.Context) ([]model.Device, error)
	ListByTenant(ctx context.Context, tenantID uint) ([]model.Device, error)
	CountByTenant(ctx context.Context, tenantID uint) (int64, error)
	Update(ctx context.Context, id uint, patch DevicePatch) (*model.Device, error)
	Delete(ctx context.Context, id uint) error
}

// StatsStore computes the dashboard aggregates
type StatsStore interface {
	DashboardStats(ctx context.Context) (*DashboardStats, error)
}
