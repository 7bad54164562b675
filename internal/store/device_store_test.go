package store

import (
	"context"
	"testing"
	"time"

	"iotadmin-service/internal/model"
	"iotadmin-service/internal/store/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDevice(name, serial string, tenantID uint) *model.Device {
	return &model.Device{
		Name:         name,
		DeviceType:   "temperature-sensor",
		SerialNumber: serial,
		Status:       model.DeviceStatusOnline,
		TenantID:     tenantID,
	}
}

func TestDeviceStore_CreateAndGet(t *testing.T) {
	db := testutil.DB(t)
	tenants := NewTenantStore(db)
	devices := NewDeviceStore(db)
	ctx := context.Background()

	tenant := newTenant("Acme Corp")
	require.NoError(t, tenants.Create(ctx, tenant))

	device := newDevice("Roof Sensor", "SN-100", tenant.ID)
	require.NoError(t, devices.Create(ctx, device))
	require.NotZero(t, device.ID)
	assert.WithinDuration(t, device.CreatedAt, device.UpdatedAt, time.Millisecond)

	got, err := devices.GetByID(ctx, device.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Roof Sensor", got.Name)
	assert.Equal(t, "temperature-sensor", got.DeviceType)
	assert.Equal(t, "SN-100", got.SerialNumber)
	assert.Equal(t, model.DeviceStatusOnline, got.Status)
	assert.Equal(t, tenant.ID, got.TenantID)
}

func TestDeviceStore_Create_UnknownTenant(t *testing.T) {
	db := testutil.DB(t)
	devices := NewDeviceStore(db)
	ctx := context.Background()

	device := newDevice("Orphan", "SN-200", 9999)
	err := devices.Create(ctx, device)
	assert.ErrorIs(t, err, ErrTenantNotFound)

	// No row may be persisted on a failed referential check
	all, listErr := devices.List(ctx)
	require.NoError(t, listErr)
	assert.Empty(t, all)
}

func TestDeviceStore_GetByID_Absent(t *testing.T) {
	db := testutil.DB(t)
	devices := NewDeviceStore(db)

	got, err := devices.GetByID(context.Background(), 1234)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeviceStore_ListByTenant(t *testing.T) {
	db := testutil.DB(t)
	tenants := NewTenantStore(db)
	devices := NewDeviceStore(db)
	ctx := context.Background()

	acme := newTenant("Acme Corp")
	globex := newTenant("Globex")
	empty := newTenant("Initech")
	require.NoError(t, tenants.Create(ctx, acme))
	require.NoError(t, tenants.Create(ctx, globex))
	require.NoError(t, tenants.Create(ctx, empty))

	require.NoError(t, devices.Create(ctx, newDevice("A1", "SN-1", acme.ID)))
	require.NoError(t, devices.Create(ctx, newDevice("G1", "SN-2", globex.ID)))
	require.NoError(t, devices.Create(ctx, newDevice("A2", "SN-3", acme.ID)))

	acmeDevices, err := devices.ListByTenant(ctx, acme.ID)
	require.NoError(t, err)
	require.Len(t, acmeDevices, 2)
	assert.Equal(t, "A1", acmeDevices[0].Name)
	assert.Equal(t, "A2", acmeDevices[1].Name)

	// A tenant without devices yields an empty list, not an error
	none, err := devices.ListByTenant(ctx, empty.ID)
	require.NoError(t, err)
	assert.Empty(t, none)

	// Same for an id that matches no tenant at all
	none, err = devices.ListByTenant(ctx, 9999)
	require.NoError(t, err)
	assert.Empty(t, none)

	count, err := devices.CountByTenant(ctx, acme.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestDeviceStore_Update_Partial(t *testing.T) {
	db := testutil.DB(t)
	tenants := NewTenantStore(db)
	devices := NewDeviceStore(db)
	ctx := context.Background()

	tenant := newTenant("Acme Corp")
	require.NoError(t, tenants.Create(ctx, tenant))
	device := newDevice("Roof Sensor", "SN-100", tenant.ID)
	require.NoError(t, devices.Create(ctx, device))

	time.Sleep(10 * time.Millisecond)

	offline := model.DeviceStatusOffline
	updated, err := devices.Update(ctx, device.ID, DevicePatch{Status: &offline})
	require.NoError(t, err)

	assert.Equal(t, model.DeviceStatusOffline, updated.Status)
	assert.Equal(t, device.Name, updated.Name)
	assert.Equal(t, device.SerialNumber, updated.SerialNumber)
	assert.Equal(t, device.TenantID, updated.TenantID)
	assert.True(t, updated.UpdatedAt.After(device.UpdatedAt))
}

func TestDeviceStore_Update_ReassignTenant(t *testing.T) {
	db := testutil.DB(t)
	tenants := NewTenantStore(db)
	devices := NewDeviceStore(db)
	ctx := context.Background()

	acme := newTenant("Acme Corp")
	globex := newTenant("Globex")
	require.NoError(t, tenants.Create(ctx, acme))
	require.NoError(t, tenants.Create(ctx, globex))
	device := newDevice("Mobile Unit", "SN-500", acme.ID)
	require.NoError(t, devices.Create(ctx, device))

	updated, err := devices.Update(ctx, device.ID, DevicePatch{TenantID: &globex.ID})
	require.NoError(t, err)
	assert.Equal(t, globex.ID, updated.TenantID)

	// Reassignment to a tenant that does not exist is rejected and the
	// device keeps its current owner
	missing := uint(9999)
	_, err = devices.Update(ctx, device.ID, DevicePatch{TenantID: &missing})
	assert.ErrorIs(t, err, ErrTenantNotFound)

	got, err := devices.GetByID(ctx, device.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, globex.ID, got.TenantID)
}

func TestDeviceStore_Update_NotFound(t *testing.T) {
	db := testutil.DB(t)
	devices := NewDeviceStore(db)

	_, err := devices.Update(context.Background(), 42, DevicePatch{Name: strPtr("Ghost")})
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestDeviceStore_Delete(t *testing.T) {
	db := testutil.DB(t)
	tenants := NewTenantStore(db)
	devices := NewDeviceStore(db)
	ctx := context.Background()

	tenant := newTenant("Acme Corp")
	require.NoError(t, tenants.Create(ctx, tenant))
	device := newDevice("Roof Sensor", "SN-100", tenant.ID)
	require.NoError(t, devices.Create(ctx, device))

	require.NoError(t, devices.Delete(ctx, device.ID))

	got, err := devices.GetByID(ctx, device.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	err = devices.Delete(ctx, device.ID)
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}
