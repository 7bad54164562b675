package store

import (
	"context"
	"errors"
	"time"

	"iotadmin-service/internal/model"

	"gorm.io/gorm"
)

type deviceStore struct {
	db *gorm.DB
}

// NewDeviceStore creates a gorm-backed DeviceStore
func NewDeviceStore(db *gorm.DB) DeviceStore {
	return &deviceStore{db: db}
}

// tenantExists checks the referenced tenant inside the caller's transaction
func tenantExists(tx *gorm.DB, tenantID uint) (bool, error) {
	var count int64
	if err := tx.Model(&model.Tenant{}).Where("id = ?", tenantID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (ds *deviceStore) Create(ctx context.Context, device *model.Device) error {
	return ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The tenant check happens before the insert, in the same
		// transaction, so a concurrent tenant delete cannot leave an
		// orphan row behind
		exists, err := tenantExists(tx, device.TenantID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrTenantNotFound
		}
		return tx.Create(device).Error
	})
}

func (ds *deviceStore) GetByID(ctx context.Context, id uint) (*model.Device, error) {
	var device model.Device
	err := ds.db.WithContext(ctx).First(&device, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &device, nil
}

func (ds *deviceStore) List(ctx context.Context) ([]model.Device, error) {
	devices := []model.Device{}
	if err := ds.db.WithContext(ctx).Order("id").Find(&devices).Error; err != nil {
		return nil, err
	}
	return devices, nil
}

func (ds *deviceStore) ListByTenant(ctx context.Context, tenantID uint) ([]model.Device, error) {
	devices := []model.Device{}
	if err := ds.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("id").
		Find(&devices).Error; err != nil {
		return nil, err
	}
	return devices, nil
}

func (ds *deviceStore) CountByTenant(ctx context.Context, tenantID uint) (int64, error) {
	var count int64
	if err := ds.db.WithContext(ctx).
		Model(&model.Device{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// changes maps the supplied patch fields to their column assignments
func (p DevicePatch) changes() map[string]interface{} {
	updates := map[string]interface{}{}
	if p.Name != nil {
		updates["name"] = *p.Name
	}
	if p.DeviceType != nil {
		updates["device_type"] = *p.DeviceType
	}
	if p.SerialNumber != nil {
		updates["serial_number"] = *p.SerialNumber
	}
	if p.Status != nil {
		updates["status"] = *p.Status
	}
	if p.TenantID != nil {
		updates["tenant_id"] = *p.TenantID
	}
	return updates
}

func (ds *deviceStore) Update(ctx context.Context, id uint, patch DevicePatch) (*model.Device, error) {
	var device model.Device
	err := ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&device, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDeviceNotFound
			}
			return err
		}

		// A supplied tenant_id is re-validated against current tenants
		// before the write commits
		if patch.TenantID != nil {
			exists, err := tenantExists(tx, *patch.TenantID)
			if err != nil {
				return err
			}
			if !exists {
				return ErrTenantNotFound
			}
		}

		updates := patch.changes()
		updates["updated_at"] = time.Now()

		if err := tx.Model(&device).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&device, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &device, nil
}

func (ds *deviceStore) Delete(ctx context.Context, id uint) error {
	result := ds.db.WithContext(ctx).Delete(&model.Device{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDeviceNotFound
	}
	return nil
}
