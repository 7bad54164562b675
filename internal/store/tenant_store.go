package store

import (
	"context"
	"errors"
	"time"

	"iotadmin-service/internal/model"

	"gorm.io/gorm"
)

type tenantStore struct {
	db *gorm.DB
}

// NewTenantStore creates a gorm-backed TenantStore
func NewTenantStore(db *gorm.DB) TenantStore {
	return &tenantStore{db: db}
}

func (ts *tenantStore) Create(ctx context.Context, tenant *model.Tenant) error {
	return ts.db.WithContext(ctx).Create(tenant).Error
}

func (ts *tenantStore) GetByID(ctx context.Context, id uint) (*model.Tenant, error) {
	var tenant model.Tenant
	err := ts.db.WithContext(ctx).First(&tenant, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (ts *tenantStore) List(ctx context.Context) ([]model.Tenant, error) {
	tenants := []model.Tenant{}
	if err := ts.db.WithContext(ctx).Order("id").Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

// changes maps the supplied patch fields to their column assignments
func (p TenantPatch) changes() map[string]interface{} {
	updates := map[string]interface{}{}
	if p.Name != nil {
		updates["name"] = *p.Name
	}
	if p.ContactPerson != nil {
		updates["contact_person"] = *p.ContactPerson
	}
	if p.ContactEmail != nil {
		updates["contact_email"] = *p.ContactEmail
	}
	if p.Status != nil {
		updates["status"] = *p.Status
	}
	return updates
}

func (ts *tenantStore) Update(ctx context.Context, id uint, patch TenantPatch) (*model.Tenant, error) {
	var tenant model.Tenant
	err := ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&tenant, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTenantNotFound
			}
			return err
		}

		// updated_at is refreshed on every successful update, even when the
		// patch supplies no fields
		updates := patch.changes()
		updates["updated_at"] = time.Now()

		if err := tx.Model(&tenant).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&tenant, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (ts *tenantStore) Delete(ctx context.Context, id uint) (int64, error) {
	var devicesDeleted int64
	err := ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Tenant{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrTenantNotFound
		}

		// Dependents go first so no orphan devices are ever visible
		result := tx.Where("tenant_id = ?", id).Delete(&model.Device{})
		if result.Error != nil {
			return result.Error
		}
		devicesDeleted = result.RowsAffected

		return tx.Delete(&model.Tenant{}, id).Error
	})
	if err != nil {
		return 0, err
	}
	return devicesDeleted, nil
}
