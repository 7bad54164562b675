package store

import (
	"context"

	"iotadmin-service/internal/model"

	"gorm.io/gorm"
)

type statsStore struct {
	db *gorm.DB
}

// NewStatsStore creates a gorm-backed StatsStore
func NewStatsStore(db *gorm.DB) StatsStore {
	return &statsStore{db: db}
}

func (ss *statsStore) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	// One read transaction keeps the four counts close together; each
	// count is exact at the instant it runs
	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Tenant{}).Count(&stats.TotalTenants).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Tenant{}).
			Where("status = ?", model.TenantStatusActive).
			Count(&stats.ActiveTenants).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Device{}).Count(&stats.TotalDevices).Error; err != nil {
			return err
		}
		return tx.Model(&model.Device{}).
			Where("status = ?", model.DeviceStatusOnline).
			Count(&stats.OnlineDevices).Error
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
