package model

import (
	"time"
)

// DeviceStatus is the reported connectivity status of a device
type DeviceStatus string

const (
	DeviceStatusOnline  DeviceStatus = "Online"
	DeviceStatusOffline DeviceStatus = "Offline"
	DeviceStatusError   DeviceStatus = "Error"
)

// Valid reports whether the status is a known device status
func (s DeviceStatus) Valid() bool {
	return s == DeviceStatusOnline || s == DeviceStatusOffline || s == DeviceStatusError
}

// Device represents an IoT unit belonging to exactly one tenant
type Device struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	Name         string       `json:"name" gorm:"type:varchar(100);not null"`
	DeviceType   string       `json:"device_type" gorm:"type:varchar(100);not null"`
	SerialNumber string       `json:"serial_number" gorm:"type:varchar(100);not null"`
	Status       DeviceStatus `json:"status" gorm:"type:varchar(20);not null"`
	TenantID     uint         `json:"tenant_id" gorm:"index;not null"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
