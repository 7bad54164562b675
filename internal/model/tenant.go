package model

import (
	"time"
)

// TenantStatus is the lifecycle status of a tenant organization
type TenantStatus string

const (
	TenantStatusActive   TenantStatus = "Active"
	TenantStatusInactive TenantStatus = "Inactive"
)

// Valid reports whether the status is a known tenant status
func (s TenantStatus) Valid() bool {
	return s == TenantStatusActive || s == TenantStatusInactive
}

// Tenant represents a customer organization that owns devices
type Tenant struct {
	ID            uint         `json:"id" gorm:"primaryKey"`
	Name          string       `json:"name" gorm:"type:varchar(100);not null"`
	ContactPerson string       `json:"contact_person" gorm:"type:varchar(100);not null"`
	ContactEmail  string       `json:"contact_email" gorm:"type:varchar(100);not null"`
	Status        TenantStatus `json:"status" gorm:"type:varchar(20);not null"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}
