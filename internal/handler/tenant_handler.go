package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"iotadmin-service/internal/model"
	"iotadmin-service/internal/store"
	"iotadmin-service/pkg/logger"
	"iotadmin-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CreateTenantRequest defines the structure for tenant creation requests
type CreateTenantRequest struct {
	Name          string             `json:"name" validate:"required"`
	ContactPerson string             `json:"contact_person" validate:"required"`
	ContactEmail  string             `json:"contact_email" validate:"required,email"`
	Status        model.TenantStatus `json:"status" validate:"required,oneof=Active Inactive"`
}

// UpdateTenantRequest defines the structure for partial tenant updates.
// Nil fields are "not supplied" and keep their current values; supplied
// fields are held to the same rules as creation.
type UpdateTenantRequest struct {
	Name          *string             `json:"name" validate:"omitempty,min=1"`
	ContactPerson *string             `json:"contact_person" validate:"omitempty,min=1"`
	ContactEmail  *string             `json:"contact_email" validate:"omitempty,email"`
	Status        *model.TenantStatus `json:"status" validate:"omitempty,oneof=Active Inactive"`
}

// TenantHandler serves the tenant CRUD endpoints
type TenantHandler struct {
	tenants store.TenantStore
	devices store.DeviceStore
}

// NewTenantHandler creates a TenantHandler with its stores injected
func NewTenantHandler(tenants store.TenantStore, devices store.DeviceStore) *TenantHandler {
	return &TenantHandler{tenants: tenants, devices: devices}
}

// parseID parses a positive integer id path parameter
func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// CreateTenant creates a new tenant
func (th *TenantHandler) CreateTenant(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenantOperation("create")

	var req CreateTenantRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}
	if err := c.Validate(&req); err != nil {
		log.Warn("Tenant validation failed", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	}

	tenant := model.Tenant{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		ContactEmail:  req.ContactEmail,
		Status:        req.Status,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	if err := th.tenants.Create(c.Request().Context(), &tenant); err != nil {
		log.Error("Failed to create tenant",
			zap.String("name", req.Name),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to create tenant",
		})
	}

	log.Info("Tenant created successfully",
		zap.Uint("id", tenant.ID),
		zap.String("name", tenant.Name))
	return c.JSON(http.StatusCreated, tenant)
}

// GetTenant retrieves a tenant by ID
func (th *TenantHandler) GetTenant(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenantOperation("get")

	id, err := parseID(c)
	if err != nil {
		log.Error("Invalid tenant ID", zap.String("id", c.Param("id")))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid tenant ID",
		})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	tenant, err := th.tenants.GetByID(c.Request().Context(), id)
	if err != nil {
		log.Error("Failed to retrieve tenant", zap.Uint("tenant_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve tenant",
		})
	}
	if tenant == nil {
		log.Warn("Tenant not found", zap.Uint("tenant_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Tenant not found",
		})
	}

	return c.JSON(http.StatusOK, tenant)
}

// ListTenants retrieves all tenants
func (th *TenantHandler) ListTenants(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenantOperation("list")

	defer prometheus.TrackDBOperation("query")(time.Now())

	tenants, err := th.tenants.List(c.Request().Context())
	if err != nil {
		log.Error("Failed to retrieve tenants", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve tenants",
		})
	}

	log.Info("Tenants retrieved successfully", zap.Int("count", len(tenants)))
	return c.JSON(http.StatusOK, tenants)
}

// UpdateTenant applies a partial update to an existing tenant
func (th *TenantHandler) UpdateTenant(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenantOperation("update")

	id, err := parseID(c)
	if err != nil {
		log.Error("Invalid tenant ID", zap.String("id", c.Param("id")))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid tenant ID",
		})
	}

	var req UpdateTenantRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Uint("tenant_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}
	if err := c.Validate(&req); err != nil {
		log.Warn("Tenant validation failed", zap.Uint("tenant_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	}

	patch := store.TenantPatch{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		ContactEmail:  req.ContactEmail,
		Status:        req.Status,
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	tenant, err := th.tenants.Update(c.Request().Context(), id, patch)
	if errors.Is(err, store.ErrTenantNotFound) {
		log.Warn("Tenant not found for update", zap.Uint("tenant_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Tenant not found",
		})
	}
	if err != nil {
		log.Error("Failed to update tenant", zap.Uint("tenant_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to update tenant",
		})
	}

	log.Info("Tenant updated successfully",
		zap.Uint("tenant_id", id),
		zap.String("name", tenant.Name))
	return c.JSON(http.StatusOK, tenant)
}

// DeleteTenant deletes a tenant and, in the same transaction, every
// device that belongs to it
func (th *TenantHandler) DeleteTenant(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenantOperation("delete")

	id, err := parseID(c)
	if err != nil {
		log.Error("Invalid tenant ID", zap.String("id", c.Param("id")))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid tenant ID",
		})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())

	devicesDeleted, err := th.tenants.Delete(c.Request().Context(), id)
	if errors.Is(err, store.ErrTenantNotFound) {
		log.Warn("Tenant not found for deletion", zap.Uint("tenant_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Tenant not found",
		})
	}
	if err != nil {
		log.Error("Failed to delete tenant", zap.Uint("tenant_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to delete tenant",
		})
	}

	prometheus.UpdateDevicesPerTenant(id, 0)

	log.Info("Tenant deleted successfully",
		zap.Uint("tenant_id", id),
		zap.Int64("devices_deleted", devicesDeleted))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
	})
}

// ListTenantDevices retrieves the devices belonging to a tenant.
// A tenant with no devices, or an unknown tenant id, yields an empty list.
func (th *TenantHandler) ListTenantDevices(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordDeviceOperation("list_by_tenant")

	id, err := parseID(c)
	if err != nil {
		log.Error("Invalid tenant ID", zap.String("id", c.Param("id")))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid tenant ID",
		})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	devices, err := th.devices.ListByTenant(c.Request().Context(), id)
	if err != nil {
		log.Error("Failed to retrieve tenant devices", zap.Uint("tenant_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve devices",
		})
	}

	log.Info("Tenant devices retrieved successfully",
		zap.Uint("tenant_id", id),
		zap.Int("count", len(devices)))
	return c.JSON(http.StatusOK, devices)
}
