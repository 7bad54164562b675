package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"iotadmin-service/internal/model"
	"iotadmin-service/internal/store"
	"iotadmin-service/pkg/logger"
	"iotadmin-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CreateDeviceRequest defines the structure for device creation requests
type CreateDeviceRequest struct {
	Name         string             `json:"name" validate:"required"`
	DeviceType   string             `json:"device_type" validate:"required"`
	SerialNumber string             `json:"serial_number" validate:"required"`
	Status       model.DeviceStatus `json:"status" validate:"required,oneof=Online Offline Error"`
	TenantID     uint               `json:"tenant_id" validate:"required,gt=0"`
}

// UpdateDeviceRequest defines the structure for partial device updates
type UpdateDeviceRequest struct {
	Name         *string             `json:"name" validate:"omitempty,min=1"`
	DeviceType   *string             `json:"device_type" validate:"omitempty,min=1"`
	SerialNumber *string             `json:"serial_number" validate:"omitempty,min=1"`
	Status       *model.DeviceStatus `json:"status" validate:"omitempty,oneof=Online Offline Error"`
	TenantID     *uint               `json:"tenant_id" validate:"omitempty,gt=0"`
}

// DeviceHandler serves the device CRUD endpoints
type DeviceHandler struct {
	devices store.DeviceStore
}

// NewDeviceHandler creates a DeviceHandler with its store injected
func NewDeviceHandler(devices store.DeviceStore) *DeviceHandler {
	return &DeviceHandler{devices: devices}
}

// CreateDevice creates a new device for an existing tenant
func (dh *DeviceHandler) CreateDevice(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordDeviceOperation("create")

	var req CreateDeviceRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}
	if err := c.Validate(&req); err != nil {
		log.Warn("Device validation failed", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	}

	device := model.Device{
		Name:         req.Name,
		DeviceType:   req.DeviceType,
		SerialNumber: req.SerialNumber,
		Status:       req.Status,
		TenantID:     req.TenantID,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	err := dh.devices.Create(c.Request().Context(), &device)
	if errors.Is(err, store.ErrTenantNotFound) {
		log.Warn("Device references unknown tenant",
			zap.Uint("tenant_id", req.TenantID))
		return c.JSON(http.StatusConflict, echo.Map{
			"error": fmt.Sprintf("tenant with id %d does not exist", req.TenantID),
		})
	}
	if err != nil {
		log.Error("Failed to create device",
			zap.String("name", req.Name),
			zap.Uint("tenant_id", req.TenantID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to create device",
		})
	}

	go dh.refreshTenantDeviceGauge(device.TenantID)

	log.Info("Device created successfully",
		zap.Uint("id", device.ID),
		zap.String("name", device.Name),
		zap.String("serial_number", device.SerialNumber),
		zap.Uint("tenant_id", device.TenantID))
	return c.JSON(http.StatusCreated, device)
}

// GetDevice retrieves a device by ID
func (dh *DeviceHandler) GetDevice(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordDeviceOperation("get")

	id, err := parseID(c)
	if err != nil {
		log.Error("Invalid device ID", zap.String("id", c.Param("id")))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid device ID",
		})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	device, err := dh.devices.GetByID(c.Request().Context(), id)
	if err != nil {
		log.Error("Failed to retrieve device", zap.Uint("device_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve device",
		})
	}
	if device == nil {
		log.Warn("Device not found", zap.Uint("device_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Device not found",
		})
	}

	return c.JSON(http.StatusOK, device)
}

// ListDevices retrieves all devices across tenants
func (dh *DeviceHandler) ListDevices(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordDeviceOperation("list")

	defer prometheus.TrackDBOperation("query")(time.Now())

	devices, err := dh.devices.List(c.Request().Context())
	if err != nil {
		log.Error("Failed to retrieve devices", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve devices",
		})
	}

	log.Info("Devices retrieved successfully", zap.Int("count", len(devices)))
	return c.JSON(http.StatusOK, devices)
}

// UpdateDevice applies a partial update to an existing device
func (dh *DeviceHandler) UpdateDevice(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordDeviceOperation("update")

	id, err := parseID(c)
	if err != nil {
		log.Error("Invalid device ID", zap.String("id", c.Param("id")))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid device ID",
		})
	}

	var req UpdateDeviceRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Uint("device_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}
	if err := c.Validate(&req); err != nil {
		log.Warn("Device validation failed", zap.Uint("device_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	}

	patch := store.DevicePatch{
		Name:         req.Name,
		DeviceType:   req.DeviceType,
		SerialNumber: req.SerialNumber,
		Status:       req.Status,
		TenantID:     req.TenantID,
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	device, err := dh.devices.Update(c.Request().Context(), id, patch)
	if errors.Is(err, store.ErrDeviceNotFound) {
		log.Warn("Device not found for update", zap.Uint("device_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Device not found",
		})
	}
	if errors.Is(err, store.ErrTenantNotFound) {
		log.Warn("Device update references unknown tenant",
			zap.Uint("device_id", id),
			zap.Uint("tenant_id", *req.TenantID))
		return c.JSON(http.StatusConflict, echo.Map{
			"error": fmt.Sprintf("tenant with id %d does not exist", *req.TenantID),
		})
	}
	if err != nil {
		log.Error("Failed to update device", zap.Uint("device_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to update device",
		})
	}

	go dh.refreshTenantDeviceGauge(device.TenantID)

	log.Info("Device updated successfully",
		zap.Uint("device_id", id),
		zap.String("name", device.Name),
		zap.Uint("tenant_id", device.TenantID))
	return c.JSON(http.StatusOK, device)
}

// DeleteDevice deletes a device
func (dh *DeviceHandler) DeleteDevice(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordDeviceOperation("delete")

	id, err := parseID(c)
	if err != nil {
		log.Error("Invalid device ID", zap.String("id", c.Param("id")))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid device ID",
		})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())

	// Read the row first so the tenant gauge can be refreshed after the
	// delete; absence either way maps to the same 404
	device, err := dh.devices.GetByID(c.Request().Context(), id)
	if err != nil {
		log.Error("Failed to retrieve device", zap.Uint("device_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to delete device",
		})
	}
	if device == nil {
		log.Warn("Device not found for deletion", zap.Uint("device_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Device not found",
		})
	}

	err = dh.devices.Delete(c.Request().Context(), id)
	if errors.Is(err, store.ErrDeviceNotFound) {
		log.Warn("Device not found for deletion", zap.Uint("device_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Device not found",
		})
	}
	if err != nil {
		log.Error("Failed to delete device", zap.Uint("device_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to delete device",
		})
	}

	go dh.refreshTenantDeviceGauge(device.TenantID)

	log.Info("Device deleted successfully",
		zap.Uint("device_id", id),
		zap.Uint("tenant_id", device.TenantID))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
	})
}

// refreshTenantDeviceGauge recounts a tenant's devices for the per-tenant gauge
func (dh *DeviceHandler) refreshTenantDeviceGauge(tenantID uint) {
	count, err := dh.devices.CountByTenant(context.Background(), tenantID)
	if err != nil {
		return
	}
	prometheus.UpdateDevicesPerTenant(tenantID, count)
}
