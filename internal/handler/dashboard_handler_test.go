package handler

import (
	"net/http"
	"testing"

	"iotadmin-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats(t *testing.T) {
	env := newTestEnv(t)

	// 3 tenants: 2 Active, 1 Inactive
	acme := env.createTenant(t, validTenantBody())
	globex := env.createTenant(t, func() map[string]interface{} {
		body := validTenantBody()
		body["name"] = "Globex"
		return body
	}())
	env.createTenant(t, func() map[string]interface{} {
		body := validTenantBody()
		body["name"] = "Initech"
		body["status"] = "Inactive"
		return body
	}())

	// 4 devices: 2 Online, 1 Offline, 1 Error
	env.createDevice(t, validDeviceBody(acme.ID))
	env.createDevice(t, func() map[string]interface{} {
		body := validDeviceBody(globex.ID)
		body["serial_number"] = "SN-2"
		return body
	}())
	env.createDevice(t, func() map[string]interface{} {
		body := validDeviceBody(acme.ID)
		body["serial_number"] = "SN-3"
		body["status"] = "Offline"
		return body
	}())
	env.createDevice(t, func() map[string]interface{} {
		body := validDeviceBody(globex.ID)
		body["serial_number"] = "SN-4"
		body["status"] = "Error"
		return body
	}())

	rec := env.request(t, http.MethodGet, "/api/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var stats store.DashboardStats
	decode(t, rec, &stats)
	assert.Equal(t, store.DashboardStats{
		TotalTenants:  3,
		ActiveTenants: 2,
		TotalDevices:  4,
		OnlineDevices: 2,
	}, stats)
}

func TestDashboardStats_EmptyFleet(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodGet, "/api/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats store.DashboardStats
	decode(t, rec, &stats)
	assert.Equal(t, store.DashboardStats{}, stats)
}
