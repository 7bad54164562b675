package handler

import (
	"fmt"
	"net/http"
	"testing"

	"iotadmin-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTenantBody() map[string]interface{} {
	return map[string]interface{}{
		"name":           "Acme Corp",
		"contact_person": "Ada Lovelace",
		"contact_email":  "ada@example.com",
		"status":         "Active",
	}
}

func (env *testEnv) createTenant(t *testing.T, body map[string]interface{}) model.Tenant {
	t.Helper()
	rec := env.request(t, http.MethodPost, "/api/tenants", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var tenant model.Tenant
	decode(t, rec, &tenant)
	return tenant
}

func TestCreateTenant(t *testing.T) {
	env := newTestEnv(t)

	tenant := env.createTenant(t, validTenantBody())
	assert.NotZero(t, tenant.ID)
	assert.Equal(t, "Acme Corp", tenant.Name)
	assert.Equal(t, "Ada Lovelace", tenant.ContactPerson)
	assert.Equal(t, "ada@example.com", tenant.ContactEmail)
	assert.Equal(t, model.TenantStatusActive, tenant.Status)
	assert.False(t, tenant.CreatedAt.IsZero())
	assert.Equal(t, tenant.CreatedAt.Unix(), tenant.UpdatedAt.Unix())
}

func TestCreateTenant_Validation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"empty name", map[string]interface{}{"name": "", "contact_person": "Ada", "contact_email": "ada@example.com", "status": "Active"}},
		{"missing contact person", map[string]interface{}{"name": "Acme", "contact_email": "ada@example.com", "status": "Active"}},
		{"malformed email", map[string]interface{}{"name": "Acme", "contact_person": "Ada", "contact_email": "not-an-email", "status": "Active"}},
		{"unknown status", map[string]interface{}{"name": "Acme", "contact_person": "Ada", "contact_email": "ada@example.com", "status": "Paused"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.request(t, http.MethodPost, "/api/tenants", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}

	// Nothing was persisted by the rejected requests
	rec := env.request(t, http.MethodGet, "/api/tenants", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tenants []model.Tenant
	decode(t, rec, &tenants)
	assert.Empty(t, tenants)
}

func TestGetTenant(t *testing.T) {
	env := newTestEnv(t)
	created := env.createTenant(t, validTenantBody())

	rec := env.request(t, http.MethodGet, fmt.Sprintf("/api/tenants/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tenant model.Tenant
	decode(t, rec, &tenant)
	assert.Equal(t, created.ID, tenant.ID)
	assert.Equal(t, created.Name, tenant.Name)

	rec = env.request(t, http.MethodGet, "/api/tenants/9999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.request(t, http.MethodGet, "/api/tenants/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateTenant_Partial(t *testing.T) {
	env := newTestEnv(t)
	created := env.createTenant(t, validTenantBody())

	rec := env.request(t, http.MethodPut, fmt.Sprintf("/api/tenants/%d", created.ID),
		map[string]interface{}{"status": "Inactive"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated model.Tenant
	decode(t, rec, &updated)
	assert.Equal(t, model.TenantStatusInactive, updated.Status)
	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, created.ContactPerson, updated.ContactPerson)
	assert.Equal(t, created.ContactEmail, updated.ContactEmail)
}

func TestUpdateTenant_EmptyBody(t *testing.T) {
	env := newTestEnv(t)
	created := env.createTenant(t, validTenantBody())

	// An update supplying no fields is valid and only touches updated_at
	rec := env.request(t, http.MethodPut, fmt.Sprintf("/api/tenants/%d", created.ID),
		map[string]interface{}{})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated model.Tenant
	decode(t, rec, &updated)
	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, created.Status, updated.Status)
}

func TestUpdateTenant_Validation(t *testing.T) {
	env := newTestEnv(t)
	created := env.createTenant(t, validTenantBody())

	// Supplied fields face the same rules as creation
	rec := env.request(t, http.MethodPut, fmt.Sprintf("/api/tenants/%d", created.ID),
		map[string]interface{}{"contact_email": "broken"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.request(t, http.MethodPut, fmt.Sprintf("/api/tenants/%d", created.ID),
		map[string]interface{}{"name": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateTenant_NotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodPut, "/api/tenants/9999",
		map[string]interface{}{"name": "Ghost"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteTenant_Cascades(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.createTenant(t, validTenantBody())
	d1 := env.createDevice(t, validDeviceBody(tenant.ID))
	d2 := env.createDevice(t, func() map[string]interface{} {
		body := validDeviceBody(tenant.ID)
		body["serial_number"] = "SN-2"
		return body
	}())

	rec := env.request(t, http.MethodDelete, fmt.Sprintf("/api/tenants/%d", tenant.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.request(t, http.MethodGet, fmt.Sprintf("/api/tenants/%d", tenant.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	for _, id := range []uint{d1.ID, d2.ID} {
		rec = env.request(t, http.MethodGet, fmt.Sprintf("/api/devices/%d", id), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}
}

func TestDeleteTenant_NotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodDelete, "/api/tenants/9999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListTenantDevices(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.createTenant(t, validTenantBody())

	// No devices yet: an empty list, not an error
	rec := env.request(t, http.MethodGet, fmt.Sprintf("/api/tenants/%d/devices", tenant.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var devices []model.Device
	decode(t, rec, &devices)
	assert.Empty(t, devices)

	env.createDevice(t, validDeviceBody(tenant.ID))

	rec = env.request(t, http.MethodGet, fmt.Sprintf("/api/tenants/%d/devices", tenant.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &devices)
	require.Len(t, devices, 1)
	assert.Equal(t, tenant.ID, devices[0].TenantID)
}
