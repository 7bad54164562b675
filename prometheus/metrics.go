package prometheus

import (
	"strconv"
	"time"

	"iotadmin-service/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Entity operation counters
	TenantOperationsCounter prometheus.CounterVec
	DeviceOperationsCounter prometheus.CounterVec

	// Fleet gauges, refreshed from the dashboard aggregator
	TotalTenantsGauge     prometheus.Gauge
	ActiveTenantsGauge    prometheus.Gauge
	TotalDevicesGauge     prometheus.Gauge
	OnlineDevicesGauge    prometheus.Gauge
	DevicesPerTenantGauge prometheus.GaugeVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	// Database operation metrics
	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	// Entity operation counters
	TenantOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_tenant_operations_total",
			Help: "Total number of tenant operations",
		},
		[]string{"operation"},
	)

	DeviceOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_device_operations_total",
			Help: "Total number of device operations",
		},
		[]string{"operation"},
	)

	// Fleet gauges
	TotalTenantsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: prefix + "_tenants_total",
			Help: "Number of tenants",
		},
	)

	ActiveTenantsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: prefix + "_tenants_active",
			Help: "Number of tenants with Active status",
		},
	)

	TotalDevicesGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: prefix + "_devices_total",
			Help: "Number of devices",
		},
	)

	OnlineDevicesGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: prefix + "_devices_online",
			Help: "Number of devices with Online status",
		},
	)

	DevicesPerTenantGauge = *promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_devices_per_tenant",
			Help: "Number of devices per tenant",
		},
		[]string{"tenant_id"},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordTenantOperation increments the counter for tenant operations
func RecordTenantOperation(operation string) {
	TenantOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordDeviceOperation increments the counter for device operations
func RecordDeviceOperation(operation string) {
	DeviceOperationsCounter.WithLabelValues(operation).Inc()
}

// UpdateFleetGauges refreshes the aggregate fleet gauges
func UpdateFleetGauges(totalTenants, activeTenants, totalDevices, onlineDevices int64) {
	TotalTenantsGauge.Set(float64(totalTenants))
	ActiveTenantsGauge.Set(float64(activeTenants))
	TotalDevicesGauge.Set(float64(totalDevices))
	OnlineDevicesGauge.Set(float64(onlineDevices))
}

// UpdateDevicesPerTenant updates the gauge for devices per tenant
func UpdateDevicesPerTenant(tenantID uint, count int64) {
	DevicesPerTenantGauge.WithLabelValues(
		strconv.FormatUint(uint64(tenantID), 10),
	).Set(float64(count))
}
