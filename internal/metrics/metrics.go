package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Adapter discovery metrics
	AdaptersEnumerated = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "rhi_adapters_enumerated",
		Help: "Number of physical adapters reported by the last enumeration",
	}, []string{"backend"})

	AdapterSelections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rhi_adapter_selections_total",
		Help: "Total number of adapter searches by preference and outcome",
	}, []string{"preference", "outcome"})

	// Device metrics
	DevicesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rhi_devices_created_total",
		Help: "Total number of logical devices created by driver",
	}, []string{"driver"})

	DeviceObjectsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rhi_device_objects_created_total",
		Help: "Total number of GPU objects created through a logical device by kind",
	}, []string{"kind"})

	DeviceObjectsLive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rhi_device_objects_live",
		Help: "Number of GPU objects created through logical devices and not yet destroyed",
	})

	// Validation and device-removed diagnostics metrics
	DiagnosticsEnabled = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "rhi_diagnostics_enabled",
		Help: "Whether each validation or device-removed diagnostics tier was enabled (1) or skipped (0)",
	}, []string{"tier"})
)
