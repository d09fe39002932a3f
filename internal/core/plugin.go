package core

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vosola/dreamebridge/internal/hass"
)

// HealthStatus represents plugin health states for registry reporting.
type HealthStatus string

const (
	HealthHealthy  HealthStatus = "HEALTHY"
	HealthDegraded HealthStatus = "DEGRADED"
	HealthError    HealthStatus = "ERROR"
)

// Dashboard is a Grafana dashboard asset embedded by the plugin.
type Dashboard struct {
	Name string
	JSON []byte
}

// Manifest describes a plugin for discovery and registry metadata.
type Manifest struct {
	PluginID    string
	DisplayName string
	Version     string
	Entities    []string
}

// Plugin is the compile-time contract for all dreamebridge plugins.
type Plugin interface {
	ID() string
	Manifest() Manifest
	AgentsMD() string
	Dashboards() []Dashboard
	Collectors() []prometheus.Collector
	Health() HealthStatus
	HealthMessage() string
}

// HTTPRegistrant allows plugins to expose HTTP handlers.
type HTTPRegistrant interface {
	RegisterHTTP(*http.ServeMux)
}

// MQTTRegistrant allows plugins to announce entities on the platform bridge.
type MQTTRegistrant interface {
	RegisterMQTT(*hass.Bridge) error
}

// Runner is implemented by plugins with background work (status pollers).
type Runner interface {
	Start()
	Stop()
}
