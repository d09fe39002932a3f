package dreame

import (
	_ "embed"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vosola/dreamebridge/internal/archive"
	"github.com/vosola/dreamebridge/internal/config"
	"github.com/vosola/dreamebridge/internal/core"
	"github.com/vosola/dreamebridge/internal/hass"
)

//go:embed AGENTS.md
var agentsMD string

//go:embed dashboard.json
var dashboardJSON []byte

// Plugin implements the dreamebridge plugin contract.
type Plugin struct {
	service       *Service
	health        core.HealthStatus
	healthMessage string
}

// NewPlugin constructs the vacuum plugin from config. A nil store disables
// cleaning-history archival.
func NewPlugin(cfg *config.DreameConfig, store archive.Store) (Plugin, bool) {
	if cfg == nil {
		return Plugin{}, false
	}

	runtimeCfg, err := ConfigFrom(cfg)
	if err != nil {
		return Plugin{health: core.HealthError, healthMessage: err.Error()}, true
	}

	device, err := newMiioDevice(runtimeCfg.Host, runtimeCfg.Token)
	if err != nil {
		return Plugin{health: core.HealthError, healthMessage: err.Error()}, true
	}

	return newPluginWithDevice(runtimeCfg, device, store), true
}

func newPluginWithDevice(cfg Config, device Device, store archive.Store) Plugin {
	service := NewService(cfg, device)
	if store != nil {
		recorder := newHistoryRecorder(store, cfg.UniqueID())
		service.OnUpdate(recorder.observe)
	}
	return Plugin{service: service, health: core.HealthHealthy}
}

func (p Plugin) ID() string {
	return "dreame"
}

func (p Plugin) Manifest() core.Manifest {
	entities := []string(nil)
	if p.service != nil {
		entities = []string{"vacuum." + p.service.cfg.UniqueID()}
	}
	return core.Manifest{
		PluginID:    "dreame",
		DisplayName: "Dreame Vacuum",
		Version:     "0.1.0",
		Entities:    entities,
	}
}

func (p Plugin) AgentsMD() string {
	return agentsMD
}

func (p Plugin) Dashboards() []core.Dashboard {
	return []core.Dashboard{{Name: "dreame-overview", JSON: dashboardJSON}}
}

func (p Plugin) Collectors() []prometheus.Collector {
	if p.service == nil {
		return nil
	}
	return []prometheus.Collector{NewMetricsCollector(p.service)}
}

func (p Plugin) Health() core.HealthStatus {
	return p.health
}

func (p Plugin) HealthMessage() string {
	return p.healthMessage
}

// RegisterMQTT announces the vacuum entity on the platform bridge.
func (p Plugin) RegisterMQTT(bridge *hass.Bridge) error {
	if p.service == nil {
		return nil
	}
	return newEntity(p.service, bridge).announce()
}

// Start launches the status poller.
func (p Plugin) Start() {
	if p.service == nil {
		return
	}
	p.service.Start()
}

// Stop terminates the poller and closes the device handle.
func (p Plugin) Stop() {
	if p.service == nil {
		return
	}
	p.service.Stop()
}
