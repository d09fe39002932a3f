package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vosola/dreamebridge/internal/archive"
	"github.com/vosola/dreamebridge/internal/config"
	"github.com/vosola/dreamebridge/internal/core"
	"github.com/vosola/dreamebridge/internal/hass"
	"github.com/vosola/dreamebridge/internal/server"
	"github.com/vosola/dreamebridge/plugins/dreame"
)

func main() {
	configPath := flag.String("config", envOrDefault("DREAMEBRIDGE_CONFIG", config.DefaultPath), "Path to config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	var store archive.Store
	if cfg.Archive != nil {
		s3, err := archive.NewS3Store(cfg.Archive)
		if err != nil {
			log.Fatalf("archive store: %v", err)
		}
		store = s3
	}

	var plugins []core.Plugin
	if plugin, ok := dreame.NewPlugin(cfg.Dreame, store); ok {
		plugins = append(plugins, plugin)
	}

	if err := core.ValidatePlugins(plugins); err != nil {
		log.Fatalf("validate plugins: %v", err)
	}
	if err := core.WriteDashboards(cfg.Core.DashboardDir, plugins); err != nil {
		log.Fatalf("write dashboards: %v", err)
	}

	metricsRegistry := core.MetricsRegistry(plugins)
	metricsRegistry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "dreamebridge_build_info",
		Help: "Build information",
	}, func() float64 { return 1 }))

	registry := core.NewRegistryService(plugins)

	httpMux := http.NewServeMux()
	httpMux.HandleFunc("/health", server.HealthHandler)
	httpMux.Handle("/metrics", server.MetricsHandler(metricsRegistry))
	httpMux.Handle("/dashboards/", server.DashboardsHandler(core.DashboardsMap(plugins)))
	httpMux.Handle("/api/plugins", server.RegistryHandler(registry))
	httpMux.Handle("/api/plugins/", server.RegistryHandler(registry))
	for _, plugin := range plugins {
		if registrant, ok := plugin.(core.HTTPRegistrant); ok {
			registrant.RegisterHTTP(httpMux)
		}
	}

	var bridge *hass.Bridge
	if cfg.MQTT != nil {
		bridge, err = connectBridge(cfg.MQTT)
		if err != nil {
			log.Fatalf("mqtt connect: %v", err)
		}
		for _, plugin := range plugins {
			if registrant, ok := plugin.(core.MQTTRegistrant); ok {
				if err := registrant.RegisterMQTT(bridge); err != nil {
					log.Fatalf("mqtt register %s: %v", plugin.ID(), err)
				}
			}
		}
	}

	for _, plugin := range plugins {
		if runner, ok := plugin.(core.Runner); ok {
			runner.Start()
		}
	}

	httpServer := server.NewHTTPServer(cfg.Core.HTTPAddr, httpMux)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http serve: %v", err)
		}
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals

	for _, plugin := range plugins {
		if runner, ok := plugin.(core.Runner); ok {
			runner.Stop()
		}
	}
	if bridge != nil {
		bridge.Close()
	}
	_ = httpServer.Server.Close()
}

func connectBridge(cfg *config.MQTTConfig) (*hass.Bridge, error) {
	password := ""
	if cfg.PasswordFile != "" {
		secret, err := config.ReadSecretFile(cfg.PasswordFile)
		if err != nil {
			return nil, err
		}
		password = secret
	}
	return hass.Connect(hass.Config{
		Broker:          cfg.Broker,
		Username:        cfg.Username,
		Password:        password,
		ClientID:        cfg.ClientID,
		DiscoveryPrefix: cfg.DiscoveryPrefix,
		BaseTopic:       cfg.BaseTopic,
	})
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
