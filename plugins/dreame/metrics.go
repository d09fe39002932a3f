package dreame

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector exposes the poll snapshot. Scrapes never touch the
// device; the poller is the only writer on that path.
type MetricsCollector struct {
	service *Service

	available prometheus.Gauge

	batteryPercent *prometheus.GaugeVec
	activity       *prometheus.GaugeVec
	fanSpeed       *prometheus.GaugeVec
	errorCode      *prometheus.GaugeVec
	cleaningTime   *prometheus.GaugeVec
	cleaningArea   *prometheus.GaugeVec
	charging       *prometheus.GaugeVec

	pollsDesc    *prometheus.Desc
	failuresDesc *prometheus.Desc
}

func NewMetricsCollector(service *Service) *MetricsCollector {
	labels := []string{"device_name", "host"}
	activityLabels := []string{"device_name", "host", "activity"}
	fanLabels := []string{"device_name", "host", "fan_speed"}
	return &MetricsCollector{
		service: service,
		available: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dreamebridge_vacuum_available",
			Help: "Whether the last status poll succeeded (1=yes, 0=no)",
		}),
		batteryPercent: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dreamebridge_vacuum_battery_percent",
			Help: "Battery percentage (0-100)",
		}, labels),
		activity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dreamebridge_vacuum_activity",
			Help: "Vacuum activity (label)",
		}, activityLabels),
		fanSpeed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dreamebridge_vacuum_fan_speed",
			Help: "Fan speed preset (label)",
		}, fanLabels),
		errorCode: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dreamebridge_vacuum_error_code",
			Help: "Device error code (0 when healthy)",
		}, labels),
		cleaningTime: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dreamebridge_vacuum_cleaning_time_seconds",
			Help: "Current cleaning time (seconds)",
		}, labels),
		cleaningArea: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dreamebridge_vacuum_cleaning_area_square_meters",
			Help: "Current cleaning area (square meters)",
		}, labels),
		charging: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dreamebridge_vacuum_charging",
			Help: "Whether the vacuum is charging (1=yes, 0=no)",
		}, labels),
		pollsDesc: prometheus.NewDesc(
			"dreamebridge_vacuum_polls_total",
			"Total status polls attempted",
			labels, nil,
		),
		failuresDesc: prometheus.NewDesc(
			"dreamebridge_vacuum_poll_failures_total",
			"Total status polls that failed",
			labels, nil,
		),
	}
}

func (c *MetricsCollector) Describe(ch chan<- *prometheus.Desc) {
	c.available.Describe(ch)
	c.batteryPercent.Describe(ch)
	c.activity.Describe(ch)
	c.fanSpeed.Describe(ch)
	c.errorCode.Describe(ch)
	c.cleaningTime.Describe(ch)
	c.cleaningArea.Describe(ch)
	c.charging.Describe(ch)
	ch <- c.pollsDesc
	ch <- c.failuresDesc
}

func (c *MetricsCollector) Collect(ch chan<- prometheus.Metric) {
	status := c.service.Snapshot()
	name := c.service.cfg.Name
	host := c.service.cfg.Host

	if status.Available {
		c.available.Set(1)
	} else {
		c.available.Set(0)
	}

	c.batteryPercent.Reset()
	c.activity.Reset()
	c.fanSpeed.Reset()
	c.errorCode.Reset()
	c.cleaningTime.Reset()
	c.cleaningArea.Reset()
	c.charging.Reset()

	if status.Seen {
		labels := prometheus.Labels{"device_name": name, "host": host}
		c.batteryPercent.With(labels).Set(float64(status.Battery))
		c.errorCode.With(labels).Set(float64(status.ErrorCode))
		c.cleaningTime.With(labels).Set(float64(status.CleanTime))
		c.cleaningArea.With(labels).Set(float64(status.CleanArea))
		if status.Charging() {
			c.charging.With(labels).Set(1)
		} else {
			c.charging.With(labels).Set(0)
		}
		c.activity.With(prometheus.Labels{
			"device_name": name, "host": host, "activity": string(status.Activity()),
		}).Set(1)
		c.fanSpeed.With(prometheus.Labels{
			"device_name": name, "host": host, "fan_speed": FanSpeedName(status.FanSpeed),
		}).Set(1)
	}

	c.available.Collect(ch)
	c.batteryPercent.Collect(ch)
	c.activity.Collect(ch)
	c.fanSpeed.Collect(ch)
	c.errorCode.Collect(ch)
	c.cleaningTime.Collect(ch)
	c.cleaningArea.Collect(ch)
	c.charging.Collect(ch)
	ch <- prometheus.MustNewConstMetric(c.pollsDesc, prometheus.CounterValue, float64(status.PollCount), name, host)
	ch <- prometheus.MustNewConstMetric(c.failuresDesc, prometheus.CounterValue, float64(status.FailCount), name, host)
}
