package dreame

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vosola/dreamebridge/internal/core"
)

func newTestPlugin(device *fakeDevice) (Plugin, *Service) {
	svc := newTestService(device)
	return Plugin{service: svc, health: core.HealthHealthy}, svc
}

func newTestServer(t *testing.T, plugin Plugin) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	plugin.RegisterHTTP(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestStatusEndpoint(t *testing.T) {
	device := &fakeDevice{status: DeviceStatus{
		Battery:   61,
		FanSpeed:  1,
		Status:    6,
		CleanTime: 1800,
		CleanArea: 25,
	}}
	plugin, svc := newTestPlugin(device)
	svc.poll()

	server := newTestServer(t, plugin)
	resp, err := http.Get(server.URL + "/api/dreame/status")
	if err != nil {
		t.Fatalf("get status: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code %d", resp.StatusCode)
	}

	var view struct {
		Activity     string         `json:"activity"`
		BatteryLevel *int           `json:"battery_level"`
		FanSpeed     string         `json:"fan_speed"`
		Available    bool           `json:"available"`
		Attributes   map[string]any `json:"attributes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("decode status: %v", err)
	}

	if view.Activity != "docked" {
		t.Errorf("expected docked, got %s", view.Activity)
	}
	if view.BatteryLevel == nil || *view.BatteryLevel != 61 {
		t.Errorf("unexpected battery %v", view.BatteryLevel)
	}
	if view.FanSpeed != "Standard" {
		t.Errorf("unexpected fan speed %s", view.FanSpeed)
	}
	if !view.Available {
		t.Error("expected available")
	}
	if view.Attributes["cleaning_time"] != float64(1800) {
		t.Errorf("unexpected attributes %v", view.Attributes)
	}
}

func TestStatusEndpointBeforeFirstPoll(t *testing.T) {
	plugin, _ := newTestPlugin(&fakeDevice{})
	server := newTestServer(t, plugin)

	resp, err := http.Get(server.URL + "/api/dreame/status")
	if err != nil {
		t.Fatalf("get status: %v", err)
	}
	defer resp.Body.Close()

	var view map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if view["activity"] != "unknown" {
		t.Errorf("expected unknown activity, got %v", view["activity"])
	}
	if view["available"] != false {
		t.Error("expected unavailable before first poll")
	}
}

func postCommand(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url+"/api/dreame/command", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post command: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestCommandEndpoint(t *testing.T) {
	device := &fakeDevice{}
	plugin, _ := newTestPlugin(device)
	server := newTestServer(t, plugin)

	resp := postCommand(t, server.URL, `{"command":"start"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code %d", resp.StatusCode)
	}
	if len(device.calls) != 1 || device.calls[0] != "start" {
		t.Errorf("unexpected device calls %v", device.calls)
	}
}

func TestCommandEndpointFanSpeed(t *testing.T) {
	device := &fakeDevice{}
	plugin, _ := newTestPlugin(device)
	server := newTestServer(t, plugin)

	resp := postCommand(t, server.URL, `{"command":"set_fan_speed","fan_speed":"Medium"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code %d", resp.StatusCode)
	}
	if device.lastFanCode != 2 {
		t.Errorf("expected fan code 2, got %d", device.lastFanCode)
	}
}

func TestCommandEndpointRejectsUnknown(t *testing.T) {
	plugin, _ := newTestPlugin(&fakeDevice{})
	server := newTestServer(t, plugin)

	resp := postCommand(t, server.URL, `{"command":"levitate"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown command, got %d", resp.StatusCode)
	}

	resp = postCommand(t, server.URL, `{"command":"set_fan_speed","fan_speed":"Warp"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown fan speed, got %d", resp.StatusCode)
	}

	resp = postCommand(t, server.URL, `{}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for missing command, got %d", resp.StatusCode)
	}
}

func TestCommandEndpointNotSupported(t *testing.T) {
	device := &fakeDevice{rawErr: ErrNotSupported}
	plugin, _ := newTestPlugin(device)
	server := newTestServer(t, plugin)

	resp := postCommand(t, server.URL, `{"command":"send_command","method":"app_spot"}`)
	if resp.StatusCode != http.StatusNotImplemented {
		t.Errorf("expected 501, got %d", resp.StatusCode)
	}
}

func TestCommandEndpointDeviceFailure(t *testing.T) {
	device := &fakeDevice{}
	plugin, _ := newTestPlugin(device)
	server := newTestServer(t, plugin)

	device.err = errors.New("timeout")
	resp := postCommand(t, server.URL, `{"command":"stop"}`)
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", resp.StatusCode)
	}
}
