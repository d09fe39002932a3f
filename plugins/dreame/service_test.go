package dreame

import (
	"errors"
	"testing"
)

func TestPollSuccess(t *testing.T) {
	device := &fakeDevice{status: DeviceStatus{
		Battery:   73,
		FanSpeed:  2,
		Status:    1,
		CleanTime: 300,
		CleanArea: 12,
	}}
	svc := newTestService(device)

	svc.poll()

	status := svc.Snapshot()
	if !status.Available || !status.Seen {
		t.Fatalf("expected available seen status, got %+v", status)
	}
	if status.Battery != 73 || status.FanSpeed != 2 || status.Code != 1 {
		t.Errorf("unexpected snapshot %+v", status)
	}
	if status.Activity() != ActivityCleaning {
		t.Errorf("expected cleaning, got %s", status.Activity())
	}
	if status.PollCount != 1 || status.FailCount != 0 {
		t.Errorf("unexpected counters %+v", status)
	}
}

func TestPollFailureKeepsLastKnown(t *testing.T) {
	device := &fakeDevice{status: DeviceStatus{Battery: 55, Status: 6}}
	svc := newTestService(device)

	svc.poll()
	device.err = errors.New("timeout")
	svc.poll()

	status := svc.Snapshot()
	if status.Available {
		t.Error("expected unavailable after failed poll")
	}
	if !status.Seen || status.Battery != 55 || status.Code != 6 {
		t.Errorf("last-known values should survive a failure, got %+v", status)
	}
	if status.LastError == "" {
		t.Error("expected last error to be recorded")
	}
	if status.PollCount != 2 || status.FailCount != 1 {
		t.Errorf("unexpected counters %+v", status)
	}
}

func TestPollRecovery(t *testing.T) {
	device := &fakeDevice{err: errors.New("unreachable")}
	svc := newTestService(device)

	svc.poll()
	if svc.Snapshot().Available {
		t.Fatal("expected unavailable")
	}

	device.err = nil
	device.status = DeviceStatus{Battery: 90, Status: 2}
	svc.poll()

	status := svc.Snapshot()
	if !status.Available || status.LastError != "" {
		t.Errorf("expected recovery, got %+v", status)
	}
	if status.Activity() != ActivityIdle {
		t.Errorf("expected idle, got %s", status.Activity())
	}
}

func TestPollNotifiesListeners(t *testing.T) {
	device := &fakeDevice{status: DeviceStatus{Battery: 42, Status: 3}}
	svc := newTestService(device)

	var seen []Status
	svc.OnUpdate(func(status Status) { seen = append(seen, status) })

	svc.poll()
	svc.poll()

	if len(seen) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(seen))
	}
	if seen[0].Battery != 42 || seen[0].Activity() != ActivityPaused {
		t.Errorf("unexpected notification %+v", seen[0])
	}
}

func TestStartStopLifecycle(t *testing.T) {
	device := &fakeDevice{status: DeviceStatus{Battery: 100, Status: 6}}
	svc := newTestService(device)

	svc.Start()
	svc.Stop()

	if svc.Snapshot().PollCount == 0 {
		t.Error("expected at least one poll before stop")
	}
}
