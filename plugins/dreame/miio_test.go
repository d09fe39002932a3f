package dreame

import (
	"testing"

	miio "github.com/vkorn/go-miio"
)

func TestStatusCodeFor(t *testing.T) {
	cases := []struct {
		name  string
		state miio.VacuumState
		want  int
	}{
		{"cleaning", miio.VacuumState{State: miio.VacStateCleaning}, statusSweeping},
		{"spot", miio.VacuumState{State: miio.VacStateSpot}, statusSweeping},
		{"zone", miio.VacuumState{State: miio.VacStateZone}, statusSweeping},
		{"paused", miio.VacuumState{State: miio.VacStatePaused}, statusPaused},
		{"returning", miio.VacuumState{State: miio.VacStateReturning}, statusGoCharging},
		{"docking", miio.VacuumState{State: miio.VacStateDocking}, statusGoCharging},
		{"charging", miio.VacuumState{State: miio.VacStateCharging}, statusCharging},
		{"full", miio.VacuumState{State: miio.VacStateFull}, statusError},
		{"sleeping", miio.VacuumState{State: miio.VacStateSleeping}, statusIdle},
		{"unknown", miio.VacuumState{State: miio.VacStateUnknown}, statusIdle},
		{"error wins", miio.VacuumState{State: miio.VacStateCleaning, Error: miio.VacErrorCharge}, statusError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := statusCodeFor(tc.state); got != tc.want {
				t.Errorf("statusCodeFor(%s) = %d, want %d", tc.name, got, tc.want)
			}
		})
	}
}

func TestErrorCodeFor(t *testing.T) {
	cases := []struct {
		err  miio.VacError
		want int
	}{
		{miio.VacErrorNo, 0},
		{miio.VacErrorCharge, 9},
		{miio.VacErrorFull, 100},
		{miio.VacErrorUnknown, 1},
	}

	for _, tc := range cases {
		if got := errorCodeFor(tc.err); got != tc.want {
			t.Errorf("errorCodeFor(%d) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestFanPowerToCode(t *testing.T) {
	cases := []struct {
		power int
		want  int
	}{
		{0, 0},
		{38, 0},
		{45, 1},
		{60, 1},
		{77, 2},
		{90, 3},
		{100, 3},
	}

	for _, tc := range cases {
		if got := fanPowerToCode(tc.power); got != tc.want {
			t.Errorf("fanPowerToCode(%d) = %d, want %d", tc.power, got, tc.want)
		}
	}
}

func TestFromVacuumState(t *testing.T) {
	status := fromVacuumState(miio.VacuumState{
		Battery:   72,
		CleanArea: 18,
		CleanTime: 1260,
		FanPower:  77,
		Error:     miio.VacErrorNo,
		State:     miio.VacStateCharging,
	})

	want := DeviceStatus{
		Battery:   72,
		FanSpeed:  2,
		Status:    statusCharging,
		Error:     0,
		CleanTime: 1260,
		CleanArea: 18,
	}
	if status != want {
		t.Errorf("fromVacuumState = %+v, want %+v", status, want)
	}
}
