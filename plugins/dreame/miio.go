package dreame

import (
	"context"
	"errors"
	"sync"

	miio "github.com/vkorn/go-miio"
)

// Fan power percentages the miio transport expects for each 1C preset.
var fanCodeToPower = map[int]uint8{
	0: 38,
	1: 60,
	2: 77,
	3: 90,
}

// miioDevice adapts the go-miio vacuum client to the Device contract. The
// client reports state asynchronously over UpdateChan; the adapter drains
// that channel into a guarded snapshot and lets Status wait for a fresh one.
type miioDevice struct {
	vac *miio.Vacuum

	mu      sync.Mutex
	state   miio.VacuumState
	changed chan struct{}
}

func newMiioDevice(host, token string) (*miioDevice, error) {
	vac, err := miio.NewVacuum(host, token)
	if err != nil {
		return nil, err
	}
	d := &miioDevice{
		vac:     vac,
		changed: make(chan struct{}),
	}
	go d.drain()
	return d, nil
}

func (d *miioDevice) drain() {
	for msg := range d.vac.UpdateChan {
		state, ok := msg.State.(*miio.VacuumState)
		if !ok || state == nil {
			continue
		}
		d.mu.Lock()
		d.state = *state
		close(d.changed)
		d.changed = make(chan struct{})
		d.mu.Unlock()
	}
}

func (d *miioDevice) Status(ctx context.Context) (DeviceStatus, error) {
	d.mu.Lock()
	changed := d.changed
	d.mu.Unlock()

	if !d.vac.UpdateStatus() {
		return DeviceStatus{}, errors.New("status request failed")
	}

	select {
	case <-changed:
	case <-ctx.Done():
		return DeviceStatus{}, ctx.Err()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return fromVacuumState(d.state), nil
}

func (d *miioDevice) Start(_ context.Context) error {
	return checkOK(d.vac.StartCleaning(), "start cleaning")
}

func (d *miioDevice) Stop(_ context.Context) error {
	return checkOK(d.vac.StopCleaning(), "stop cleaning")
}

func (d *miioDevice) StopSweeping(_ context.Context) error {
	return checkOK(d.vac.PauseCleaning(), "pause cleaning")
}

func (d *miioDevice) ReturnHome(_ context.Context) error {
	return checkOK(d.vac.StopCleaningAndDock(), "return to dock")
}

func (d *miioDevice) Locate(_ context.Context) error {
	return checkOK(d.vac.FindMe(), "find me")
}

func (d *miioDevice) SetFanSpeed(_ context.Context, code int) error {
	power, ok := fanCodeToPower[code]
	if !ok {
		power = fanCodeToPower[1]
	}
	return checkOK(d.vac.SetFanPower(power), "set fan power")
}

func (d *miioDevice) RawCommand(context.Context, string, []any) error {
	return ErrNotSupported
}

func (d *miioDevice) Close() {
	d.vac.Stop()
}

func checkOK(ok bool, action string) error {
	if !ok {
		return errors.New(action + " failed")
	}
	return nil
}

func fromVacuumState(state miio.VacuumState) DeviceStatus {
	return DeviceStatus{
		Battery:   state.Battery,
		FanSpeed:  fanPowerToCode(state.FanPower),
		Status:    statusCodeFor(state),
		Error:     errorCodeFor(state.Error),
		CleanTime: state.CleanTime,
		CleanArea: state.CleanArea,
	}
}

func fanPowerToCode(power int) int {
	switch {
	case power <= int(fanCodeToPower[0]):
		return 0
	case power <= int(fanCodeToPower[1]):
		return 1
	case power <= int(fanCodeToPower[2]):
		return 2
	default:
		return 3
	}
}

// statusCodeFor normalizes the transport's state enum into the 1C status
// code space the entity layer understands.
func statusCodeFor(state miio.VacuumState) int {
	if state.Error != miio.VacErrorNo {
		return statusError
	}
	switch state.State {
	case miio.VacStateCleaning, miio.VacStateSpot, miio.VacStateZone:
		return statusSweeping
	case miio.VacStatePaused:
		return statusPaused
	case miio.VacStateReturning, miio.VacStateDocking:
		return statusGoCharging
	case miio.VacStateCharging:
		return statusCharging
	case miio.VacStateFull:
		return statusError
	default:
		return statusIdle
	}
}

func errorCodeFor(err miio.VacError) int {
	switch err {
	case miio.VacErrorNo:
		return 0
	case miio.VacErrorCharge:
		return 9
	case miio.VacErrorFull:
		return 100
	default:
		return 1
	}
}
