package dreame

import (
	"context"
	"errors"
)

// ErrNotSupported is returned when the control client has no transport for
// an operation (the go-miio vacuum exposes no raw command path).
var ErrNotSupported = errors.New("operation not supported by control client")

// DeviceStatus is one status read from the control client.
type DeviceStatus struct {
	Battery   int
	FanSpeed  int
	Status    int
	Error     int
	CleanTime int
	CleanArea int
}

// Device is the bundled device-control client as this plugin sees it. The
// wire protocol behind it is out of scope here; implementations wrap an
// external control library.
type Device interface {
	Status(ctx context.Context) (DeviceStatus, error)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	StopSweeping(ctx context.Context) error
	ReturnHome(ctx context.Context) error
	Locate(ctx context.Context) error
	SetFanSpeed(ctx context.Context, code int) error
	RawCommand(ctx context.Context, method string, params []any) error
	Close()
}
