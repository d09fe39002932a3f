package dreame

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownCommand rejects verbs outside the dispatch table.
var ErrUnknownCommand = errors.New("unknown command")

// Platform command verbs. They match the MQTT vacuum command payloads.
const (
	CommandStart        = "start"
	CommandStop         = "stop"
	CommandPause        = "pause"
	CommandReturnToBase = "return_to_base"
	CommandLocate       = "locate"
)

// Dispatch delegates one platform command to the control client. A
// successful command schedules an immediate status refresh.
func (s *Service) Dispatch(ctx context.Context, command string) error {
	var err error
	switch command {
	case CommandStart:
		err = s.device.Start(ctx)
	case CommandStop:
		err = s.device.Stop(ctx)
	case CommandPause:
		// The 1C has no real pause; the closest verb is stop sweeping.
		err = s.device.StopSweeping(ctx)
	case CommandReturnToBase:
		err = s.device.ReturnHome(ctx)
	case CommandLocate:
		err = s.device.Locate(ctx)
	default:
		return fmt.Errorf("%w %q", ErrUnknownCommand, command)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", command, err)
	}
	s.pollSoon()
	return nil
}

// SetFanSpeed resolves the preset name and delegates. Unknown names are
// rejected before any device call.
func (s *Service) SetFanSpeed(ctx context.Context, name string) error {
	code, err := FanSpeedCode(name)
	if err != nil {
		return err
	}
	if err := s.device.SetFanSpeed(ctx, code); err != nil {
		return fmt.Errorf("set fan speed: %w", err)
	}
	s.pollSoon()
	return nil
}

// SendCommand passes a raw miio method through to the control client.
func (s *Service) SendCommand(ctx context.Context, method string, params []any) error {
	if method == "" {
		return fmt.Errorf("command method is required")
	}
	if params == nil {
		params = []any{}
	}
	return s.device.RawCommand(ctx, method, params)
}
