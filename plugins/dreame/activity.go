package dreame

import (
	"errors"
	"fmt"
)

// ErrUnknownFanSpeed rejects preset names outside the table.
var ErrUnknownFanSpeed = errors.New("unknown fan speed")

// Status codes reported by the 1C in the first property of get_status.
const (
	statusSweeping   = 1
	statusIdle       = 2
	statusPaused     = 3
	statusError      = 4
	statusGoCharging = 5
	statusCharging   = 6
)

var codeToActivity = map[int]Activity{
	statusSweeping:   ActivityCleaning,
	statusIdle:       ActivityIdle,
	statusPaused:     ActivityPaused,
	statusError:      ActivityError,
	statusGoCharging: ActivityReturning,
	statusCharging:   ActivityDocked,
}

// activityForCode falls back to idle for codes the table does not know;
// newer firmware adds codes and an unknown one is not worth an error state.
func activityForCode(code int) Activity {
	if activity, ok := codeToActivity[code]; ok {
		return activity
	}
	return ActivityIdle
}

// Fan speed presets understood by the 1C.
const (
	FanSpeedSilent   = "Silent"
	FanSpeedStandard = "Standard"
	FanSpeedMedium   = "Medium"
	FanSpeedTurbo    = "Turbo"
)

var fanSpeedCodes = map[string]int{
	FanSpeedSilent:   0,
	FanSpeedStandard: 1,
	FanSpeedMedium:   2,
	FanSpeedTurbo:    3,
}

// FanSpeeds lists the preset names in device order.
func FanSpeeds() []string {
	return []string{FanSpeedSilent, FanSpeedStandard, FanSpeedMedium, FanSpeedTurbo}
}

// FanSpeedCode resolves a preset name to the device integer.
func FanSpeedCode(name string) (int, error) {
	code, ok := fanSpeedCodes[name]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownFanSpeed, name)
	}
	return code, nil
}

// FanSpeedName resolves a device integer to a preset name. Unrecognized
// codes read as Standard.
func FanSpeedName(code int) string {
	for name, c := range fanSpeedCodes {
		if c == code {
			return name
		}
	}
	return FanSpeedStandard
}
