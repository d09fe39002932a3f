package dreame

import "time"

// Activity is the platform-visible vacuum activity. Values match the MQTT
// vacuum state schema, so they are published verbatim.
type Activity string

const (
	ActivityCleaning  Activity = "cleaning"
	ActivityIdle      Activity = "idle"
	ActivityPaused    Activity = "paused"
	ActivityError     Activity = "error"
	ActivityReturning Activity = "returning"
	ActivityDocked    Activity = "docked"
	// ActivityUnknown means no status has been observed yet. It is never
	// published; the entity stays silent until the first successful poll.
	ActivityUnknown Activity = "unknown"
)

// Status is the last-known device snapshot maintained by the poller.
type Status struct {
	Battery    int
	FanSpeed   int
	Code       int
	ErrorCode  int
	CleanTime  int
	CleanArea  int
	Seen       bool
	Available  bool
	UpdatedAt  time.Time
	LastError  string
	PollCount  uint64
	FailCount  uint64
}

// Activity maps the device status code to the platform activity.
func (s Status) Activity() Activity {
	if !s.Seen {
		return ActivityUnknown
	}
	return activityForCode(s.Code)
}

// Charging reports whether the device is on the dock and charging.
func (s Status) Charging() bool {
	return s.Seen && s.Code == statusCharging
}

// Attributes builds the extra state attributes published alongside state.
// error_code appears only when the device reports a fault.
func (s Status) Attributes() map[string]any {
	attrs := make(map[string]any)
	if !s.Seen {
		return attrs
	}
	attrs["cleaning_time"] = s.CleanTime
	attrs["cleaning_area"] = s.CleanArea
	if s.ErrorCode != 0 {
		attrs["error_code"] = s.ErrorCode
	}
	return attrs
}
