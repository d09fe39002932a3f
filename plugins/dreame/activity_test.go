package dreame

import (
	"errors"
	"testing"
)

func TestActivityForCode(t *testing.T) {
	cases := []struct {
		code int
		want Activity
	}{
		{1, ActivityCleaning},
		{2, ActivityIdle},
		{3, ActivityPaused},
		{4, ActivityError},
		{5, ActivityReturning},
		{6, ActivityDocked},
		{0, ActivityIdle},
		{7, ActivityIdle},
		{42, ActivityIdle},
	}
	for _, tc := range cases {
		if got := activityForCode(tc.code); got != tc.want {
			t.Errorf("activityForCode(%d) = %s, want %s", tc.code, got, tc.want)
		}
	}
}

func TestStatusActivity(t *testing.T) {
	unseen := Status{Code: 1}
	if got := unseen.Activity(); got != ActivityUnknown {
		t.Errorf("unseen status activity = %s, want %s", got, ActivityUnknown)
	}

	seen := Status{Seen: true, Code: 5}
	if got := seen.Activity(); got != ActivityReturning {
		t.Errorf("seen status activity = %s, want %s", got, ActivityReturning)
	}
}

func TestStatusCharging(t *testing.T) {
	if (Status{Seen: true, Code: 6}).Charging() != true {
		t.Error("expected charging while docked")
	}
	if (Status{Seen: true, Code: 1}).Charging() != false {
		t.Error("expected not charging while cleaning")
	}
	if (Status{Code: 6}).Charging() != false {
		t.Error("expected not charging before first poll")
	}
}

func TestFanSpeedCode(t *testing.T) {
	cases := []struct {
		name string
		want int
	}{
		{"Silent", 0},
		{"Standard", 1},
		{"Medium", 2},
		{"Turbo", 3},
	}
	for _, tc := range cases {
		code, err := FanSpeedCode(tc.name)
		if err != nil {
			t.Fatalf("FanSpeedCode(%s): %v", tc.name, err)
		}
		if code != tc.want {
			t.Errorf("FanSpeedCode(%s) = %d, want %d", tc.name, code, tc.want)
		}
	}

	if _, err := FanSpeedCode("Hyper"); !errors.Is(err, ErrUnknownFanSpeed) {
		t.Errorf("expected ErrUnknownFanSpeed, got %v", err)
	}
	if _, err := FanSpeedCode("silent"); err == nil {
		t.Error("fan speed names are case sensitive")
	}
}

func TestFanSpeedName(t *testing.T) {
	for _, name := range FanSpeeds() {
		code, err := FanSpeedCode(name)
		if err != nil {
			t.Fatalf("FanSpeedCode(%s): %v", name, err)
		}
		if got := FanSpeedName(code); got != name {
			t.Errorf("FanSpeedName(%d) = %s, want %s", code, got, name)
		}
	}

	if got := FanSpeedName(99); got != FanSpeedStandard {
		t.Errorf("unknown code should read as Standard, got %s", got)
	}
}

func TestStatusAttributes(t *testing.T) {
	unseen := Status{}
	if len(unseen.Attributes()) != 0 {
		t.Error("expected no attributes before first poll")
	}

	healthy := Status{Seen: true, CleanTime: 125, CleanArea: 14}
	attrs := healthy.Attributes()
	if attrs["cleaning_time"] != 125 || attrs["cleaning_area"] != 14 {
		t.Errorf("unexpected attributes: %v", attrs)
	}
	if _, ok := attrs["error_code"]; ok {
		t.Error("error_code should be absent when zero")
	}

	faulted := Status{Seen: true, ErrorCode: 9}
	if faulted.Attributes()["error_code"] != 9 {
		t.Errorf("expected error_code 9, got %v", faulted.Attributes())
	}
}
