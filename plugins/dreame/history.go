package dreame

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vosola/dreamebridge/internal/archive"
)

const archiveTimeout = 10 * time.Second

// cleaningRecord is the archived summary of one cleaning run.
type cleaningRecord struct {
	StartedAt        string `json:"started_at"`
	EndedAt          string `json:"ended_at"`
	DurationSeconds  int    `json:"duration_seconds"`
	AreaSquareMeters int    `json:"area_square_meters"`
	FinalBattery     int    `json:"final_battery"`
	ErrorCode        int    `json:"error_code,omitempty"`
}

// historyRecorder watches status transitions and archives a record each
// time a cleaning run ends. Runs are detected from polls, so short runs
// between two polls can be missed; that is acceptable for a 30s interval.
type historyRecorder struct {
	store    archive.Store
	deviceID string
	log      *logrus.Entry

	mu        sync.Mutex
	active    bool
	startedAt time.Time
}

func newHistoryRecorder(store archive.Store, deviceID string) *historyRecorder {
	return &historyRecorder{
		store:    store,
		deviceID: deviceID,
		log:      logrus.WithField("plugin", "dreame"),
	}
}

func (r *historyRecorder) observe(status Status) {
	if !status.Seen {
		return
	}

	cleaning := status.Activity() == ActivityCleaning

	r.mu.Lock()
	switch {
	case cleaning && !r.active:
		r.active = true
		r.startedAt = status.UpdatedAt
		r.mu.Unlock()
	case !cleaning && r.active:
		r.active = false
		startedAt := r.startedAt
		r.mu.Unlock()
		r.archive(startedAt, status)
	default:
		r.mu.Unlock()
	}
}

func (r *historyRecorder) archive(startedAt time.Time, status Status) {
	record := cleaningRecord{
		StartedAt:        startedAt.UTC().Format(time.RFC3339),
		EndedAt:          status.UpdatedAt.UTC().Format(time.RFC3339),
		DurationSeconds:  status.CleanTime,
		AreaSquareMeters: status.CleanArea,
		FinalBattery:     status.Battery,
		ErrorCode:        status.ErrorCode,
	}
	payload, err := json.Marshal(record)
	if err != nil {
		r.log.WithError(err).Warn("encode cleaning record")
		return
	}

	key := "history/" + r.deviceID + "/" + status.UpdatedAt.UTC().Format("20060102T150405Z") + ".json"
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		if err := r.store.Put(ctx, key, payload); err != nil {
			r.log.WithError(err).WithField("key", key).Warn("archive cleaning record")
		}
	}()
}
