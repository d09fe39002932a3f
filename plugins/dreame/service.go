package dreame

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const pollTimeout = 10 * time.Second

// Service owns the device handle: a single poller goroutine refreshes the
// status snapshot on a fixed interval, and commands delegate straight to the
// control client with no retry or queueing of their own.
type Service struct {
	cfg    Config
	device Device
	log    *logrus.Entry

	mu        sync.Mutex
	status    Status
	listeners []func(Status)

	kick chan struct{}
	stop chan struct{}
	done chan struct{}
}

func NewService(cfg Config, device Device) *Service {
	return &Service{
		cfg:    cfg,
		device: device,
		log:    logrus.WithField("plugin", "dreame"),
		kick:   make(chan struct{}, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// OnUpdate registers a status listener. Listeners run on the poller
// goroutine; register before Start.
func (s *Service) OnUpdate(fn func(Status)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Snapshot returns the last-known status.
func (s *Service) Snapshot() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Start launches the poll loop. The first poll happens immediately so the
// entity appears without waiting a full interval.
func (s *Service) Start() {
	go s.run()
}

// Stop terminates the poll loop and closes the device handle.
func (s *Service) Stop() {
	close(s.stop)
	<-s.done
	s.device.Close()
}

func (s *Service) run() {
	defer close(s.done)

	s.poll()

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.poll()
		case <-s.kick:
			s.poll()
		}
	}
}

// pollSoon requests an out-of-cycle refresh, e.g. right after a command.
func (s *Service) pollSoon() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

func (s *Service) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), pollTimeout)
	defer cancel()

	deviceStatus, err := s.device.Status(ctx)

	s.mu.Lock()
	s.status.PollCount++
	s.status.UpdatedAt = time.Now()
	if err != nil {
		// Keep last-known values; only flip availability.
		s.status.Available = false
		s.status.FailCount++
		s.status.LastError = err.Error()
	} else {
		s.status.Available = true
		s.status.Seen = true
		s.status.LastError = ""
		s.status.Battery = deviceStatus.Battery
		s.status.FanSpeed = deviceStatus.FanSpeed
		s.status.Code = deviceStatus.Status
		s.status.ErrorCode = deviceStatus.Error
		s.status.CleanTime = deviceStatus.CleanTime
		s.status.CleanArea = deviceStatus.CleanArea
	}
	snapshot := s.status
	listeners := s.listeners
	s.mu.Unlock()

	if err != nil {
		s.log.WithError(err).Warn("status poll failed")
	}

	for _, fn := range listeners {
		fn(snapshot)
	}
}
