package rate

import (
	"context"
	"sync"
	"time"

	"evdsrates/internal/metrics"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

const defaultSyncInterval = time.Hour

type Scheduler struct {
	saver    Saver
	syncCfg  SyncConfig
	interval time.Duration
	clock    clockwork.Clock
	metrics  *metrics.Metrics
	// -----
	mu    sync.Mutex
	sched gocron.Scheduler
}

func (s *Scheduler) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler(gocron.WithClock(s.clock))
	if err != nil {
		return err
	}

	job := func(jobCtx context.Context) {
		execID := uuid.NewString()
		if _, syncErr := SyncRates(jobCtx, execID, s.saver, s.syncCfg, s.clock, s.metrics); syncErr != nil {
			logrus.Errorf("Sync rates job %s failed: %v", execID, syncErr)
		}
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(job),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return err
	}

	s.mu.Lock()
	s.sched = scheduler
	s.mu.Unlock()
	scheduler.Start()

	// Stop scheduler when the provided context is canceled.
	go func() {
		<-ctx.Done()
		if sdErr := s.Shutdown(); sdErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", sdErr)
		}
	}()
	return nil
}

// Running reports whether the scheduler has been started and not yet shut down.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched != nil
}

func (s *Scheduler) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sched == nil {
		return nil
	}
	err := s.sched.Shutdown()
	s.sched = nil
	return err
}

func NewScheduler(saver Saver, syncCfg SyncConfig, interval time.Duration, clock clockwork.Clock, m *metrics.Metrics) *Scheduler {
	if interval <= 0 {
		interval = defaultSyncInterval
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scheduler{saver: saver, syncCfg: syncCfg, interval: interval, clock: clock, metrics: m}
}
