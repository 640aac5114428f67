package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ExpirySweeper periodically runs the batch expiry sweep. It is the external
// scheduling trigger: the lifecycle manager itself never self-schedules, and
// read paths stay correct whether or not the sweep has run.
type ExpirySweeper struct {
	logger   *zap.Logger
	stories  StoryService
	interval time.Duration
	stopChan chan struct{}
}

// NewExpirySweeper creates a sweeper that runs at the given interval.
func NewExpirySweeper(logger *zap.Logger, stories StoryService, interval time.Duration) *ExpirySweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &ExpirySweeper{
		logger:   logger,
		stories:  stories,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the periodic sweeping.
func (s *ExpirySweeper) Start() {
	go s.run()
}

// Stop stops the periodic sweeping.
func (s *ExpirySweeper) Stop() {
	close(s.stopChan)
}

func (s *ExpirySweeper) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopChan:
			s.logger.Info("expiry sweeper stopped")
			return
		}
	}
}

func (s *ExpirySweeper) sweep() {
	ctx := context.Background()

	count, err := s.stories.SweepExpired(ctx)
	if err != nil {
		// Log and carry on; the next tick retries and reads never depend
		// on the sweep having run.
		s.logger.Error("expiry sweep failed", zap.Error(err))
		return
	}

	if count > 0 {
		s.logger.Info("deactivated expired stories", zap.Int64("count", count))
	}
}
