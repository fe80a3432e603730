package server

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"sentinel/policyrtd/pkg/telemetry/logging"
)

// evictionScheduler runs the idle-session sweep on a fixed interval using
// cron's "@every" schedule, so the sweep cadence is configured the same
// way any other scheduled job in this codebase would be.
type evictionScheduler struct {
	cron *cron.Cron
	entry cron.EntryID
}

func newEvictionScheduler(registry *sessionRegistry, ttl, interval time.Duration, logger *logging.Logger) (*evictionScheduler, error) {
	c := cron.New()

	spec := fmt.Sprintf("@every %s", interval)
	id, err := c.AddFunc(spec, func() {
		evicted := registry.EvictIdle(time.Now(), ttl)
		if evicted > 0 {
			logger.Info("evicted idle sessions", "count", evicted, "ttl", ttl.String())
		}
	})
	if err != nil {
		return nil, fmt.Errorf("scheduling eviction sweep: %w", err)
	}

	return &evictionScheduler{cron: c, entry: id}, nil
}

func (s *evictionScheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for any in-flight sweep to finish.
func (s *evictionScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
