// Package scheduler runs the periodic page cache refresh. Invalidation after
// writes keeps the cache correct; the scheduled purge keeps long-cached pages
// from drifting when the store is changed out of band.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/tokhel/ink/internal/pagecache"
)

// CacheRefreshScheduler purges the rendered page cache on a cron schedule.
type CacheRefreshScheduler struct {
	cache    *pagecache.Cache
	schedule string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.Mutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewCacheRefreshScheduler creates a scheduler that purges cache on the given
// cron schedule (standard five-field format).
func NewCacheRefreshScheduler(cache *pagecache.Cache, schedule string) *CacheRefreshScheduler {
	return &CacheRefreshScheduler{
		cache:    cache,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler.
func (s *CacheRefreshScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, s.runPurge)
	if err != nil {
		return fmt.Errorf("invalid cache refresh schedule %q: %w", s.schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Cache refresh scheduler: started with schedule %q", s.schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler.
func (s *CacheRefreshScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false

	log.Printf("Cache refresh scheduler: stopped")
}

func (s *CacheRefreshScheduler) runPurge() {
	dropped := s.cache.Len()
	s.cache.Purge()
	log.Printf("Cache refresh scheduler: purged %d cached pages", dropped)
}
