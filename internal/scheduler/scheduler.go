// Package scheduler fires the digest pipeline on wall-clock triggers,
// independent of user requests.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorhill/cronexpr"
	"github.com/redis/go-redis/v9"
)

// RunFunc is one scheduled pipeline run.
type RunFunc func(ctx context.Context) error

type trigger struct {
	id        string
	spec      string
	expr      *cronexpr.Expression
	lastFired time.Time
}

// Scheduler evaluates registered triggers on a fixed tick. Registrations
// are idempotent: the same identifier replaces the previous trigger
// instead of duplicating it. An optional redis client adds a SetNX lock
// per trigger and fire slot, so restarts or replicas near a boundary do
// not double-fire.
type Scheduler struct {
	mu       sync.Mutex
	triggers map[string]*trigger

	run      RunFunc
	rdb      *redis.Client
	loc      *time.Location
	logger   *log.Logger
	interval time.Duration
	stop     chan struct{}
}

func New(run RunFunc, rdb *redis.Client, loc *time.Location, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.New(log.Writer(), "[SCHED] ", log.LstdFlags)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		triggers: make(map[string]*trigger),
		run:      run,
		rdb:      rdb,
		loc:      loc,
		logger:   logger,
		interval: 30 * time.Second,
		stop:     make(chan struct{}),
	}
}

// Register installs a daily trigger firing at hhmm ("08:00") in the
// scheduler's timezone, keyed by id. Re-registering an id replaces the
// previous configuration.
func (s *Scheduler) Register(id, hhmm string) error {
	var h, m int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &h, &m); err != nil {
		return fmt.Errorf("trigger %s: time %q must be HH:MM: %w", id, hhmm, err)
	}
	expr, err := cronexpr.Parse(fmt.Sprintf("%d %d * * *", m, h))
	if err != nil {
		return fmt.Errorf("trigger %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.triggers[id] = &trigger{id: id, spec: hhmm, expr: expr, lastFired: time.Now().In(s.loc)}
	return nil
}

// Len reports how many triggers are active.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.triggers)
}

// Spec returns the configured time for a trigger id.
func (s *Scheduler) Spec(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.triggers[id]
	if !ok {
		return "", false
	}
	return t.spec, true
}

func (s *Scheduler) Start() {
	ticker := time.NewTicker(s.interval)
	go func() {
		for {
			select {
			case <-s.stop:
				ticker.Stop()
				return
			case <-ticker.C:
				s.tick(time.Now().In(s.loc))
			}
		}
	}()
	s.logger.Printf("scheduler started with %d triggers (%s)", s.Len(), s.loc)
}

func (s *Scheduler) Stop() { close(s.stop) }

func (s *Scheduler) tick(now time.Time) {
	for _, t := range s.due(now) {
		if !s.acquire(t, now) {
			continue
		}
		s.logger.Printf("firing trigger %s (%s)", t.id, t.spec)
		go func(id string) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			if err := s.run(ctx); err != nil {
				s.logger.Printf("trigger %s run failed: %v", id, err)
			}
		}(t.id)
	}
}

// due collects triggers whose next fire time after lastFired has passed,
// and advances their lastFired marks.
func (s *Scheduler) due(now time.Time) []*trigger {
	s.mu.Lock()
	defer s.mu.Unlock()
	var fired []*trigger
	for _, t := range s.triggers {
		next := t.expr.Next(t.lastFired)
		if next.IsZero() || next.After(now) {
			continue
		}
		t.lastFired = now
		fired = append(fired, t)
	}
	return fired
}

// acquire takes the distributed fire lock for this trigger's minute slot.
// Without redis the in-process lastFired mark is the only guard.
func (s *Scheduler) acquire(t *trigger, now time.Time) bool {
	if s.rdb == nil {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	lockKey := fmt.Sprintf("herald:sched:lock:%s:%s", t.id, now.Format("200601021504"))
	ok, err := s.rdb.SetNX(ctx, lockKey, "1", 2*time.Minute).Result()
	if err != nil {
		// redis being down must not silence the digest entirely
		s.logger.Printf("trigger %s lock error: %v", t.id, err)
		return true
	}
	if ok {
		s.rdb.Set(ctx, "herald:sched:last:"+t.id, now.Format(time.RFC3339), 0)
	}
	return ok
}
