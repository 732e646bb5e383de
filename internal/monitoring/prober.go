package monitoring

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/isdelr/event-registry/internal/metrics"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const probeTimeout = 10 * time.Second

// Counter is the part of the event store the prober needs.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// ProbeStatus is the outcome of the most recent probe. A zero CheckedAt means
// no probe has run yet.
type ProbeStatus struct {
	Up        bool
	Count     int64
	Err       string
	CheckedAt time.Time
}

// Prober periodically checks that the event store answers and records how
// many events it holds.
type Prober struct {
	store   Counter
	metrics *metrics.Metrics
	cron    *cron.Cron

	mu     sync.RWMutex
	status ProbeStatus
}

// NewProber schedules probes on spec, a standard cron expression or an
// "@every" descriptor. m may be nil.
func NewProber(store Counter, spec string, m *metrics.Metrics) (*Prober, error) {
	p := &Prober{
		store:   store,
		metrics: m,
		cron:    cron.New(),
	}
	if _, err := p.cron.AddFunc(spec, p.Probe); err != nil {
		return nil, fmt.Errorf("invalid probe schedule %q: %w", spec, err)
	}
	return p, nil
}

// Run probes once immediately and then starts the schedule.
func (p *Prober) Run() {
	log.Info().Msg("Starting background store prober...")
	p.Probe()
	p.cron.Start()
}

// Stop halts the schedule and waits for a running probe to finish.
func (p *Prober) Stop() {
	<-p.cron.Stop().Done()
	log.Info().Msg("Stopped background store prober.")
}

// Probe counts the events in the store and records the result.
func (p *Prober) Probe() {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	count, err := p.store.Count(ctx)
	st := ProbeStatus{Up: err == nil, Count: count, CheckedAt: time.Now()}
	if err != nil {
		st.Err = err.Error()
		log.Warn().Err(err).Msg("Prober: event store unreachable")
	} else {
		log.Debug().Int64("events", count).Msg("Prober: event store reachable")
	}

	p.mu.Lock()
	if err != nil {
		// keep the last known count
		st.Count = p.status.Count
	}
	p.status = st
	p.mu.Unlock()

	p.metrics.StoreProbed(st.Up, st.Count, st.CheckedAt)
}

// Status returns the result of the latest probe.
func (p *Prober) Status() ProbeStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}
