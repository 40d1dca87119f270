package kpi

import (
	"context"
	"sync"
	"time"

	"github.com/pravado/citemind/internal/logging"
	"github.com/pravado/citemind/internal/utils"
)

// Poller runs a refresh cycle immediately on Start and then on every interval tick
type Poller struct {
	logger   *logging.Logger
	service  *Service
	interval time.Duration
	timeout  time.Duration

	// OnCycle, when set, receives the result of every cycle
	OnCycle func(snapshots []*Snapshot, err error)

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewPoller creates a new poller
func NewPoller(logger *logging.Logger, service *Service, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = utils.DefaultPollInterval
	}
	if logger == nil {
		logger = logging.Global()
	}
	timeout := utils.DefaultRefreshTimeout
	if interval < timeout {
		timeout = interval
	}
	return &Poller{
		logger:   logger,
		service:  service,
		interval: interval,
		timeout:  timeout,
		stopCh:   make(chan struct{}),
	}
}

// Start begins polling in a background goroutine
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("Starting KPI poller",
		"poll_interval", p.interval,
		"metrics", len(p.service.specs))

	p.wg.Add(1)
	go p.pollLoop(ctx)
}

// Stop stops the poller and waits for the running cycle to finish
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
	p.wg.Wait()
	p.logger.Info("KPI poller stopped")
}

func (p *Poller) pollLoop(ctx context.Context) {
	defer p.wg.Done()

	p.runCycle(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.runCycle(ctx)
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		}
	}
}

func (p *Poller) runCycle(ctx context.Context) {
	cycleCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	snapshots, err := p.service.RefreshAll(cycleCtx)
	if err != nil {
		p.logger.Error("Refresh cycle had failures", "error", err)
	}
	if p.OnCycle != nil {
		p.OnCycle(snapshots, err)
	}
}
