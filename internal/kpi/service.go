package kpi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pravado/citemind/internal/analytics"
	"github.com/pravado/citemind/internal/cache"
	"github.com/pravado/citemind/internal/config"
	"github.com/pravado/citemind/internal/logging"
	"github.com/pravado/citemind/internal/publisher"
	"github.com/pravado/citemind/internal/utils"
	"golang.org/x/sync/errgroup"
)

// Service refreshes the configured metrics
type Service struct {
	logger      *logging.Logger
	source      Source
	fallback    Source
	cache       cache.Cache
	publisher   publisher.Publisher
	specs       []MetricSpec
	params      Params
	concurrency int
	now         func() time.Time
}

// ServiceOptions wires a Service. Cache and Publisher default to no-ops.
type ServiceOptions struct {
	Logger      *logging.Logger
	Source      Source
	Fallback    Source // used when Source fails or returns no points; nil disables
	Cache       cache.Cache
	Publisher   publisher.Publisher
	Metrics     []MetricSpec
	Params      Params
	Concurrency int
}

// NewService creates a new Service
func NewService(opts ServiceOptions) (*Service, error) {
	if opts.Source == nil {
		return nil, fmt.Errorf("source is required")
	}
	if len(opts.Metrics) == 0 {
		return nil, fmt.Errorf("at least one metric is required")
	}

	s := &Service{
		logger:      opts.Logger,
		source:      opts.Source,
		fallback:    opts.Fallback,
		cache:       opts.Cache,
		publisher:   opts.Publisher,
		specs:       opts.Metrics,
		params:      opts.Params,
		concurrency: opts.Concurrency,
		now:         time.Now,
	}
	if s.logger == nil {
		s.logger = logging.Global()
	}
	if s.cache == nil {
		s.cache = cache.Nop{}
	}
	if s.publisher == nil {
		s.publisher = publisher.Nop{}
	}
	if s.concurrency < 1 {
		s.concurrency = utils.DefaultRefreshConcurrency
	}
	return s, nil
}

// NewServiceFromConfig builds the source and metric list from configuration.
// The caller owns the cache and publisher.
func NewServiceFromConfig(cfg config.KPIConfig, sourceCfg config.SourceConfig, c cache.Cache, p publisher.Publisher, logger *logging.Logger) (*Service, error) {
	specs := make([]MetricSpec, 0, len(cfg.Metrics))
	for _, m := range cfg.Metrics {
		spec, err := MetricSpecFromConfig(m)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}

	source, err := NewSource(sourceCfg, specs)
	if err != nil {
		return nil, err
	}

	var fallback Source
	if cfg.MockFallback {
		if _, isMock := source.(*MockSource); !isMock {
			fallback = NewMockSource(specs)
		}
	}

	return NewService(ServiceOptions{
		Logger:      logger,
		Source:      source,
		Fallback:    fallback,
		Cache:       c,
		Publisher:   p,
		Metrics:     specs,
		Params:      ParamsFromConfig(cfg),
		Concurrency: cfg.Concurrency,
	})
}

// Metrics returns the configured metric specs
func (s *Service) Metrics() []MetricSpec {
	out := make([]MetricSpec, len(s.specs))
	copy(out, s.specs)
	return out
}

// Spec looks up a metric by name
func (s *Service) Spec(name string) (MetricSpec, bool) {
	for _, spec := range s.specs {
		if spec.Name == name {
			return spec, true
		}
	}
	return MetricSpec{}, false
}

// RefreshMetric refreshes a single metric by name under a new refresh ID
func (s *Service) RefreshMetric(ctx context.Context, name string) (*Snapshot, error) {
	spec, ok := s.Spec(name)
	if !ok {
		return nil, NewServiceErrorWithDetails(CodeUnknownMetric, "unknown metric: "+name,
			map[string]interface{}{"metric": name})
	}
	return s.Refresh(ctx, spec, uuid.NewString())
}

// RefreshAll runs one refresh cycle over every configured metric. Snapshots are
// returned in configuration order; failed metrics are omitted and their errors joined.
// Freshly computed snapshots are published together once the cycle completes.
func (s *Service) RefreshAll(ctx context.Context) ([]*Snapshot, error) {
	refreshID := uuid.NewString()
	ctx = logging.WithRefreshID(ctx, refreshID)
	start := s.now()

	results := make([]*Snapshot, len(s.specs))
	payloads := make([][]byte, len(s.specs))
	errs := make([]error, len(s.specs))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, spec := range s.specs {
		i, spec := i, spec
		g.Go(func() error {
			snap, payload, err := s.refresh(ctx, spec, refreshID)
			if err != nil {
				errs[i] = fmt.Errorf("metric %s: %w", spec.Name, err)
				return nil
			}
			results[i] = snap
			payloads[i] = payload
			return nil
		})
	}
	_ = g.Wait()

	snapshots := make([]*Snapshot, 0, len(results))
	batch := make([]publisher.BatchMessage, 0, len(results))
	for i, snap := range results {
		if snap == nil {
			continue
		}
		snapshots = append(snapshots, snap)
		if payloads[i] != nil {
			batch = append(batch, publisher.BatchMessage{
				Subject: publisher.SnapshotSubject(snap.Metric),
				Data:    payloads[i],
			})
		}
	}
	published := s.publishBatch(ctx, batch)

	err := errors.Join(errs...)
	s.logger.WithContext(ctx).Info("Refresh cycle completed",
		"metrics", len(s.specs),
		"refreshed", len(snapshots),
		"published", published,
		"failed", len(s.specs)-len(snapshots),
		"duration", s.now().Sub(start))

	return snapshots, err
}

// Refresh computes one metric's snapshot. A cached snapshot is returned as is; a fresh
// one is cached and published on kpi.<metric>. Cache and publish failures are logged
// and do not fail the refresh.
func (s *Service) Refresh(ctx context.Context, spec MetricSpec, refreshID string) (*Snapshot, error) {
	snap, payload, err := s.refresh(ctx, spec, refreshID)
	if err != nil || payload == nil {
		return snap, err
	}

	ctx = logging.WithMetric(logging.WithRefreshID(ctx, refreshID), spec.Name)
	if err := s.publisher.Publish(ctx, publisher.SnapshotSubject(spec.Name), payload); err != nil {
		s.logger.WithContext(ctx).Warn("Failed to publish snapshot", "error", err)
	}
	return snap, nil
}

// refresh serves from the cache or computes and caches a snapshot. The encoded payload is
// returned only for freshly computed snapshots; publishing is left to the caller.
func (s *Service) refresh(ctx context.Context, spec MetricSpec, refreshID string) (*Snapshot, []byte, error) {
	ctx = logging.WithMetric(logging.WithRefreshID(ctx, refreshID), spec.Name)
	log := s.logger.WithContext(ctx)
	key := cacheKey(spec.Name)

	if cached, ok := s.cached(ctx, log, key); ok {
		log.Debug("Serving cached snapshot", "cached_refresh_id", cached.RefreshID)
		return cached, nil, nil
	}

	data, fallback, err := s.fetch(ctx, log, spec)
	if err != nil {
		log.Error("Failed to fetch series", "error", err)
		return nil, nil, err
	}

	snap, err := BuildSnapshot(spec, data, s.params)
	if err != nil {
		return nil, nil, err
	}
	snap.RefreshID = refreshID
	snap.Fallback = fallback
	snap.GeneratedAt = s.now().UTC()

	payload, err := json.Marshal(snap)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := s.cache.Set(ctx, key, payload); err != nil {
		log.Warn("Failed to cache snapshot", "error", err)
	}

	log.Debug("Snapshot computed",
		"points", snap.Points,
		"current", snap.Current,
		"delta", snap.Delta.Value,
		"anomalies", snap.Anomalies.Len(),
		"fallback", fallback)

	return snap, payload, nil
}

// publishBatch sends a cycle's fresh snapshots and returns how many went out
func (s *Service) publishBatch(ctx context.Context, batch []publisher.BatchMessage) int {
	if len(batch) == 0 {
		return 0
	}
	published, err := s.publisher.PublishBatch(ctx, batch)
	if err != nil {
		s.logger.WithContext(ctx).Warn("Failed to publish snapshots", "error", err, "published", published, "total", len(batch))
	} else if published < len(batch) {
		s.logger.WithContext(ctx).Warn("Some snapshots were not published", "published", published, "total", len(batch))
	}
	return published
}

// Invalidate drops a metric's cached snapshot so the next refresh recomputes it
func (s *Service) Invalidate(ctx context.Context, metric string) error {
	return s.cache.Delete(ctx, cacheKey(metric))
}

func (s *Service) cached(ctx context.Context, log *logging.Logger, key string) (*Snapshot, bool) {
	payload, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Warn("Cache lookup failed", "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		log.Warn("Discarding undecodable cached snapshot", "error", err)
		return nil, false
	}
	return &snap, true
}

// fetch reads the primary source and switches to the fallback when it fails or is empty
func (s *Service) fetch(ctx context.Context, log *logging.Logger, spec MetricSpec) (analytics.TimeSeriesData, bool, error) {
	data, err := s.source.Series(ctx, spec.Name)
	if err == nil && data.Len() > 0 {
		return data, false, nil
	}

	if s.fallback == nil {
		if err != nil {
			return nil, false, wrapSourceError(spec.Name, err)
		}
		return nil, false, NewServiceErrorWithDetails(CodeEmptySeries, "no data points for metric "+spec.Name,
			map[string]interface{}{"metric": spec.Name})
	}

	if err != nil {
		log.Warn("Source failed, using fallback series", "error", err)
	} else {
		log.Warn("Source returned no points, using fallback series")
	}

	data, err = s.fallback.Series(ctx, spec.Name)
	if err != nil {
		return nil, false, wrapSourceError(spec.Name, err)
	}
	return data, true, nil
}

func wrapSourceError(metric string, err error) error {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return &ServiceError{
		Code:    CodeSourceFailed,
		Message: fmt.Sprintf("failed to load series for %s: %v", metric, err),
		Details: map[string]interface{}{"metric": metric},
	}
}

func cacheKey(metric string) string {
	return utils.SnapshotSubjectPrefix + ":" + metric
}
