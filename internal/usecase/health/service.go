package health

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded means the store answers but the provider does not: reads by id still work.
	Degraded Status = "degraded"
	// Unhealthy means the store is down; nothing can be served.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	CheckOK    CheckResult = "ok"
	CheckError CheckResult = "error"
)

// Component names reported in Report.Checks.
const (
	ComponentStore     = "store"
	ComponentEmbedding = "embedding"
)

const defaultCheckTimeout = 3 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	store    StorePinger
	provider ProviderChecker
	timeout  time.Duration
	logger   *zap.Logger
}

// New creates a Service. provider can be nil.
func New(store StorePinger, provider ProviderChecker, l *zap.Logger) *Service {
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{store: store, provider: provider, timeout: defaultCheckTimeout, logger: l}
}

// Check probes all components concurrently, each bounded by the check timeout.
func (s *Service) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var storeRes, provRes CheckResult
	var g errgroup.Group
	g.Go(func() error {
		storeRes = s.probe(ComponentStore, func() error { return s.store.Ping(ctx) })
		return nil
	})
	if s.provider != nil {
		g.Go(func() error {
			provRes = s.probe(ComponentEmbedding, func() error { return s.provider.HealthCheck(ctx) })
			return nil
		})
	}
	_ = g.Wait()

	checks := map[string]CheckResult{ComponentStore: storeRes}
	if s.provider != nil {
		checks[ComponentEmbedding] = provRes
	}

	status := Healthy
	switch {
	case storeRes == CheckError:
		status = Unhealthy
	case provRes == CheckError:
		status = Degraded
	}
	return Report{Status: status, Checks: checks}
}

func (s *Service) probe(component string, fn func() error) CheckResult {
	if err := fn(); err != nil {
		s.logger.Warn("health check failed", zap.String("component", component), zap.Error(err))
		return CheckError
	}
	return CheckOK
}
