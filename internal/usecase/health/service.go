package health

import (
	"context"
	"errors"
	"time"

	"github.com/kailas-cloud/hervoice/internal/domain"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckDisabled marks a remote provider with no credential configured.
	// The pipeline runs on its fallback path, so it does not degrade health.
	CheckDisabled CheckResult = "disabled"
)

// DefaultRemoteTimeout bounds each remote provider probe.
const DefaultRemoteTimeout = 3 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	corpus  Pinger
	store   Pinger
	remotes map[string]RemoteChecker
	timeout time.Duration
}

// New creates a Service. store can be nil when no KV store is in use.
func New(corpus, store Pinger) *Service {
	return &Service{
		corpus:  corpus,
		store:   store,
		remotes: make(map[string]RemoteChecker),
		timeout: DefaultRemoteTimeout,
	}
}

// WithRemote adds a remote provider probe under name.
func (s *Service) WithRemote(name string, rc RemoteChecker) *Service {
	if rc != nil {
		s.remotes[name] = rc
	}
	return s
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	checks["corpus"] = result(s.corpus.Ping(ctx))
	if s.store != nil {
		checks["store"] = result(s.store.Ping(ctx))
	}

	for name, rc := range s.remotes {
		probeCtx, cancel := context.WithTimeout(ctx, s.timeout)
		err := rc.HealthCheck(probeCtx)
		cancel()
		if errors.Is(err, domain.ErrCredentialMissing) {
			checks[name] = CheckDisabled
			continue
		}
		checks[name] = result(err)
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
