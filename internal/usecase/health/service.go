package health

import "context"

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
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	index  IndexPinger
	record RecordPinger
}

// New creates a Service. record can be nil when no record store is wired.
func New(index IndexPinger, record RecordPinger) *Service {
	return &Service{index: index, record: record}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.index.Ping(ctx); err != nil {
		checks["index_store"] = CheckError
	} else {
		checks["index_store"] = CheckOK
	}

	if s.record != nil {
		if err := s.record.Ping(ctx); err != nil {
			checks["record_store"] = CheckError
		} else {
			checks["record_store"] = CheckOK
		}
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
