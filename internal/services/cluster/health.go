package cluster

import (
	"encoding/json"
	"log"
	"maps"
	"net/http"
	"slices"
	"sync"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc reports a failed dependency by returning an error.
type CheckFunc func() error

// Report is the body served on /health. Checks lists every registered check
// by name; Failures holds the ones that did not pass.
type Report struct {
	Status   string            `json:"status"`
	Checks   []string          `json:"checks"`
	Failures map[string]string `json:"failures,omitempty"`
}

func (r Report) Healthy() bool {
	return r.Status == StatusHealthy
}

// HealthAggregator runs named dependency checks for the game service.
type HealthAggregator struct {
	mu     sync.RWMutex
	checks map[string]CheckFunc
}

func NewHealthAggregator() *HealthAggregator {
	return &HealthAggregator{
		checks: make(map[string]CheckFunc),
	}
}

// AddCheck registers check under name, replacing any previous one.
func (h *HealthAggregator) AddCheck(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// Check runs every check without holding the lock, so a slow dependency
// does not block AddCheck.
func (h *HealthAggregator) Check() Report {
	h.mu.RLock()
	checks := maps.Clone(h.checks)
	h.mu.RUnlock()

	report := Report{
		Status: StatusHealthy,
		Checks: slices.Sorted(maps.Keys(checks)),
	}
	if report.Checks == nil {
		report.Checks = []string{}
	}
	for _, name := range report.Checks {
		if err := checks[name](); err != nil {
			if report.Failures == nil {
				report.Failures = make(map[string]string)
			}
			report.Failures[name] = err.Error()
			report.Status = StatusUnhealthy
		}
	}
	return report
}

// Handler serves the Report with 200 when healthy and 503 otherwise.
func (h *HealthAggregator) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := h.Check()
		status := http.StatusOK
		if !report.Healthy() {
			log.Printf("[Cluster] WARN: Health check failed: %v", report.Failures)
			status = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(report); err != nil {
			log.Printf("[Cluster] WARN: Failed to write health report: %v", err)
		}
	}
}
