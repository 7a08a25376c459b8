package health

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Check statuses.
const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// CheckFunc performs one preflight check. It returns nil if the component
// is usable, or an error describing the problem.
type CheckFunc func(ctx context.Context) error

// CheckResult represents the result of a single check.
type CheckResult struct {
	// Name is the name the check was registered under.
	Name string `json:"name"`

	// Status is "ok", "failed" or "skipped".
	Status string `json:"status"`

	// Message describes a failure.
	Message string `json:"message,omitempty"`

	// Duration is how long the check took.
	Duration time.Duration `json:"duration_ns,omitempty"`
}

// Report is the outcome of running every registered check.
type Report struct {
	// Status is "ok" when no check failed, "failed" otherwise.
	Status string `json:"status"`

	// Checks holds the results in registration order.
	Checks []CheckResult `json:"checks"`

	// Timestamp is when the checks finished.
	Timestamp time.Time `json:"timestamp"`
}

// OK reports whether no check failed.
func (r Report) OK() bool {
	return r.Status == StatusOK
}

// Checker runs named preflight checks in registration order.
type Checker struct {
	mu     sync.RWMutex
	names  []string
	checks map[string]CheckFunc

	// Timeout for individual checks
	checkTimeout time.Duration
}

// ErrCheckTimeout is reported when a check does not finish in time.
var ErrCheckTimeout = errors.New("check timeout")

// New creates a checker with the given per-check timeout.
// If timeout is 0, defaults to 10 seconds per check.
func New(checkTimeout time.Duration) *Checker {
	if checkTimeout == 0 {
		checkTimeout = 10 * time.Second
	}

	return &Checker{
		checks:       make(map[string]CheckFunc),
		checkTimeout: checkTimeout,
	}
}

// RegisterCheck registers check under name. Registering a name again
// replaces the check but keeps its position. A nil check is reported as
// skipped.
func (c *Checker) RegisterCheck(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.checks[name]; !ok {
		c.names = append(c.names, name)
	}
	c.checks[name] = check
}

// Run executes every check in order. A failing check does not stop the
// ones after it.
func (c *Checker) Run(ctx context.Context) Report {
	c.mu.RLock()
	names := append([]string(nil), c.names...)
	checks := make(map[string]CheckFunc, len(c.checks))
	for name, check := range c.checks {
		checks[name] = check
	}
	c.mu.RUnlock()

	report := Report{
		Status: StatusOK,
		Checks: make([]CheckResult, 0, len(names)),
	}

	for _, name := range names {
		result := c.runCheck(ctx, checks[name])
		result.Name = name
		if result.Status == StatusFailed {
			report.Status = StatusFailed
		}
		report.Checks = append(report.Checks, result)
	}

	report.Timestamp = time.Now()
	return report
}

// runCheck executes a single check with timeout.
func (c *Checker) runCheck(ctx context.Context, check CheckFunc) CheckResult {
	if check == nil {
		return CheckResult{Status: StatusSkipped}
	}

	checkCtx, cancel := context.WithTimeout(ctx, c.checkTimeout)
	defer cancel()

	start := time.Now()

	// Run check in goroutine to support timeout
	errChan := make(chan error, 1)
	go func() {
		errChan <- check(checkCtx)
	}()

	select {
	case err := <-errChan:
		duration := time.Since(start)
		if err != nil {
			return CheckResult{
				Status:   StatusFailed,
				Message:  err.Error(),
				Duration: duration,
			}
		}
		return CheckResult{
			Status:   StatusOK,
			Duration: duration,
		}

	case <-checkCtx.Done():
		return CheckResult{
			Status:   StatusFailed,
			Message:  ErrCheckTimeout.Error(),
			Duration: time.Since(start),
		}
	}
}

// ListChecks returns the registered check names in order.
func (c *Checker) ListChecks() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]string(nil), c.names...)
}
