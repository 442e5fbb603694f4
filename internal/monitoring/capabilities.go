package monitoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const HEALTHCHECK_INTERVAL = 15 * time.Second

// Capability is a third-party facility the process depends on. Required
// capabilities must pass their probe at startup or the process stops.
type Capability struct {
	Name     string
	Required bool
	Probe    func(ctx context.Context) error
}

// MissingCapabilityError names the required capability that failed.
type MissingCapabilityError struct {
	Name string
	Err  error
}

func (e *MissingCapabilityError) Error() string {
	return fmt.Sprintf("required capability %q is unavailable: %v", e.Name, e.Err)
}

func (e *MissingCapabilityError) Unwrap() error {
	return e.Err
}

// Status tracks the last known health of each capability.
type Status struct {
	mu      sync.RWMutex
	healthy map[string]*atomic.Bool
	order   []string
}

func NewStatus() *Status {
	return &Status{healthy: make(map[string]*atomic.Bool)}
}

func (s *Status) set(name string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, found := s.healthy[name]
	if !found {
		b = &atomic.Bool{}
		s.healthy[name] = b
		s.order = append(s.order, name)
	}
	b.Store(ok)
}

// Snapshot returns capability health keyed by name.
func (s *Status) Snapshot() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]bool, len(s.healthy))
	for _, name := range s.order {
		out[name] = s.healthy[name].Load()
	}
	return out
}

// Healthy reports whether every tracked capability passed its last probe.
func (s *Status) Healthy() bool {
	for _, ok := range s.Snapshot() {
		if !ok {
			return false
		}
	}
	return true
}

func probe(ctx context.Context, c Capability) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("probe panicked: %v", r)
		}
	}()
	if c.Probe == nil {
		return errors.New("no probe configured")
	}
	return c.Probe(ctx)
}

// CheckCapabilities probes every capability once. The first required failure
// is returned as *MissingCapabilityError; optional failures are only logged.
func CheckCapabilities(ctx context.Context, status *Status, caps ...Capability) error {
	var missing error
	for _, c := range caps {
		err := probe(ctx, c)
		status.set(c.Name, err == nil)
		if err == nil {
			slog.Info("[Startup] Capability available", slog.String("capability", c.Name))
			continue
		}
		if c.Required {
			slog.Error("[Startup] Required capability unavailable",
				slog.String("capability", c.Name),
				slog.String("error", err.Error()))
			if missing == nil {
				missing = &MissingCapabilityError{Name: c.Name, Err: err}
			}
			continue
		}
		slog.Warn("[Startup] Optional capability unavailable",
			slog.String("capability", c.Name),
			slog.String("error", err.Error()))
	}
	return missing
}

// MonitorCapabilities re-probes capabilities on a ticker until ctx is done.
func MonitorCapabilities(ctx context.Context, interval time.Duration, status *Status, caps ...Capability) {
	if interval <= 0 {
		interval = HEALTHCHECK_INTERVAL
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, c := range caps {
				err := probe(ctx, c)
				status.set(c.Name, err == nil)
				if err != nil {
					slog.Warn("[HealthCheck] Capability is unhealthy",
						slog.String("capability", c.Name),
						slog.String("error", err.Error()))
				}
			}
		}
	}
}
