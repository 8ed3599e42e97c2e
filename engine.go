package coachvault

import (
	"github.com/futurepoint/coachvault/identity"
	"github.com/futurepoint/coachvault/internal/rate"
	"github.com/futurepoint/coachvault/jwt"
	"github.com/futurepoint/coachvault/store"
)

// Engine is the authorization-and-content-store core: login, session
// verification, CAS roster and note mutation, and listing aggregation.
// All durable state lives in the remote store; the engine itself holds
// nothing but configuration and clients, so any number of instances can
// serve the same namespace concurrently. The remote store's CAS check is
// the only synchronization point between them.
type Engine struct {
	config      Config
	store       store.Client
	identity    identity.Client
	rateLimiter *rate.Limiter
	audit       *auditDispatcher
	metrics     *Metrics
	jwtManager  *jwt.Manager
}

// Close flushes and stops the audit dispatcher.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports how many audit events were dropped under pressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of all counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// SessionCookieName returns the configured session cookie name for HTTP
// surfaces.
func (e *Engine) SessionCookieName() string {
	return e.config.Session.CookieName
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}
