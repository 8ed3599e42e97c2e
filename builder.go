package coachvault

import (
	"errors"

	"github.com/futurepoint/coachvault/identity"
	"github.com/futurepoint/coachvault/internal/rate"
	"github.com/futurepoint/coachvault/jwt"
	"github.com/futurepoint/coachvault/store"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an [Engine]. A builder is single-use.
type Builder struct {
	config Config

	store    store.Client
	identity identity.Client
	redis    *redis.Client

	auditSink AuditSink

	built bool
}

func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithStore sets the remote object store client. Required.
func (b *Builder) WithStore(client store.Client) *Builder {
	b.store = client
	return b
}

// WithIdentity sets the external identity endpoint client. Required.
func (b *Builder) WithIdentity(client identity.Client) *Builder {
	b.identity = client
	return b
}

// WithRedis enables the login rate limiter. Optional: without it every
// request is fully stateless and login throttling is off.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.store == nil {
		return nil, errors.New("store client required")
	}
	if b.identity == nil {
		return nil, errors.New("identity client required")
	}

	jm, err := jwt.NewManager(jwt.Config{
		SessionTTL:    cfg.Session.TTL,
		SigningMethod: jwt.SigningMethod(cfg.Session.SigningMethod),
		PrivateKey:    cloneBytes(cfg.Session.PrivateKey),
		PublicKey:     cloneBytes(cfg.Session.PublicKey),
		Issuer:        cfg.Session.Issuer,
		Leeway:        cfg.Session.Leeway,
	})
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:     cfg,
		store:      b.store,
		identity:   b.identity,
		jwtManager: jm,
	}

	if b.redis != nil {
		engine.rateLimiter = rate.New(b.redis, rate.Config{
			EnableIPThrottle:      cfg.Security.EnableIPThrottle,
			MaxLoginAttempts:      cfg.Security.MaxLoginAttempts,
			LoginCooldownDuration: cfg.Security.LoginCooldownDuration,
		})
	}

	engine.audit = newAuditDispatcher(cfg.Audit, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)

	b.built = true

	return engine, nil
}
