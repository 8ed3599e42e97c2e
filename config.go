package coachvault

import (
	"errors"
	"strings"
	"time"
)

// Config holds all engine tuning. Treat instances as immutable after Build.
type Config struct {
	Store    StoreConfig
	Session  SessionConfig
	Upload   UploadConfig
	Listing  ListingConfig
	Security SecurityConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

// StoreConfig locates the fixed objects the engine owns inside the remote
// namespace.
type StoreConfig struct {
	// RegistryPath is the admin roster object.
	RegistryPath string
}

// SessionConfig controls session token minting and verification.
type SessionConfig struct {
	// TTL is the absolute session lifetime. No sliding renewal.
	TTL           time.Duration
	SigningMethod string // "hs256" (default) or "ed25519"
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Leeway        time.Duration
	// CookieName is the session cookie used by the HTTP surface.
	CookieName string
}

// UploadConfig bounds note material uploads.
type UploadConfig struct {
	// MaxMaterialSize is the single size cap, in bytes, for every upload path.
	MaxMaterialSize int64
	// AllowedStreams is the closed set of stream names, lowercase.
	AllowedStreams []string
}

// ListingConfig bounds the recursive namespace walk.
type ListingConfig struct {
	MaxDepth    int
	MaxEntries  int
	CacheMaxAge time.Duration
}

// SecurityConfig tunes the optional Redis-backed login limiter. Ignored
// when no Redis client is supplied.
type SecurityConfig struct {
	EnableIPThrottle      bool
	MaxLoginAttempts      int
	LoginCooldownDuration time.Duration
}

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process metrics counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the baseline configuration. Signing keys must
// still be supplied before Build.
func DefaultConfig() Config {
	return Config{
		Store: StoreConfig{
			RegistryPath: "admins/admins.json",
		},
		Session: SessionConfig{
			TTL:           2 * time.Hour,
			SigningMethod: "hs256",
			Issuer:        "coachvault",
			CookieName:    "fp_admin",
		},
		Upload: UploadConfig{
			MaxMaterialSize: 50 << 20,
			AllowedStreams:  []string{"cbse", "science", "commerce", "arts", "all"},
		},
		Listing: ListingConfig{
			MaxDepth:    6,
			MaxEntries:  2000,
			CacheMaxAge: 60 * time.Second,
		},
		Security: SecurityConfig{
			EnableIPThrottle:      true,
			MaxLoginAttempts:      5,
			LoginCooldownDuration: 15 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Session.PrivateKey = cloneBytes(cfg.Session.PrivateKey)
	out.Session.PublicKey = cloneBytes(cfg.Session.PublicKey)
	if len(cfg.Upload.AllowedStreams) > 0 {
		out.Upload.AllowedStreams = append([]string(nil), cfg.Upload.AllowedStreams...)
	}
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Validate checks structural sanity. Key material checks live in the jwt
// manager, which Build also runs.
func (c *Config) Validate() error {
	if c.Store.RegistryPath == "" {
		return errors.New("Store RegistryPath is required")
	}

	if c.Session.TTL <= 0 {
		return errors.New("Session TTL must be > 0")
	}
	if c.Session.SigningMethod != "hs256" && c.Session.SigningMethod != "ed25519" {
		return errors.New("unsupported session signing method")
	}
	if len(c.Session.PrivateKey) == 0 {
		return errors.New("Session PrivateKey is required")
	}
	if c.Session.SigningMethod == "ed25519" && len(c.Session.PublicKey) == 0 {
		return errors.New("ed25519 requires Session PublicKey")
	}
	if c.Session.CookieName == "" {
		return errors.New("Session CookieName is required")
	}

	if c.Upload.MaxMaterialSize <= 0 {
		return errors.New("Upload MaxMaterialSize must be > 0")
	}
	if len(c.Upload.AllowedStreams) == 0 {
		return errors.New("Upload AllowedStreams must not be empty")
	}
	for _, stream := range c.Upload.AllowedStreams {
		if stream == "" || stream != strings.ToLower(stream) {
			return errors.New("Upload AllowedStreams entries must be lowercase and non-empty")
		}
	}

	if c.Listing.MaxDepth <= 0 {
		return errors.New("Listing MaxDepth must be > 0")
	}
	if c.Listing.MaxEntries <= 0 {
		return errors.New("Listing MaxEntries must be > 0")
	}
	if c.Listing.CacheMaxAge < 0 {
		return errors.New("Listing CacheMaxAge must be >= 0")
	}

	if c.Security.MaxLoginAttempts <= 0 {
		return errors.New("MaxLoginAttempts must be > 0")
	}
	if c.Security.LoginCooldownDuration <= 0 {
		return errors.New("LoginCooldownDuration must be > 0")
	}

	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}

	return nil
}
