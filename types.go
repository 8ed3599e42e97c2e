package coachvault

import (
	"time"

	"github.com/futurepoint/coachvault/store"
)

// Role is the privilege level granted by the admin roster at login.
type Role string

const (
	// RoleAdmin may mutate note material and read listings.
	RoleAdmin Role = "admin"
	// RoleSuperAdmin additionally mutates the admin roster.
	RoleSuperAdmin Role = "super_admin"
)

// Satisfies reports whether the role meets the given minimum. RoleAdmin
// satisfies RoleAdmin; only RoleSuperAdmin satisfies RoleSuperAdmin.
func (r Role) Satisfies(min Role) bool {
	switch min {
	case RoleAdmin:
		return r == RoleAdmin || r == RoleSuperAdmin
	case RoleSuperAdmin:
		return r == RoleSuperAdmin
	default:
		return false
	}
}

// Session is the decoded, signature-verified session grant. The signed token
// it came from is the only session state anywhere; there is no server-side
// session map and no revocation list.
type Session struct {
	Username  string
	Role      Role
	SessionID string
	AvatarURL string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// UserProfile is the public profile returned alongside a fresh session.
type UserProfile struct {
	Username  string `json:"username"`
	Role      Role   `json:"role"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// LoginResult is returned by [Engine.Login]: the signed token plus its
// decoded session and the public profile. The bearer credential used to log
// in is discarded; it appears nowhere in the result.
type LoginResult struct {
	Token   string
	Session Session
	Profile UserProfile
}

// RegistryUpdate is returned by the roster mutators: the registry as
// written, its new version token, and the write confirmation.
type RegistryUpdate struct {
	Registry AdminRegistry `json:"registry"`
	Version  string        `json:"sha"`
	Commit   store.Commit  `json:"commit"`
}

// UploadRequest carries one note upload. Message overrides the default
// commit annotation when non-empty.
type UploadRequest struct {
	Material   []byte
	Class      string
	Stream     string
	Subject    string
	Filename   string
	Credential string
	Message    string
}

// UploadResult is returned by [Engine.UploadNote]: the derived storage path,
// the new version token, retrieval URLs, and the write confirmation.
type UploadResult struct {
	Path        string       `json:"path"`
	Version     string       `json:"sha"`
	DownloadURL string       `json:"download_url,omitempty"`
	HTMLURL     string       `json:"html_url,omitempty"`
	Commit      store.Commit `json:"commit"`
}

// NoteEntry is one stored material file. Class, Stream, and Subject are
// parsed positionally from the storage path; out-of-range segments are
// empty strings.
type NoteEntry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Class       string `json:"class"`
	Stream      string `json:"stream"`
	Subject     string `json:"subject"`
	Size        int64  `json:"size"`
	Version     string `json:"sha"`
	DownloadURL string `json:"download_url,omitempty"`
	HTMLURL     string `json:"html_url,omitempty"`
}

// Listing is the aggregated view of the notes namespace: a nested
// projection keyed class/stream/subject and a flat one. CacheMaxAge is a
// hint that callers may cache the response for that long; the aggregator
// itself caches nothing.
type Listing struct {
	Structure   map[string]map[string]map[string][]NoteEntry `json:"structure"`
	Flat        []NoteEntry                                  `json:"flat"`
	Total       int                                          `json:"total"`
	CacheMaxAge time.Duration                                `json:"-"`
}
