package httpapi

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	coachvault "github.com/futurepoint/coachvault"
	"github.com/futurepoint/coachvault/middleware"
)

// maxRequestBody bounds JSON request bodies. Uploads carry base64 material,
// so the bound sits above the raw material cap.
const maxRequestBody = 80 << 20

// Handler serves the admin API. Listing uses a server-held credential so
// the public site can browse notes; mutations carry the caller's own
// credential in the request body.
type Handler struct {
	engine         *coachvault.Engine
	listCredential string
}

// NewHandler builds a Handler. listCredential is the store credential used
// for read-only listing.
func NewHandler(engine *coachvault.Engine, listCredential string) *Handler {
	return &Handler{engine: engine, listCredential: listCredential}
}

// Routes returns the full route table as a single http.Handler.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	guard := middleware.Guard(h.engine)
	superGuard := middleware.RequireRole(h.engine, coachvault.RoleSuperAdmin)

	mux.HandleFunc("/api/login", h.handleLogin)
	mux.HandleFunc("/api/logout", h.handleLogout)
	mux.HandleFunc("/api/notes", h.handleListNotes)
	mux.Handle("/api/notes/upload", guard(http.HandlerFunc(h.handleUploadNote)))
	mux.Handle("/api/notes/delete", guard(http.HandlerFunc(h.handleDeleteNote)))
	mux.Handle("/api/admins/add", superGuard(http.HandlerFunc(h.handleAddAdmin)))
	mux.Handle("/api/admins/remove", superGuard(http.HandlerFunc(h.handleRemoveAdmin)))

	return mux
}

type loginRequest struct {
	Username   string `json:"username"`
	Credential string `json:"credential"`
}

type loginResponse struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ctx := coachvault.WithClientIP(r.Context(), clientIP(r))
	result, err := h.engine.Login(ctx, req.Username, req.Credential)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, h.sessionCookie(result.Token, time.Until(result.Session.ExpiresAt)))
	writeJSON(w, http.StatusOK, loginResponse{
		Username:  result.Session.Username,
		Role:      string(result.Session.Role),
		AvatarURL: result.Session.AvatarURL,
		ExpiresAt: result.Session.ExpiresAt,
	})
}

// handleLogout clears the cookie. The token stays valid until expiry by
// construction; there is no server-side session to destroy.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	http.SetCookie(w, h.sessionCookie("", -time.Second))
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleListNotes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	listing, err := h.engine.ListNotes(r.Context(), h.listCredential)
	if err != nil {
		writeError(w, err)
		return
	}

	if listing.CacheMaxAge > 0 {
		w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(int(listing.CacheMaxAge.Seconds())))
	}
	writeJSON(w, http.StatusOK, listing)
}

type uploadRequest struct {
	Class      string `json:"class"`
	Stream     string `json:"stream"`
	Subject    string `json:"subject"`
	Filename   string `json:"filename"`
	Material   string `json:"material"` // base64
	Credential string `json:"credential"`
	Message    string `json:"message,omitempty"`
}

func (h *Handler) handleUploadNote(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req uploadRequest
	if !decodeBody(w, r, &req) {
		return
	}

	material, err := base64.StdEncoding.DecodeString(req.Material)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:      coachvault.ErrValidation.Error(),
			Violations: []string{"material is not valid base64"},
		})
		return
	}

	sess, _ := middleware.SessionFromContext(r.Context())
	result, err := h.engine.UploadNote(r.Context(), sess, coachvault.UploadRequest{
		Material:   material,
		Class:      req.Class,
		Stream:     req.Stream,
		Subject:    req.Subject,
		Filename:   req.Filename,
		Credential: req.Credential,
		Message:    req.Message,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type deleteRequest struct {
	Path       string `json:"path"`
	Version    string `json:"sha"`
	Credential string `json:"credential"`
}

func (h *Handler) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req deleteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sess, _ := middleware.SessionFromContext(r.Context())
	commit, err := h.engine.DeleteNote(r.Context(), sess, req.Path, req.Version, req.Credential)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "commit": commit})
}

type rosterRequest struct {
	Username   string `json:"username"`
	Credential string `json:"credential"`
}

func (h *Handler) handleAddAdmin(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req rosterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sess, _ := middleware.SessionFromContext(r.Context())
	update, err := h.engine.AddAdmin(r.Context(), sess, req.Username, req.Credential)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, update)
}

func (h *Handler) handleRemoveAdmin(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req rosterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sess, _ := middleware.SessionFromContext(r.Context())
	update, err := h.engine.RemoveAdmin(r.Context(), sess, req.Username, req.Credential)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, update)
}

func (h *Handler) sessionCookie(token string, ttl time.Duration) *http.Cookie {
	maxAge := int(ttl.Seconds())
	if token == "" {
		maxAge = -1
	}
	return &http.Cookie{
		Name:     h.engine.SessionCookieName(),
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return false
	}
	return true
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer func() {
		_, _ = io.Copy(io.Discard, body)
	}()
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return false
	}
	return true
}

// clientIP trusts the transport address only. Deployments behind a proxy
// terminate that trust boundary before this handler.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
