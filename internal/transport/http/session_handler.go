package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/Lego1st/quizzess/internal/app"
	"github.com/Lego1st/quizzess/internal/domain"
)

// SessionHandler lets a view hand its backend credentials to the server and
// get back the handle that authorizes the editor socket. Reading or releasing
// a session requires that handle.
type SessionHandler struct {
	sessions *app.SessionService
}

func NewSessionHandler(sessions *app.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type sessionRequest struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

// sessionResponse never echoes the token. Handle is only set on acquire.
type sessionResponse struct {
	Username  string     `json:"username"`
	Handle    string     `json:"handle,omitempty"`
	IssuedAt  time.Time  `json:"issuedAt"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.acquire(w, r)
	case http.MethodGet:
		if session, ok := h.authorize(w, r); ok {
			writeJSON(w, http.StatusOK, responseOf(session))
		}
	case http.MethodDelete:
		session, ok := h.authorize(w, r)
		if !ok {
			return
		}
		if err := h.sessions.Release(r.Context(), session.Username); err != nil {
			slog.Error("release session", "user", session.Username, "err", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.Header().Set("Allow", "GET, POST, DELETE")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SessionHandler) acquire(w http.ResponseWriter, r *http.Request) {
	// a JSON content type keeps cross-site form posts out
	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType != "application/json" {
		http.Error(w, "session request must be application/json", http.StatusUnsupportedMediaType)
		return
	}
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid session request", http.StatusBadRequest)
		return
	}
	session, err := h.sessions.Acquire(r.Context(), req.Username, req.Token)
	if err != nil {
		var validation *domain.ValidationError
		if errors.As(err, &validation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("acquire session", "user", req.Username, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	resp := responseOf(session)
	resp.Handle = session.Handle
	writeJSON(w, http.StatusCreated, resp)
}

func (h *SessionHandler) authorize(w http.ResponseWriter, r *http.Request) (domain.Session, bool) {
	query := r.URL.Query()
	session, err := h.sessions.Authorize(r.Context(), query.Get("user"), query.Get("handle"))
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrSessionExpired):
		http.Error(w, "unknown session", http.StatusNotFound)
		return domain.Session{}, false
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return domain.Session{}, false
	}
	return session, true
}

func responseOf(session domain.Session) sessionResponse {
	resp := sessionResponse{Username: session.Username, IssuedAt: session.IssuedAt}
	if !session.ExpiresAt.IsZero() {
		expires := session.ExpiresAt
		resp.ExpiresAt = &expires
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
