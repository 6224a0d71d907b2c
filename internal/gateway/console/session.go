package console

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"commandcentre/internal/domain"
	gw "commandcentre/internal/gateway"
)

type sessionResponse struct {
	ExpiresAt time.Time `json:"expiresAt"`
}

// createSession snapshots the authenticated principal into the session store
// and hands the client an opaque cookie for it. Only a bearer token may open a
// session; a principal loaded from an existing session cookie may not.
func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	if gw.AuthMethodFromContext(r.Context()) != gw.AuthBearer {
		writeJSON(w, http.StatusUnauthorized, domain.ErrorResponse{
			Message: "Bearer token required",
			Error:   "bearer_required",
		})
		return
	}
	p := principal(r)

	id := uuid.NewString()
	if err := h.sessions.Save(r.Context(), id, *p, h.session.TTL); err != nil {
		writeInternal(w, r, err)
		return
	}

	expires := time.Now().Add(h.session.TTL)
	http.SetCookie(w, &http.Cookie{
		Name:     h.session.CookieName,
		Value:    id,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(h.session.TTL.Seconds()),
		HttpOnly: true,
		Secure:   h.session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusCreated, sessionResponse{ExpiresAt: expires.UTC()})
}

// deleteSession is idempotent: it succeeds with or without a live session.
func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(h.session.CookieName); err == nil && c.Value != "" {
		if err := h.sessions.Delete(r.Context(), c.Value); err != nil {
			writeInternal(w, r, err)
			return
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}
