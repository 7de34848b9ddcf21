package httphandler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

func AllowJSON(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength == 0 {
			next.ServeHTTP(w, r)
			return
		}

		if r.Header.Get("Content-Type") != "application/json" {
			http.Error(w, "invalid media type", http.StatusUnsupportedMediaType)
			return
		}

		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hf)
}

const sessionCookie = "storefront_session"

type ctxKey int

const sessionIDKey ctxKey = iota

// Session assigns a browser session id. The session id scopes the cart
// slot, it carries no identity.
func Session(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		id := sessionFromCookie(r)
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
	return http.HandlerFunc(hf)
}

func sessionFromCookie(r *http.Request) string {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

// SessionID returns the session id assigned by the Session middleware.
func SessionID(r *http.Request) string {
	id, _ := r.Context().Value(sessionIDKey).(string)
	return id
}
