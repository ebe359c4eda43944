package handler

import (
	"context"
	"net/http"

	"github.com/msomdec/dodgeball-fanpage/internal/service"
)

type contextKey string

const visitorContextKey contextKey = "visitor"

// VisitorCookieName holds the signed visitor token.
const VisitorCookieName = "visitor_token"

// VisitorFromContext extracts the visitor ID from the request context.
// Returns "" when the request did not pass through Visitor.
func VisitorFromContext(ctx context.Context) string {
	id, _ := ctx.Value(visitorContextKey).(string)
	return id
}

// Visitor is middleware that identifies the anonymous visitor. It reads the
// visitor_token cookie and validates it; when the cookie is missing or
// invalid a fresh visitor ID is issued and the cookie is set. The visitor ID
// is injected into the request context.
func Visitor(visitors *service.VisitorService, cookieSecure bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, err := visitorFromCookie(r, visitors); err == nil {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), visitorContextKey, id)))
			return
		}

		id, token, err := visitors.Issue()
		if err != nil {
			// Modal requests need an identity; pages render without one.
			next.ServeHTTP(w, r)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     VisitorCookieName,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			Secure:   cookieSecure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int(service.VisitorTTL.Seconds()),
		})
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), visitorContextKey, id)))
	})
}

func visitorFromCookie(r *http.Request, visitors *service.VisitorService) (string, error) {
	cookie, err := r.Cookie(VisitorCookieName)
	if err != nil {
		return "", err
	}
	return visitors.Validate(cookie.Value)
}

// SecurityHeaders sets response headers common to every route. The content
// security policy admits the datastar runtime from its CDN, the expression
// evaluation it relies on, and images from any HTTPS host.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'self'; "+
			"script-src 'self' https://cdn.jsdelivr.net 'unsafe-inline' 'unsafe-eval'; "+
			"style-src 'self' 'unsafe-inline'; "+
			"img-src 'self' https: data:; "+
			"connect-src 'self'; "+
			"frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}
