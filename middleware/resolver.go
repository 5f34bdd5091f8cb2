package middleware

import (
	"context"
	"net/http"
	"strings"

	carveauth "github.com/carve-stack/carveauth"
	"github.com/carve-stack/carveauth/httpapi"
	"github.com/carve-stack/carveauth/internal/logger"
	"github.com/carve-stack/carveauth/session"
	"github.com/carve-stack/carveauth/token"
)

// AuthContext is the per-request authentication result: the resolved
// identity and session, or nothing. It is derived fresh on every request
// and never persisted.
type AuthContext struct {
	User    *carveauth.User
	Session *session.Session
}

type authContextKey struct{}

// FromContext returns the authenticated identity attached by the resolver.
// ok is false for anonymous requests.
func FromContext(ctx context.Context) (*AuthContext, bool) {
	auth, ok := ctx.Value(authContextKey{}).(*AuthContext)
	return auth, ok
}

// Resolver turns bearer tokens into request-scoped authentication contexts.
// The local token manager shares the auth server's secret, so obviously bad
// tokens are rejected without a network round trip; the validation endpoint
// stays authoritative for everything that parses.
type Resolver struct {
	tokens *token.Manager
	client *httpapi.Client
}

// NewResolver wires a resolver from the local codec and the validation
// client.
func NewResolver(tokens *token.Manager, client *httpapi.Client) *Resolver {
	return &Resolver{tokens: tokens, client: client}
}

// Handler resolves the request's bearer token, attaches the resulting
// AuthContext when validation succeeds, and passes the request on in every
// case. The transitions are terminal per request: no header or a locally
// invalid token short-circuits to anonymous; a remote rejection, timeout,
// or transport failure degrades to anonymous.
func (r *Resolver) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		tokenStr, ok := bearerToken(req.Header.Get("Authorization"))
		if !ok {
			next.ServeHTTP(w, req)
			return
		}

		// Local pre-check: expired or forged tokens don't earn a network
		// call; the remote endpoint would reject them anyway.
		if _, err := r.tokens.Parse(tokenStr); err != nil {
			next.ServeHTTP(w, req)
			return
		}

		resp, err := r.client.ValidateToken(req.Context(), tokenStr)
		if err != nil {
			// Fail closed: an unreachable validator means anonymous,
			// never authenticated.
			logger.Warn("token validation degraded to anonymous", map[string]any{
				"error": err.Error(),
			})
			next.ServeHTTP(w, req)
			return
		}
		if !resp.Valid || resp.User == nil || resp.Session == nil {
			next.ServeHTTP(w, req)
			return
		}

		ctx := context.WithValue(req.Context(), authContextKey{}, &AuthContext{
			User:    resp.User,
			Session: resp.Session,
		})
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

// RequireAuth guards routes that need an authenticated identity. It must
// run inside [Resolver.Handler]; anonymous requests get a 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if _, ok := FromContext(req.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, req)
	})
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}
	token := value[len(bearer):]
	if token == "" {
		return "", false
	}
	return token, true
}
