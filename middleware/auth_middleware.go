package middleware

import (
	"context"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/talentboard/backend/authz"
	"github.com/talentboard/backend/cognito"
	"github.com/talentboard/backend/services"
	"github.com/talentboard/backend/utils"
	"go.uber.org/zap"
)

// TokenVerifier verifies a raw bearer token and returns its claims
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*cognito.Claims, error)
}

// IdentityResolver resolves verified claims into a request identity,
// reconciling against the user store
type IdentityResolver interface {
	Resolve(ctx context.Context, claims *cognito.Claims) (*authz.Identity, error)
}

// AuthMiddleware is the request-time authentication gate: it verifies the
// bearer token, resolves the identity once, and attaches it to the request
// context for every downstream predicate.
type AuthMiddleware struct {
	verifier TokenVerifier
	resolver IdentityResolver
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(verifier TokenVerifier, resolver IdentityResolver, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		resolver: resolver,
		logger:   logger,
	}
}

// RequireAuth requires a valid bearer token. Verification failures are 401
// with a generic message; the internal reason is logged, never echoed.
// A store failure during identity resolution is a 500, since the request may
// be retried.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := chimiddleware.GetReqID(ctx)

		token := extractBearerToken(r)
		if token == "" {
			m.logger.Warn("missing bearer token",
				zap.String("request_id", requestID))
			_ = utils.WriteUnauthorized(w, "No token provided")
			return
		}

		claims, err := m.verifier.Verify(ctx, token)
		if err != nil {
			m.logger.Warn("token verification failed",
				zap.String("request_id", requestID),
				zap.Error(err))
			_ = utils.WriteUnauthorized(w, "Invalid or expired token")
			return
		}

		identity, err := m.resolver.Resolve(ctx, claims)
		if err != nil {
			if services.IsSyncFailedError(err) {
				m.logger.Error("identity sync failed",
					zap.String("request_id", requestID),
					zap.String("sub", claims.SubjectID()),
					zap.Error(err))
				_ = utils.WriteInternalServerError(w, "Authorization check failed")
				return
			}
			m.logger.Warn("identity resolution failed",
				zap.String("request_id", requestID),
				zap.String("sub", claims.SubjectID()),
				zap.Error(err))
			_ = utils.WriteUnauthorized(w, "Invalid or expired token")
			return
		}

		m.logger.Debug("authentication successful",
			zap.String("request_id", requestID),
			zap.String("sub", identity.SubjectID),
			zap.String("role", string(identity.Role)))

		next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, identity)))
	})
}

// RequireTier requires the resolved identity to meet a minimum privilege
// tier. Must be mounted after RequireAuth.
func (m *AuthMiddleware) RequireTier(min authz.Tier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := chimiddleware.GetReqID(ctx)

			identity := IdentityFromContext(ctx)
			if identity == nil {
				m.logger.Error("identity not found in context",
					zap.String("request_id", requestID))
				_ = utils.WriteUnauthorized(w, "Authentication required")
				return
			}

			if err := authz.RequireRole(*identity, min); err != nil {
				m.logger.Warn("insufficient role",
					zap.String("request_id", requestID),
					zap.String("sub", identity.SubjectID),
					zap.String("role", string(identity.Role)))
				_ = utils.WriteForbidden(w, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractBearerToken extracts the Bearer token from the Authorization header
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
