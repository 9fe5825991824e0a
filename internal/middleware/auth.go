package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/hweliang/finbook-backend/internal/domain"
)

// CustomClaims contains the custom claims from the Auth0 JWT
type CustomClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Validate implements validator.CustomClaims
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// SessionKey is the context key for the resolved session
	SessionKey contextKey = "session"
	// ClaimsKey is the context key for JWT claims
	ClaimsKey contextKey = "claims"
)

// SessionMiddleware resolves the caller's session. Unlike a conventional
// auth guard it never requires a token: a request without one proceeds as
// the unauthenticated demo session and operates against the local snapshot.
// Only a token that is present but invalid is rejected.
type SessionMiddleware struct {
	validator *validator.Validator // nil when Auth0 is not configured
}

// NewSessionMiddleware creates a SessionMiddleware. An empty Auth0 domain
// disables token validation entirely; every session is then the demo
// session.
func NewSessionMiddleware(auth0Domain, audience string) (*SessionMiddleware, error) {
	if auth0Domain == "" {
		return &SessionMiddleware{}, nil
	}

	issuerURL, err := url.Parse("https://" + auth0Domain + "/")
	if err != nil {
		return nil, err
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, err
	}

	return &SessionMiddleware{validator: jwtValidator}, nil
}

// Resolve returns an Echo middleware that attaches a domain.Session to every
// request.
func (m *SessionMiddleware) Resolve() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" || m.validator == nil {
				setSession(c, domain.Session{})
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
			}

			claims, err := m.validator.ValidateToken(c.Request().Context(), parts[1])
			if err != nil {
				log.Debug().Err(err).Msg("Token validation failed")
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			validatedClaims, ok := claims.(*validator.ValidatedClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid claims")
			}

			ctx := context.WithValue(c.Request().Context(), ClaimsKey, validatedClaims)
			c.SetRequest(c.Request().WithContext(ctx))
			setSession(c, domain.Session{OwnerID: validatedClaims.RegisteredClaims.Subject})
			return next(c)
		}
	}
}

func setSession(c echo.Context, sess domain.Session) {
	ctx := context.WithValue(c.Request().Context(), SessionKey, sess)
	c.SetRequest(c.Request().WithContext(ctx))
}

// GetSession extracts the resolved session from the context. The zero
// session (demo) is returned when no middleware ran.
func GetSession(c echo.Context) domain.Session {
	if sess, ok := c.Request().Context().Value(SessionKey).(domain.Session); ok {
		return sess
	}
	return domain.Session{}
}

// GetClaims extracts the validated claims from the context
func GetClaims(c echo.Context) *validator.ValidatedClaims {
	if claims, ok := c.Request().Context().Value(ClaimsKey).(*validator.ValidatedClaims); ok {
		return claims
	}
	return nil
}
