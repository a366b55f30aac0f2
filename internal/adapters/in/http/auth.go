package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"multistop/internal/core/domain/model/kernel"
)

// Role is the kind of caller a token was issued to.
type Role string

const (
	RoleClient Role = "client"
	RoleDriver Role = "driver"
	RoleAdmin  Role = "admin"
)

// Principal represents the authenticated caller from JWT.
type Principal struct {
	ID   kernel.UUID
	Role Role
	// CompanyID is the fleet a driver token belongs to, if any.
	CompanyID *kernel.UUID
}

type principalKey struct{}

const principalContextKey = "principal"

// WithPrincipal stores the principal in context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext retrieves the principal from context (if any).
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok
}

// Claims are the JWT claims issued to callers. The subject carries the
// caller's id.
type Claims struct {
	Role      string `json:"role"`
	CompanyID string `json:"companyId,omitempty"`
	jwt.RegisteredClaims
}

// Authenticate validates the Bearer token of each request and stores the
// caller as a Principal.
func Authenticate(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			p, err := ParseToken(strings.TrimSpace(parts[1]), secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(principalContextKey, p)
			c.SetRequest(c.Request().WithContext(WithPrincipal(c.Request().Context(), p)))
			return next(c)
		}
	}
}

// RequireRole rejects callers whose role is not listed.
func RequireRole(roles ...Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := principal(c)
			if err != nil {
				return err
			}
			for _, r := range roles {
				if p.Role == r {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "role not allowed")
		}
	}
}

// ParseToken validates and extracts claims from an HS256 token.
func ParseToken(tokenStr, secret string) (*Principal, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}

	tok, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		if err == nil {
			err = errors.New("invalid token")
		}
		return nil, err
	}

	c, _ := tok.Claims.(*Claims)
	if c == nil || c.Subject == "" {
		return nil, errors.New("invalid claims")
	}
	id, err := kernel.UUIDFromString(c.Subject)
	if err != nil {
		return nil, err
	}

	p := &Principal{ID: id, Role: Role(strings.ToLower(c.Role))}
	switch p.Role {
	case RoleClient, RoleDriver, RoleAdmin:
	default:
		return nil, errors.New("invalid role")
	}
	if c.CompanyID != "" {
		companyID, err := kernel.UUIDFromString(c.CompanyID)
		if err != nil {
			return nil, err
		}
		p.CompanyID = &companyID
	}
	return p, nil
}

// IssueToken signs an HS256 token for p.
func IssueToken(p Principal, secret string, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = p.ID.String()
	c := Claims{Role: string(p.Role), RegisteredClaims: claims}
	if p.CompanyID != nil {
		c.CompanyID = p.CompanyID.String()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
}

func principal(c echo.Context) (*Principal, error) {
	p, ok := c.Get(principalContextKey).(*Principal)
	if !ok || p == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	return p, nil
}
