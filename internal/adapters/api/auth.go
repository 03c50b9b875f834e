package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/example/taskboard/internal/ctxutil"
)

// HeaderActorID carries the acting user when no JWT secret is configured.
const HeaderActorID = "X-Actor-ID"

var (
	errMissingAuthorization = errors.New("missing authorization header")
	errBadAuthorization     = errors.New("bad auth header")
)

// Auth resolves the acting user of a request. With a secret it validates
// HS256 bearer tokens and uses their "sub" claim; without one it trusts the
// X-Actor-ID header.
type Auth struct {
	secret []byte
	parser *jwt.Parser
}

// NewAuth creates an Auth. An empty secret selects header mode.
func NewAuth(secret string) *Auth {
	a := &Auth{}
	if secret != "" {
		a.secret = []byte(secret)
		a.parser = jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	}
	return a
}

// TokenMode reports whether bearer tokens are required.
func (a *Auth) TokenMode() bool {
	return len(a.secret) > 0
}

// ActorFromRequest returns the acting user ID for the request headers.
// In header mode an absent header yields an empty actor.
func (a *Auth) ActorFromRequest(h http.Header) (string, error) {
	if !a.TokenMode() {
		return strings.TrimSpace(h.Get(HeaderActorID)), nil
	}
	token, err := bearerTokenFromString(h.Get(echo.HeaderAuthorization))
	if err != nil {
		return "", err
	}
	return a.UserIDFromBearer(token)
}

// UserIDFromBearer validates a raw token and returns its subject.
func (a *Auth) UserIDFromBearer(token string) (string, error) {
	parsed, err := a.parser.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return a.secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}
	if !claims.VerifyExpiresAt(time.Now().Unix(), false) {
		return "", errors.New("token expired")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("missing sub")
	}
	return sub, nil
}

// IssueToken signs an HS256 token for userID. Used by the CLI and tests.
func (a *Auth) IssueToken(userID string, ttl time.Duration) (string, error) {
	if !a.TokenMode() {
		return "", errors.New("no jwt secret configured")
	}
	claims := jwt.MapClaims{"sub": userID, "iat": time.Now().Unix()}
	if ttl > 0 {
		claims["exp"] = time.Now().Add(ttl).Unix()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// ActorMiddleware puts the request's actor on the request context.
func ActorMiddleware(a *Auth) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, err := a.ActorFromRequest(c.Request().Header)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorBody{Error: err.Error()})
			}
			req := c.Request()
			c.SetRequest(req.WithContext(ctxutil.WithActorID(req.Context(), actor)))
			return next(c)
		}
	}
}

func bearerTokenFromString(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errMissingAuthorization
	}
	token, ok := strings.CutPrefix(raw, "Bearer ")
	if !ok || token == "" {
		return "", errBadAuthorization
	}
	if strings.Count(token, ".") != 2 {
		return "", errBadAuthorization
	}
	return token, nil
}
