package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/access"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/user"

	jwt "github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 5 * 24 * time.Hour

const tokenContextKey = "user"

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs HS256 bearer tokens whose subject is the user id.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs a token carrying u's id and role, the same pair Parse hands back as an actor.
func (i *TokenIssuer) Issue(u *user.User) (string, time.Time, error) {
	actor := access.ActorOf(u)
	issuedAt := i.now()
	expiresAt := issuedAt.Add(i.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Role: actor.Role().String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.UserID().String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse validates a raw token and returns the actor it was issued for.
func (i *TokenIssuer) Parse(raw string) (access.Actor, error) {
	token, err := jwt.ParseWithClaims(raw, new(tokenClaims), i.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return access.Actor{}, err
	}
	return actorFromToken(token)
}

func (i *TokenIssuer) keyFunc(*jwt.Token) (any, error) {
	return i.secret, nil
}

// Middleware rejects requests without a valid bearer token.
func (i *TokenIssuer) Middleware() echo.MiddlewareFunc {
	return echojwt.WithConfig(i.config())
}

// OptionalMiddleware authenticates the request when it carries a token and lets
// anonymous requests through. A present but invalid token is still rejected.
func (i *TokenIssuer) OptionalMiddleware() echo.MiddlewareFunc {
	cfg := i.config()
	cfg.ContinueOnIgnoredError = true
	cfg.ErrorHandler = func(c echo.Context, err error) error {
		var tokenErr *echojwt.TokenError
		if errors.As(err, &tokenErr) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}
		return nil
	}
	return echojwt.WithConfig(cfg)
}

func (i *TokenIssuer) config() echojwt.Config {
	return echojwt.Config{
		ContextKey:    tokenContextKey,
		SigningKey:    i.secret,
		SigningMethod: jwt.SigningMethodHS256.Alg(),
		NewClaimsFunc: func(echo.Context) jwt.Claims { return new(tokenClaims) },
	}
}

func actorFromToken(token *jwt.Token) (access.Actor, error) {
	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return access.Actor{}, errors.New("invalid token claims")
	}

	id, err := kernel.ParseUUID(claims.Subject)
	if err != nil {
		return access.Actor{}, fmt.Errorf("invalid token subject: %w", err)
	}
	role, err := user.ParseRole(claims.Role)
	if err != nil || strings.TrimSpace(claims.Role) == "" {
		return access.Actor{}, fmt.Errorf("invalid token role %q", claims.Role)
	}
	return access.NewActor(id, role)
}

// actorFrom returns the authenticated actor of c, if any.
func actorFrom(c echo.Context) (access.Actor, bool) {
	token, ok := c.Get(tokenContextKey).(*jwt.Token)
	if !ok {
		return access.Actor{}, false
	}
	actor, err := actorFromToken(token)
	if err != nil {
		return access.Actor{}, false
	}
	return actor, true
}

func mustActor(c echo.Context) (access.Actor, error) {
	actor, ok := actorFrom(c)
	if !ok {
		return access.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
	}
	return actor, nil
}
