package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/actor"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const actorContextKey = "actor"

// ActorMiddleware authenticates requests with a bearer token and places the
// resulting actor into the request context. Tokens are HMAC-signed; the
// claims carry the caller's identity in "sub" and its role in "role".
func ActorMiddleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				return ctx.JSON(http.StatusUnauthorized, ErrorResponse{
					Code:    http.StatusUnauthorized,
					Message: "Missing bearer token",
				})
			}

			caller, err := actorFromToken(token, secret)
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, ErrorResponse{
					Code:    http.StatusUnauthorized,
					Message: "Invalid token",
				})
			}

			ctx.Set(actorContextKey, caller)
			return next(ctx)
		}
	}
}

// actorFromToken parses and verifies the token and builds the actor from
// its claims.
func actorFromToken(token string, secret []byte) (actor.Actor, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return secret, nil
	})
	if err != nil {
		return actor.Actor{}, err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return actor.Actor{}, jwt.ErrTokenInvalidClaims
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return actor.Actor{}, err
	}
	id, err := kernel.UUIDFromString(subject)
	if err != nil {
		return actor.Actor{}, err
	}

	roleName, _ := claims["role"].(string)
	role, err := actor.RoleFromString(roleName)
	if err != nil {
		return actor.Actor{}, err
	}

	return actor.NewActor(id, role)
}

// callerFromContext returns the actor placed by ActorMiddleware.
func callerFromContext(ctx echo.Context) (actor.Actor, bool) {
	caller, ok := ctx.Get(actorContextKey).(actor.Actor)
	return caller, ok
}
