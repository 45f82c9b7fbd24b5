package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	jwt2 "github.com/golang-jwt/jwt/v5"
	"github.com/solguard/scan-orchestrator/pkg/jwt"
)

func userClaims(ctx *fiber.Ctx) *jwt.UserClaims {
	if u := ctx.Locals("user"); u != nil {
		userClaims, ok := u.(*jwt2.Token).Claims.(*jwt.UserClaims)
		if ok {
			return userClaims
		}
	}

	return nil
}

// ownerID extracts the authenticated user's id; empty when the route is
// reachable without auth
func ownerID(ctx *fiber.Ctx) string {
	if claims := userClaims(ctx); claims != nil {
		return claims.UserID
	}
	return ""
}

type ServiceGetter[T any] func(context.Context) T
