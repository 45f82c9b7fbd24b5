package http

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/solguard/scan-orchestrator/pkg/context"
	"github.com/solguard/scan-orchestrator/pkg/jwt"
	"github.com/solguard/scan-orchestrator/pkg/logger"
)

func traceIDFromLocals(ctx *fiber.Ctx) string {
	if tid, ok := ctx.Locals("traceID").(string); ok {
		return tid
	}
	return ""
}

// enrichUserContext installs the app context and a trace/user-aware logger
// into the request's user context
func enrichUserContext(ctx *fiber.Ctx, userID string) {
	traceID := traceIDFromLocals(ctx)

	userCtx := ctx.UserContext()
	if userID != "" {
		userCtx = context.NewAppContextWithTracingAndUser(userCtx, traceID, userID)
	} else {
		userCtx = context.NewAppContextWithTracing(userCtx, traceID)
	}

	contextLogger := logger.GetGlobalLogger()
	coreLogger := contextLogger.FromContext(userCtx)
	ctx.SetUserContext(contextLogger.SetInContext(userCtx, coreLogger))
}

func newAuthMiddleware(secret []byte) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  jwtware.SigningKey{Key: secret},
		Claims:      &jwt.UserClaims{},
		TokenLookup: "header:Authorization",
		AuthScheme:  "Bearer",
		SuccessHandler: func(ctx *fiber.Ctx) error {
			claims := userClaims(ctx)
			if claims == nil {
				return fiber.ErrUnauthorized
			}
			enrichUserContext(ctx, claims.UserID)
			return ctx.Next()
		},
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		},
	})
}

func setUserContext(c *fiber.Ctx) error {
	enrichUserContext(c, "")
	return c.Next()
}

// setTransaction wraps the request in a DB transaction: rolled back on any
// error status, committed otherwise
func setTransaction(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tx := db.Begin()
		context.SetDB(c.UserContext(), tx, true)

		err := c.Next()

		if c.Response().StatusCode() >= 300 {
			return context.Rollback(c.UserContext())
		}
		if commitErr := context.CommitOrRollback(c.UserContext(), true); commitErr != nil {
			return commitErr
		}
		return err
	}
}

// TraceMiddleware assigns every request a trace id, honoring one supplied by
// the caller, and echoes it back in the response
func TraceMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := c.Get("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.New().String()
		}
		c.Set("X-Trace-ID", traceID)
		c.Locals("traceID", traceID)
		return c.Next()
	}
}
