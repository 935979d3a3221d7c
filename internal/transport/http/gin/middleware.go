package httpgin

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	redisrepo "github.com/cinebook/cinebook/internal/repository/redis"
	"github.com/cinebook/cinebook/internal/service/auth"
)

const (
	ctxUserID  = "user_id"
	ctxIsStaff = "is_staff"
)

func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.New().String()
		}

		c.Writer.Header().Set("X-Request-ID", reqID)
		c.Set("request_id", reqID)

		c.Next()
	}
}

func CORS() gin.HandlerFunc {
	cfg := cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Requested-With",
			"X-Request-ID",
			"Idempotency-Key",
			"If-None-Match",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
			"ETag",
			"Cache-Control",
		},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	return cors.New(cfg)
}

func LoggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery
		c.Next()

		latency := time.Since(start)
		if raw != "" {
			path = path + "?" + raw
		}

		reqID, _ := c.Get("request_id")

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("ip", c.ClientIP()),
			zap.Any("request_id", reqID),
			zap.Duration("latency", latency),
			zap.Int("bytes_out", c.Writer.Size()),
		}

		if len(c.Errors) > 0 {
			logger.Error("http", fields...)
		} else {
			logger.Info("http", fields...)
		}
	}
}

// AuthConfig drives the bearer-token middleware. IdleWindow > 0 enables the
// inactivity check for non-staff users; staff accounts never idle out.
type AuthConfig struct {
	IdleWindow time.Duration
	Clock      func() time.Time
}

// AuthMiddleware verifies the Bearer token, enforces the idle window and
// refreshes the caller's last-seen mark.
func AuthMiddleware(svc *auth.Service, activity *redisrepo.ActivityStore, cfg AuthConfig) gin.HandlerFunc {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "missing bearer token"})
			return
		}

		claims, err := svc.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: auth.ErrInvalidToken.Error()})
			return
		}

		if activity != nil && cfg.IdleWindow > 0 && !claims.IsStaff {
			now := clock()
			lastSeen, found, err := activity.LastSeen(c.Request.Context(), claims.UserID)
			if err == nil && found && now.Sub(lastSeen) > cfg.IdleWindow {
				_ = activity.Clear(c.Request.Context(), claims.UserID)
				c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "session expired due to inactivity"})
				return
			}
			_ = activity.Touch(c.Request.Context(), claims.UserID, now)
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxIsStaff, claims.IsStaff)

		c.Next()
	}
}

// StaffOnly gates admin routes; run it after AuthMiddleware.
func StaffOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ctxIsStaff) {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "staff only"})
			return
		}
		c.Next()
	}
}

func currentUserID(c *gin.Context) int64 {
	return c.GetInt64(ctxUserID)
}
