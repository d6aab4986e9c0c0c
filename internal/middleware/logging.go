package middleware

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
)

// Logging writes one key=value line per request. user_id and role are set
// only on routes behind JWT and print as "-" otherwise.
func Logging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			log.Printf("request_id=%s method=%s route=%s path=%s status=%d latency=%s user_id=%s role=%s remote=%s",
				RequestIDFromContext(c), c.Request().Method, orDash(c.Path()), c.Request().URL.Path,
				c.Response().Status, latency, contextString(c, ContextKeyUserID), contextString(c, ContextKeyUserRole), c.RealIP())

			return err
		}
	}
}

func contextString(c echo.Context, key string) string {
	val, _ := c.Get(key).(string)
	return orDash(val)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
