package middleware

import (
	"github.com/labstack/echo/v4"
)

// hopByHopHeaders are connection-scoped and never reach handlers or the backend.
var hopByHopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"TE",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// responseHeaders are set on every response, including files and the entry
// document. Framing is limited to the same origin so the SPA can embed itself.
var responseHeaders = map[string]string{
	"X-Content-Type-Options": "nosniff",
	"X-Frame-Options":        "SAMEORIGIN",
	"Referrer-Policy":        "strict-origin-when-cross-origin",
}

// SecurityHeaders returns an Echo middleware that strips hop-by-hop request
// headers and adds browser security headers to responses.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for _, h := range hopByHopHeaders {
				c.Request().Header.Del(h)
			}

			// Headers must be in place before a handler writes the status line.
			for k, v := range responseHeaders {
				c.Response().Header().Set(k, v)
			}

			return next(c)
		}
	}
}
