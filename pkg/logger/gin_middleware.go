package logger

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDKey ключ gin-контекста, под которым лежит ID запроса
const RequestIDKey = "request_id"

const requestIDHeader = "X-Request-ID"

// Служебные эндпоинты опрашиваются постоянно, пишем их только на debug
var quietPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// GinLoggerMiddleware пишет одну JSON-строку на каждый HTTP запрос:
// request_id, маршрут, статус, длительность и user_id, если запрос аутентифицирован
func GinLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := requestIDFrom(c)

		c.Next()

		status := c.Writer.Status()
		event := eventFor(c.Request.URL.Path, status).
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("route", c.FullPath()).
			Str("query", c.Request.URL.RawQuery).
			Str("remote_addr", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Int("status", status).
			Int("size", c.Writer.Size()).
			Dur("duration_ms", time.Since(start))

		// user_id выставляет auth middleware
		if userID := c.GetString("user_id"); userID != "" {
			event.Str("user_id", userID)
		}
		if len(c.Errors) > 0 {
			event.Str("error", c.Errors.String())
		}

		event.Msg("HTTP request")
	}
}

// requestIDFrom берет ID из заголовка клиента или выдает новый
// и пробрасывает его в контекст и ответ
func requestIDFrom(c *gin.Context) string {
	requestID := c.GetHeader(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(RequestIDKey, requestID)
	c.Header(requestIDHeader, requestID)
	return requestID
}

func eventFor(path string, status int) *zerolog.Event {
	switch {
	case status >= http.StatusInternalServerError:
		return Error()
	case status >= http.StatusBadRequest:
		return Warn()
	}
	if _, ok := quietPaths[path]; ok {
		return Debug()
	}
	return Info()
}
