package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/flightapi/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	payloadKey      = "request_payload"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w bodyLogWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// setPayload records the bound request so RequestLogger can log it.
func setPayload(c *gin.Context, payload any) {
	c.Set(payloadKey, payload)
}

// RequestLogger logs every handler invocation before and after it runs. At
// debug level the bound request payload and the response body are logged too.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqLog := log.With().
			Str("request_id", c.GetString(requestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Logger()

		var body *bytes.Buffer
		if zerolog.GlobalLevel() <= zerolog.DebugLevel && reqLog.GetLevel() <= zerolog.DebugLevel {
			body = &bytes.Buffer{}
			c.Writer = bodyLogWriter{ResponseWriter: c.Writer, body: body}
		}

		reqLog.Info().
			Str("handler", c.HandlerName()).
			Str("query", c.Request.URL.RawQuery).
			Interface("params", c.Params).
			Msg("Executing request")

		c.Next()

		reqLog.Info().
			Int("status", c.Writer.Status()).
			Int("size", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Msg("Request completed")

		if body != nil {
			payload, _ := c.Get(payloadKey)
			reqLog.Debug().
				Interface("request", payload).
				RawJSON("response", responseJSON(c, body.Bytes())).
				Msg("Request payload")
		}
	}
}

// responseJSON returns body as raw JSON, quoting it when the response is
// not JSON.
func responseJSON(c *gin.Context, body []byte) []byte {
	if len(body) == 0 {
		return []byte("null")
	}
	ct := c.Writer.Header().Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") || strings.HasPrefix(ct, "application/problem+json") {
		return body
	}
	return []byte(strconv.Quote(string(body)))
}

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.APIRequestDuration.
			WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// ErrorHandler renders the first error attached with c.Error as a 500
// response when the handler did not write one itself.
func ErrorHandler(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors[0].Err
		log.Error().
			Err(err).
			Str("request_id", c.GetString(requestIDKey)).
			Str("path", c.Request.URL.Path).
			Msg("An exception occurred")

		if !c.Writer.Written() {
			writeFault(c, err.Error())
		}
	}
}

func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error().
			Str("request_id", c.GetString(requestIDKey)).
			Str("path", c.Request.URL.Path).
			Interface("panic", recovered).
			Msg("Recovered from panic")
		writeFault(c, fmt.Sprint(recovered))
		c.Abort()
	})
}

// NewRouter builds a gin engine with the request pipeline installed.
func NewRouter(log zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), RequestLogger(log), Metrics(), Recovery(log), ErrorHandler(log))
	router.NoRoute(func(c *gin.Context) {
		writeProblem(c, http.StatusNotFound, "Not Found", "No route matches the request.", nil)
	})
	return router
}
