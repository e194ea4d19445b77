// Package httpapi serves the raster tools over plain HTTP with gin. Every
// MCP tool is reachable as POST /v1/tools/:name with its arguments as the
// JSON body.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ironsheep/image-edit-mcp/internal/server"
)

// Executor runs one tool call.
type Executor interface {
	ExecuteTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error)
}

// Options bounds the requests the handler accepts.
type Options struct {
	MaxBodyBytes   int64
	RequestTimeout time.Duration
}

// DefaultOptions returns the limits used when a field is zero.
func DefaultOptions() Options {
	return Options{MaxBodyBytes: 1 << 20, RequestTimeout: 60 * time.Second}
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewHandler builds the gin engine serving exec.
func NewHandler(exec Executor, log zerolog.Logger, opts Options) http.Handler {
	d := DefaultOptions()
	if opts.MaxBodyBytes == 0 {
		opts.MaxBodyBytes = d.MaxBodyBytes
	}
	if opts.RequestTimeout == 0 {
		opts.RequestTimeout = d.RequestTimeout
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		requestLogger(log),
		requestSizeLimiter(opts.MaxBodyBytes),
	)

	r.GET("/healthz", healthCheck)
	r.GET("/v1/tools", listTools)
	r.POST("/v1/tools/:name", callTool(exec, log, opts.RequestTimeout))

	return r
}

func callTool(exec Executor, log zerolog.Logger, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			respondError(c, log, http.StatusRequestEntityTooLarge, "failed to read request body", err)
			return
		}
		if len(body) > 0 && !json.Valid(body) {
			respondError(c, log, http.StatusBadRequest, "invalid request format", errors.New("body is not valid JSON"))
			return
		}

		name := c.Param("name")
		result, err := exec.ExecuteTool(ctx, name, body)
		if err != nil {
			respondError(c, log, statusCode(err), fmt.Sprintf("tool %s failed", name), err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func listTools(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": server.GetToolDefinitions()})
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": server.Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Str("ip", c.ClientIP()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

// statusCode maps a tool error to an HTTP status.
func statusCode(err error) int {
	switch {
	case errors.Is(err, server.ErrUnknownTool):
		return http.StatusNotFound
	case errors.Is(err, server.ErrPathNotAllowed):
		return http.StatusForbidden
	case server.IsInvalidInput(err):
		return http.StatusBadRequest
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, log zerolog.Logger, code int, message string, err error) {
	log.Warn().
		Err(err).
		Int("status_code", code).
		Str("path", c.Request.URL.Path).
		Msg(message)

	c.AbortWithStatusJSON(code, ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
