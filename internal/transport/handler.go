package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go-image-editor/internal/config"
	apperrors "go-image-editor/internal/errors"
	"go-image-editor/internal/logger"
	"go-image-editor/internal/service"
	"go-image-editor/internal/transform"
	"go-image-editor/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// PoolReporter exposes worker pool counters for the health endpoint
type PoolReporter interface {
	PoolStats() transform.PoolStats
}

// NewHandler builds the HTTP API. A nil gatherer serves the default
// Prometheus registry; a nil pool omits worker stats from /health.
func NewHandler(svc service.ImageEditService, cfg *config.Config, gatherer prometheus.Gatherer, pool PoolReporter) http.Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := gin.New()

	// Add middleware
	r.Use(
		gin.Recovery(),
		requestLogger(),
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	// Configure routes
	r.GET("/health", healthCheck(pool))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	v1 := r.Group("/v1")
	v1.GET("/operations", listOperations(svc))
	v1.POST("/transform", transformImage(svc, cfg))
	v1.POST("/statistics", imageStatistics(svc, cfg))

	return r
}

func transformImage(svc service.ImageEditService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		var req models.TransformRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}

		// Query parameter takes precedence over the JSON body
		if format := c.Query("format"); format != "" {
			req.Format = format
		}

		logger.WithFields(logrus.Fields{
			"url":        req.URL,
			"operations": len(req.Operations),
			"store":      req.Store,
		}).Debug("Transforming image")

		result, err := svc.Transform(ctx, req)
		if err != nil {
			respondError(c, determineStatusCode(err), "transform failed", err)
			return
		}

		resp := result.Response
		if req.Store {
			c.JSON(http.StatusOK, resp)
			return
		}

		c.Header("X-Image-Width", strconv.Itoa(resp.Width))
		c.Header("X-Image-Height", strconv.Itoa(resp.Height))
		c.Header("X-Image-Channels", strconv.Itoa(resp.Channels))
		c.Header("X-Image-Operations", strings.Join(resp.Operations, ","))
		c.Header("X-Processing-Time-Sec", strconv.FormatFloat(resp.ProcessingTimeSec, 'f', 3, 64))
		c.Data(http.StatusOK, resp.ContentType, result.Data)
	}
}

func imageStatistics(svc service.ImageEditService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		var req models.StatisticsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}

		resp, err := svc.Statistics(ctx, req)
		if err != nil {
			respondError(c, determineStatusCode(err), "statistics failed", err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func listOperations(svc service.ImageEditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Operations())
	}
}

func healthCheck(pool PoolReporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{
			"status":  "available",
			"version": "1.0.0",
			"time":    time.Now().UTC().Format(time.RFC3339),
		}
		if pool != nil {
			body["workers"] = pool.PoolStats()
		}
		c.JSON(http.StatusOK, body)
	}
}

// Middleware and helper functions
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"user_agent": c.Request.UserAgent(),
			"ip":         c.ClientIP(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("Request completed with server error")
			return
		}
		entry.Info("Request completed")
	}
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err.Err), "request processing failed", err.Err)
		}
	}
}

func determineStatusCode(err error) int {
	// Check if it's a custom app error first
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return apperrors.GetStatusCode(err)
	}

	// Fallback to context-based errors
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondBindError(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		respondError(c, http.StatusRequestEntityTooLarge, "request body too large", err)
		return
	}
	respondError(c, http.StatusBadRequest, "invalid request format", err)
}

func respondError(c *gin.Context, code int, message string, err error) {
	// Log the error with context
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
		Details: errorDetails(err),
	})
}

// errorDetails returns the first details string found along the AppError chain
func errorDetails(err error) string {
	var appErr *apperrors.AppError
	for errors.As(err, &appErr) {
		if appErr.Details != "" {
			return appErr.Details
		}
		err = appErr.Cause
	}
	return ""
}
