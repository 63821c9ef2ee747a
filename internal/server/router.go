package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires the tool catalog into an HTTP service:
//
//	GET  /healthz       liveness probe
//	GET  /tools         tool catalog
//	POST /tools/:name   invoke a tool with a JSON argument object
func NewRouter(s *Session, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("http")

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	tools := Catalog(s)
	byName := make(map[string]Tool, len(tools))
	for _, t := range tools {
		byName[t.Name] = t
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "session_id": s.ID})
	})

	r.GET("/tools", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tools": tools})
	})

	r.POST("/tools/:name", func(c *gin.Context) {
		name := c.Param("name")
		tool, ok := byName[name]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown tool: " + name})
			return
		}

		args := map[string]interface{}{}
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&args); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body: " + err.Error()})
				return
			}
		}

		result, err := tool.handler(args)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"tool": name, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"tool": name, "result": result})
	})

	return r
}

// statusFor maps session state errors to 409 and everything else to 400.
func statusFor(err error) int {
	if errors.Is(err, ErrNoData) || errors.Is(err, ErrNotClassified) {
		return http.StatusConflict
	}
	return http.StatusBadRequest
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
