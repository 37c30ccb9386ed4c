package main

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDKey = "request_id"

func newRouter(h *handlers, log *slog.Logger) *gin.Engine {
	server := gin.New()
	server.Use(gin.Recovery(), requestLogger(log))

	api := server.Group("/api")
	api.GET("/books", h.getBooks)
	api.POST("/books", h.createBook)
	api.GET("/customers", h.getCustomers)
	api.POST("/customers", h.createCustomer)
	api.POST("/borrow", h.borrowBook)
	api.GET("/borrowings", h.getBorrowings)
	api.PUT("/return", h.returnBook)

	server.GET("/manage/health", h.healthCheck)
	return server
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(requestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"origin", c.GetHeader("Origin"),
			"request_id", requestID,
		)
	}
}
