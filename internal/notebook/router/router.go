// Package router wires the notebook HTTP routes.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/infinita-io/notebookd/internal/notebook/handler"
)

// Register mounts all notebook routes on the engine.
func Register(engine *gin.Engine, h *handler.NotebookHandler) {
	engine.GET("/", h.Hello)
	engine.GET("/healthz", h.Healthz)

	notebooks := engine.Group("/notebooks")
	{
		notebooks.POST("", h.Ingest)
		notebooks.GET("", h.Stats)
		notebooks.DELETE("", h.Clear)
		notebooks.GET("/query", h.Query)
	}
}
