package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"workoverbot/internal/domain"
	"workoverbot/internal/export"
	"workoverbot/internal/pipeline"
	"workoverbot/internal/segment"
)

const (
	maxBodyBytes   = 1 << 20
	processTimeout = 5 * time.Minute
)

type processRequest struct {
	Text  string `json:"text"`
	UseAI *bool  `json:"use_ai,omitempty"`
}

type Handler struct {
	pipeline *pipeline.Orchestrator
	taxonomy domain.Taxonomy
}

func NewHandler(orch *pipeline.Orchestrator, tax domain.Taxonomy) *Handler {
	return &Handler{pipeline: orch, taxonomy: tax}
}

// NewRouter wires middleware and routes.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(Recovery())
	router.Use(RequestLogger())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	api := router.Group("/api")
	{
		api.POST("/process", h.Process)
		api.POST("/export/:format", h.Export)
	}
	return router
}

func (h *Handler) Process(c *gin.Context) {
	batch, ok := h.run(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, batch)
}

func (h *Handler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Param("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	batch, ok := h.run(c)
	if !ok {
		return
	}
	data, err := export.Render(format, batch)
	if err != nil {
		log.Printf("http export error run=%s format=%s: %v", batch.RunID, format, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	name := export.Filename(format, time.Now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, export.ContentType(format), data)
}

// run decodes the request, processes the report and writes any error
// response itself. ok is false when a response was already written.
func (h *Handler) run(c *gin.Context) (domain.Batch, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body: " + err.Error()})
		return domain.Batch{}, false
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return domain.Batch{}, false
	}

	orch := h.pipeline
	if req.UseAI != nil {
		orch = orch.WithUseAI(*req.UseAI)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), processTimeout)
	defer cancel()
	batch, err := orch.Process(ctx, req.Text, h.taxonomy)
	if err != nil {
		if errors.Is(err, segment.ErrNoRows) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "request_id": GetRequestID(c)})
			return domain.Batch{}, false
		}
		log.Printf("http process error request_id=%s: %v", GetRequestID(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "processing failed", "request_id": GetRequestID(c)})
		return domain.Batch{}, false
	}
	return batch, true
}
