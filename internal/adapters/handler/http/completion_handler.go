package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/onedo/internal/core/services"
)

type CompletionHandler struct {
	completions *services.CompletionService
	progress    *services.ProgressService
	clock       Clock
}

func NewCompletionHandler(completions *services.CompletionService, progress *services.ProgressService, clock Clock) *CompletionHandler {
	return &CompletionHandler{
		completions: completions,
		progress:    progress,
		clock:       clock,
	}
}

type toggleRequest struct {
	Date string `json:"date"`
}

func (h *CompletionHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits/:id")
	{
		habits.POST("/toggle", h.Toggle)
		habits.GET("/status", h.Status)
		habits.GET("/progress", h.Progress)
	}
}

// Toggle flips completion for the body's date, or today when the body is
// empty.
func (h *CompletionHandler) Toggle(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := h.clock.parse(req.Date)
	if err != nil {
		respondError(c, err)
		return
	}

	status, err := h.completions.Toggle(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *CompletionHandler) Status(c *gin.Context) {
	date, err := h.clock.query(c, "date")
	if err != nil {
		respondError(c, err)
		return
	}

	status, err := h.completions.Status(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *CompletionHandler) Progress(c *gin.Context) {
	date, err := h.clock.query(c, "date")
	if err != nil {
		respondError(c, err)
		return
	}

	days := 0
	if raw := c.Query("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer"})
			return
		}
	}

	series, err := h.progress.Series(c.Request.Context(), c.Param("id"), days, date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"points": series})
}
