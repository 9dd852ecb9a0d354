package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/onedo/internal/core/domain"
	"github.com/comitanigiacomo/onedo/internal/core/services"
)

type HabitHandler struct {
	svc   *services.HabitService
	clock Clock
}

func NewHabitHandler(svc *services.HabitService, clock Clock) *HabitHandler {
	return &HabitHandler{
		svc:   svc,
		clock: clock,
	}
}

type createHabitRequest struct {
	Name             string   `json:"name" binding:"required"`
	Recurrence       string   `json:"recurrence"`
	ActiveWeekdays   []int    `json:"active_weekdays"`
	ReminderEnabled  bool     `json:"reminder_enabled"`
	ReminderTime     string   `json:"reminder_time"`
	ReminderWeekdays []int    `json:"reminder_weekdays"`
	GoalType         string   `json:"goal_type"`
	TargetValue      *float64 `json:"target_value"`
	Unit             *string  `json:"unit"`
	SymbolID         *string  `json:"symbol_id"`
	ColorHex         *string  `json:"color_hex"`
}

type updateHabitRequest struct {
	Name             *string  `json:"name"`
	Recurrence       *string  `json:"recurrence"`
	ActiveWeekdays   []int    `json:"active_weekdays"`
	ReminderEnabled  *bool    `json:"reminder_enabled"`
	ReminderTime     *string  `json:"reminder_time"`
	ReminderWeekdays []int    `json:"reminder_weekdays"`
	GoalType         *string  `json:"goal_type"`
	TargetValue      *float64 `json:"target_value"`
	Unit             *string  `json:"unit"`
	SymbolID         *string  `json:"symbol_id"`
	ColorHex         *string  `json:"color_hex"`
	Version          int      `json:"version"`
}

type reorderRequest struct {
	Source      []int `json:"source" binding:"required,min=1"`
	Destination *int  `json:"destination" binding:"required"`
}

func (h *HabitHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits")
	{
		habits.POST("", h.Create)
		habits.GET("", h.List)
		habits.PUT("/order", h.Reorder)
		habits.GET("/:id", h.Get)
		habits.PUT("/:id", h.Update)
		habits.DELETE("/:id", h.Delete)
		habits.GET("/:id/reminders", h.Reminders)
	}
}

func (h *HabitHandler) Create(c *gin.Context) {
	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	habit, err := h.svc.Create(c.Request.Context(), services.CreateHabitInput{
		Name:             req.Name,
		Recurrence:       req.Recurrence,
		ActiveWeekdays:   req.ActiveWeekdays,
		ReminderEnabled:  req.ReminderEnabled,
		ReminderTime:     req.ReminderTime,
		ReminderWeekdays: req.ReminderWeekdays,
		GoalType:         req.GoalType,
		TargetValue:      req.TargetValue,
		Unit:             req.Unit,
		SymbolID:         req.SymbolID,
		ColorHex:         req.ColorHex,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, habit)
}

// List returns the day view for ?date (default today), honoring the filter,
// sort and edit_mode query parameters.
func (h *HabitHandler) List(c *gin.Context) {
	date, err := h.clock.query(c, "date")
	if err != nil {
		respondError(c, err)
		return
	}

	editMode := false
	if raw := c.Query("edit_mode"); raw != "" {
		editMode, err = strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "edit_mode must be a boolean"})
			return
		}
	}

	views, err := h.svc.DayView(c.Request.Context(), services.ViewInput{
		Date:     date,
		Filter:   domain.ParseFilter(c.Query("filter")),
		Sort:     domain.ParseSort(c.Query("sort")),
		EditMode: editMode,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":   domain.DayOf(date),
		"habits": views,
	})
}

func (h *HabitHandler) Get(c *gin.Context) {
	habit, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

func (h *HabitHandler) Update(c *gin.Context) {
	var req updateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	habit, err := h.svc.Update(c.Request.Context(), services.UpdateHabitInput{
		ID:               c.Param("id"),
		Name:             req.Name,
		Recurrence:       req.Recurrence,
		ActiveWeekdays:   req.ActiveWeekdays,
		ReminderEnabled:  req.ReminderEnabled,
		ReminderTime:     req.ReminderTime,
		ReminderWeekdays: req.ReminderWeekdays,
		GoalType:         req.GoalType,
		TargetValue:      req.TargetValue,
		Unit:             req.Unit,
		SymbolID:         req.SymbolID,
		ColorHex:         req.ColorHex,
		Version:          req.Version,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

func (h *HabitHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HabitHandler) Reorder(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	habits, err := h.svc.Reorder(c.Request.Context(), req.Source, *req.Destination)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, habits)
}

func (h *HabitHandler) Reminders(c *gin.Context) {
	plan, err := h.svc.ReminderPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"triggers": plan})
}
