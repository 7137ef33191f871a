package schedule

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jwalitptl/hms-notify/internal/handler"
	"github.com/jwalitptl/hms-notify/internal/service/schedule"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			_, err := time.Parse("15:04", fl.Field().String())
			return err == nil
		})
	}
}

type Handler struct {
	service *schedule.Service
}

func NewHandler(service *schedule.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/doctors/:id/slots", h.GetDoctorSlots)
	r.POST("/appointments/check-conflict", h.CheckConflict)
}

func (h *Handler) GetDoctorSlots(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid or missing date, expected YYYY-MM-DD"))
		return
	}

	slots, err := h.service.DaySlots(c.Request.Context(), doctorID, date)
	if err != nil {
		handler.ErrorJSON(c, err)
		return
	}

	available := 0
	for _, s := range slots {
		if s.IsAvailable {
			available++
		}
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"date":      c.Query("date"),
		"slots":     slots,
		"total":     len(slots),
		"available": available,
		"booked":    len(slots) - available,
	}))
}

type conflictRequest struct {
	DoctorID        string `json:"doctor_id" binding:"required,uuid"`
	Date            string `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime       string `json:"start_time" binding:"required,hhmm"`
	DurationMinutes int    `json:"duration_minutes" binding:"omitempty,min=5,max=240"`
	ExcludeID       string `json:"exclude_appointment_id" binding:"omitempty,uuid"`
}

func (h *Handler) CheckConflict(c *gin.Context) {
	var req conflictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	doctorID, _ := uuid.Parse(req.DoctorID)
	date, _ := time.Parse("2006-01-02", req.Date)

	excludeID := uuid.Nil
	if req.ExcludeID != "" {
		excludeID, _ = uuid.Parse(req.ExcludeID)
	}

	result, err := h.service.CheckConflict(c.Request.Context(), doctorID, date, req.StartTime, req.DurationMinutes, excludeID)
	if err != nil {
		handler.ErrorJSON(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}
