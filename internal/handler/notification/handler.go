package notification

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hms-notify/internal/handler"
	"github.com/jwalitptl/hms-notify/internal/model"
	"github.com/jwalitptl/hms-notify/internal/service/notification"
)

type Handler struct {
	service *notification.Service
}

func NewHandler(service *notification.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/notifications", h.SendNotification)
	r.POST("/notifications/queue", h.QueueNotification)
	r.POST("/notifications/process", h.ProcessQueue)
}

type sendRequest struct {
	Kind           model.NotificationKind `json:"kind" binding:"required"`
	RecipientPhone string                 `json:"recipient_phone"`
	RecipientEmail string                 `json:"recipient_email"`
	Message        string                 `json:"message"`
	Data           map[string]string      `json:"data"`
	Priority       model.Priority         `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
}

func (r *sendRequest) payload() *model.NotificationPayload {
	return &model.NotificationPayload{
		Kind:           r.Kind,
		RecipientPhone: r.RecipientPhone,
		RecipientEmail: r.RecipientEmail,
		Message:        r.Message,
		Data:           r.Data,
		Priority:       r.Priority,
	}
}

func (h *Handler) SendNotification(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result := h.service.Send(c.Request.Context(), req.payload())
	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

func (h *Handler) QueueNotification(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	h.service.Queue(req.payload())
	c.JSON(http.StatusAccepted, handler.NewSuccessResponse(gin.H{
		"queued": true,
		"depth":  h.service.QueueDepth(),
	}))
}

func (h *Handler) ProcessQueue(c *gin.Context) {
	depth := h.service.QueueDepth()

	// Drain in the background; the HTTP caller only triggers it. The
	// request context dies with the response, so the drain gets its own.
	go h.service.ProcessQueue(context.Background())

	c.JSON(http.StatusAccepted, handler.NewSuccessResponse(gin.H{
		"processing": true,
		"depth":      depth,
	}))
}
