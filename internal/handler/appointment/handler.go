package appointment

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hemovault/bloodbank-api/internal/handler"
	"github.com/hemovault/bloodbank-api/internal/model"
	"github.com/hemovault/bloodbank-api/internal/service/appointment"
	"github.com/hemovault/bloodbank-api/pkg/event"
)

type Handler struct {
	service *appointment.Service
}

func NewHandler(service *appointment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListAppointments(c *gin.Context) {
	actor, ok := handler.ActorFrom(c)
	if !ok {
		return
	}

	filter := &model.AppointmentFilter{}
	if id := c.Query("user_id"); id != "" {
		userID, err := uuid.Parse(id)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user_id"))
			return
		}
		filter.UserID = userID
	}
	if status := c.Query("status"); status != "" {
		filter.Status = model.AppointmentStatus(status)
	}
	if date := c.Query("start_date"); date != "" {
		t, err := time.Parse("2006-01-02", date)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid start_date"))
			return
		}
		filter.StartDate = t
	}
	if date := c.Query("end_date"); date != "" {
		t, err := time.Parse("2006-01-02", date)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid end_date"))
			return
		}
		filter.EndDate = t
	}

	appointments, err := h.service.List(c.Request.Context(), actor, filter)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

func (h *Handler) GetAppointment(c *gin.Context) {
	actor, ok := handler.ActorFrom(c)
	if !ok {
		return
	}
	id, ok := handler.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	appt, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appt))
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	actor, ok := handler.ActorFrom(c)
	if !ok {
		return
	}

	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	appt, err := h.service.Create(c.Request.Context(), actor, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	if eventCtx := event.FromContext(c); eventCtx != nil {
		eventCtx.NewData = appt
		eventCtx.Additional = map[string]interface{}{
			"appointment_id": appt.ID,
			"user_id":        appt.UserID,
		}
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(appt))
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	actor, ok := handler.ActorFrom(c)
	if !ok {
		return
	}
	id, ok := handler.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	before, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	appt, err := h.service.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	if eventCtx := event.FromContext(c); eventCtx != nil {
		eventCtx.OldData = before
		eventCtx.NewData = appt
		eventCtx.Additional = map[string]interface{}{"appointment_id": id}
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appt))
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	actor, ok := handler.ActorFrom(c)
	if !ok {
		return
	}
	id, ok := handler.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	deleted, err := h.service.Delete(c.Request.Context(), actor, id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	if eventCtx := event.FromContext(c); eventCtx != nil {
		eventCtx.OldData = deleted
		eventCtx.Additional = map[string]interface{}{
			"appointment_id": id,
			"user_id":        deleted.UserID,
		}
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) RegisterRoutesWithEvents(r *gin.RouterGroup, eventTracker *event.EventTrackerMiddleware) {
	appointments := r.Group("/appointments")
	{
		appointments.GET("", h.ListAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.POST("", eventTracker.TrackEvent("appointment", "create"), h.CreateAppointment)
		appointments.PATCH("/:id", eventTracker.TrackEvent("appointment", "update"), h.UpdateAppointment)
		appointments.DELETE("/:id", eventTracker.TrackEvent("appointment", "delete"), h.DeleteAppointment)
	}
}
