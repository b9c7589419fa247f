package bloodrequest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hemovault/bloodbank-api/internal/handler"
	"github.com/hemovault/bloodbank-api/internal/model"
	"github.com/hemovault/bloodbank-api/internal/service/bloodrequest"
	"github.com/hemovault/bloodbank-api/pkg/event"
)

type Handler struct {
	service *bloodrequest.Service
}

func NewHandler(service *bloodrequest.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListRequests(c *gin.Context) {
	actor, ok := handler.ActorFrom(c)
	if !ok {
		return
	}

	filter := &model.BloodRequestFilter{}
	if id := c.Query("requester_id"); id != "" {
		requesterID, err := uuid.Parse(id)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid requester_id"))
			return
		}
		filter.RequesterID = requesterID
	}
	if status := c.Query("status"); status != "" {
		filter.Status = model.RequestStatus(status)
	}
	if urgency := c.Query("urgency"); urgency != "" {
		filter.Urgency = model.Urgency(urgency)
	}

	requests, err := h.service.List(c.Request.Context(), actor, filter)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(requests))
}

func (h *Handler) GetRequest(c *gin.Context) {
	actor, ok := handler.ActorFrom(c)
	if !ok {
		return
	}
	id, ok := handler.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	req, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(req))
}

func (h *Handler) CreateRequest(c *gin.Context) {
	actor, ok := handler.ActorFrom(c)
	if !ok {
		return
	}

	var req model.CreateBloodRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.service.Create(c.Request.Context(), actor, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	if eventCtx := event.FromContext(c); eventCtx != nil {
		eventCtx.NewData = created
		eventCtx.Additional = map[string]interface{}{
			"request_id":   created.ID,
			"requester_id": created.RequesterID,
			"urgency":      created.Urgency,
		}
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) UpdateRequest(c *gin.Context) {
	actor, ok := handler.ActorFrom(c)
	if !ok {
		return
	}
	id, ok := handler.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdateBloodRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	before, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	if eventCtx := event.FromContext(c); eventCtx != nil {
		eventCtx.OldData = before
		eventCtx.NewData = updated
		eventCtx.Additional = map[string]interface{}{"request_id": id}
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

func (h *Handler) DeleteRequest(c *gin.Context) {
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
			"request_id":   id,
			"requester_id": deleted.RequesterID,
		}
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) RegisterRoutesWithEvents(r *gin.RouterGroup, eventTracker *event.EventTrackerMiddleware) {
	requests := r.Group("/blood-requests")
	{
		requests.GET("", h.ListRequests)
		requests.GET("/:id", h.GetRequest)
		requests.POST("", eventTracker.TrackEvent("blood_request", "create"), h.CreateRequest)
		requests.PATCH("/:id", eventTracker.TrackEvent("blood_request", "update"), h.UpdateRequest)
		requests.DELETE("/:id", eventTracker.TrackEvent("blood_request", "delete"), h.DeleteRequest)
	}
}
