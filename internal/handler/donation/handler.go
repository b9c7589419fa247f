package donation

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hemovault/bloodbank-api/internal/handler"
	"github.com/hemovault/bloodbank-api/internal/model"
	"github.com/hemovault/bloodbank-api/internal/service/donation"
	"github.com/hemovault/bloodbank-api/pkg/event"
)

type Handler struct {
	service *donation.Service
}

func NewHandler(service *donation.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListDonations(c *gin.Context) {
	actor, ok := handler.ActorFrom(c)
	if !ok {
		return
	}

	filter := &model.DonationFilter{}
	if id := c.Query("donor_id"); id != "" {
		donorID, err := uuid.Parse(id)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid donor_id"))
			return
		}
		filter.DonorID = donorID
	}
	if status := c.Query("status"); status != "" {
		filter.Status = model.DonationStatus(status)
	}

	donations, err := h.service.List(c.Request.Context(), actor, filter)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(donations))
}

func (h *Handler) GetDonation(c *gin.Context) {
	actor, ok := handler.ActorFrom(c)
	if !ok {
		return
	}
	id, ok := handler.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	d, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(d))
}

func (h *Handler) CreateDonation(c *gin.Context) {
	actor, ok := handler.ActorFrom(c)
	if !ok {
		return
	}

	var req model.CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	d, err := h.service.Create(c.Request.Context(), actor, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	if eventCtx := event.FromContext(c); eventCtx != nil {
		eventCtx.NewData = d
		eventCtx.Additional = map[string]interface{}{
			"donation_id": d.ID,
			"donor_id":    d.DonorID,
		}
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(d))
}

func (h *Handler) UpdateDonation(c *gin.Context) {
	actor, ok := handler.ActorFrom(c)
	if !ok {
		return
	}
	id, ok := handler.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	before, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	d, err := h.service.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	if eventCtx := event.FromContext(c); eventCtx != nil {
		eventCtx.OldData = before
		eventCtx.NewData = d
		eventCtx.Additional = map[string]interface{}{"donation_id": id}
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(d))
}

func (h *Handler) DeleteDonation(c *gin.Context) {
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
			"donation_id": id,
			"donor_id":    deleted.DonorID,
		}
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) RegisterRoutesWithEvents(r *gin.RouterGroup, eventTracker *event.EventTrackerMiddleware) {
	donations := r.Group("/donations")
	{
		donations.GET("", h.ListDonations)
		donations.GET("/:id", h.GetDonation)
		donations.POST("", eventTracker.TrackEvent("donation", "create"), h.CreateDonation)
		donations.PATCH("/:id", eventTracker.TrackEvent("donation", "update"), h.UpdateDonation)
		donations.DELETE("/:id", eventTracker.TrackEvent("donation", "delete"), h.DeleteDonation)
	}
}
