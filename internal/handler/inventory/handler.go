package inventory

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hemovault/bloodbank-api/internal/handler"
	"github.com/hemovault/bloodbank-api/internal/model"
	"github.com/hemovault/bloodbank-api/internal/service/inventory"
	"github.com/hemovault/bloodbank-api/pkg/event"
)

type Handler struct {
	service *inventory.Service
}

func NewHandler(service *inventory.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListInventory(c *gin.Context) {
	var filter model.InventoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	items, err := h.service.List(c.Request.Context(), &filter)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(items))
}

func (h *Handler) GetInventory(c *gin.Context) {
	id, ok := handler.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(item))
}

func (h *Handler) CreateInventory(c *gin.Context) {
	actor, ok := handler.ActorFrom(c)
	if !ok {
		return
	}

	var req model.CreateInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	item, err := h.service.Create(c.Request.Context(), actor, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	if eventCtx := event.FromContext(c); eventCtx != nil {
		eventCtx.NewData = item
		eventCtx.Additional = map[string]interface{}{
			"inventory_id": item.ID,
			"blood_type":   item.BloodType,
		}
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(item))
}

func (h *Handler) UpdateInventory(c *gin.Context) {
	actor, ok := handler.ActorFrom(c)
	if !ok {
		return
	}
	id, ok := handler.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdateInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	before, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	item, err := h.service.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	if eventCtx := event.FromContext(c); eventCtx != nil {
		eventCtx.OldData = before
		eventCtx.NewData = item
		eventCtx.Additional = map[string]interface{}{"inventory_id": id}
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(item))
}

func (h *Handler) DeleteInventory(c *gin.Context) {
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
		eventCtx.Additional = map[string]interface{}{"inventory_id": id}
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

// RegisterPublicRoutes exposes the read-only endpoints without auth so
// donors and recipients can check stock before signing in.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	inv := r.Group("/blood-inventory")
	{
		inv.GET("", h.ListInventory)
		inv.GET("/:id", h.GetInventory)
	}
}

func (h *Handler) RegisterRoutesWithEvents(r *gin.RouterGroup, eventTracker *event.EventTrackerMiddleware) {
	inv := r.Group("/blood-inventory")
	{
		inv.POST("", eventTracker.TrackEvent("inventory", "create"), h.CreateInventory)
		inv.PATCH("/:id", eventTracker.TrackEvent("inventory", "update"), h.UpdateInventory)
		inv.DELETE("/:id", eventTracker.TrackEvent("inventory", "delete"), h.DeleteInventory)
	}
}
