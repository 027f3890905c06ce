package coordinator

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mehfilportal/admin-api/internal/handler"
	"github.com/mehfilportal/admin-api/internal/model"
	"github.com/mehfilportal/admin-api/internal/repository"
	coordinatorService "github.com/mehfilportal/admin-api/internal/service/coordinator"
	apperrors "github.com/mehfilportal/admin-api/pkg/errors"
	"github.com/mehfilportal/admin-api/pkg/httputil"
)

type Handler struct {
	service coordinatorService.CoordinatorServicer
}

func NewHandler(service coordinatorService.CoordinatorServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	coords := r.Group("/mehfil-coordinators")
	{
		coords.GET("", h.List)
		coords.GET("/types", h.Taxonomy)
		coords.GET("/mehfil/:mehfilId", h.ListByMehfil)
		coords.POST("/add", h.Assign)
		coords.PUT("/update/:mehfilId", h.Assign)
		coords.DELETE("/:id", h.Remove)
	}
}

type assignCoordinatorRequest struct {
	MehfilDirectoryID string  `json:"mehfil_directory_id" binding:"required,uuid"`
	CoordinatorType   string  `json:"coordinator_type" binding:"required,coordinator_type"`
	UserID            *string `json:"user_id" binding:"omitempty,uuid"`
	model.WeekdayColumns
}

// Assign sets or replaces the holder of a coordinator slot. A null
// user_id clears the slot.
func (h *Handler) Assign(c *gin.Context) {
	actor, err := handler.Actor(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req assignCoordinatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid request body", err))
		return
	}

	mehfilID, err := uuid.Parse(req.MehfilDirectoryID)
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid mehfil ID", err))
		return
	}

	var userID *uuid.UUID
	if req.UserID != nil && *req.UserID != "" {
		id, err := uuid.Parse(*req.UserID)
		if err != nil {
			httputil.RespondWithError(c, apperrors.Validation("invalid user ID", err))
			return
		}
		userID = &id
	}

	coord, err := h.service.Assign(
		c.Request.Context(),
		actor,
		mehfilID,
		model.CoordinatorType(req.CoordinatorType),
		userID,
		req.WeekdayColumns.Slots(),
	)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if coord == nil {
		httputil.RespondWithSuccess(c, gin.H{"unassigned": true})
		return
	}
	httputil.RespondWithSuccess(c, coord)
}

func (h *Handler) ListByMehfil(c *gin.Context) {
	mehfilID, err := uuid.Parse(c.Param("mehfilId"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid mehfil ID", err))
		return
	}

	coords, err := h.service.GetActiveByMehfil(c.Request.Context(), mehfilID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, coords)
}

func (h *Handler) Remove(c *gin.Context) {
	actor, err := handler.Actor(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid coordinator ID", err))
		return
	}

	if err := h.service.Remove(c.Request.Context(), actor, id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"deleted": true})
}

func (h *Handler) List(c *gin.Context) {
	filter := repository.CoordinatorFilter{Search: c.Query("search")}
	filter.Page, _ = strconv.Atoi(c.Query("page"))
	filter.Size, _ = strconv.Atoi(c.Query("size"))

	if raw := c.Query("mehfilDirectoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithError(c, apperrors.Validation("invalid mehfil ID", err))
			return
		}
		filter.MehfilDirectoryID = &id
	}

	coords, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	filter.Normalize()
	httputil.RespondWithPagination(c, coords, filter.Page, filter.Size, total)
}

func (h *Handler) Taxonomy(c *gin.Context) {
	httputil.RespondWithSuccess(c, h.service.Taxonomy())
}
