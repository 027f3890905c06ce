package dutytype

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mehfilportal/admin-api/internal/handler"
	"github.com/mehfilportal/admin-api/internal/model"
	dutytypeService "github.com/mehfilportal/admin-api/internal/service/dutytype"
	apperrors "github.com/mehfilportal/admin-api/pkg/errors"
	"github.com/mehfilportal/admin-api/pkg/httputil"
)

type Handler struct {
	service dutytypeService.DutyTypeServicer
}

func NewHandler(service dutytypeService.DutyTypeServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	types := r.Group("/duty-types-data")
	{
		types.GET("/active", h.ListActive)
		types.POST("/add", h.Create)
		types.GET("/:id", h.Get)
		types.PUT("/update/:id", h.Update)
		types.DELETE("/:id", h.Delete)
	}
}

type createDutyTypeRequest struct {
	ZoneID      string  `json:"zone_id" binding:"required,uuid"`
	Name        string  `json:"name" binding:"required,max=100"`
	Description *string `json:"description"`
	IsHidden    bool    `json:"is_hidden"`
}

type updateDutyTypeRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Description *string `json:"description"`
	IsHidden    *bool   `json:"is_hidden"`
}

func (h *Handler) Create(c *gin.Context) {
	actor, err := handler.Actor(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req createDutyTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid request body", err))
		return
	}

	zoneID, err := uuid.Parse(req.ZoneID)
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid zone ID", err))
		return
	}

	dt := &model.DutyType{
		ZoneID:      zoneID,
		Name:        req.Name,
		Description: req.Description,
		IsHidden:    req.IsHidden,
	}
	if err := h.service.Create(c.Request.Context(), actor, dt); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, dt)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid duty type ID", err))
		return
	}

	dt, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, dt)
}

func (h *Handler) Update(c *gin.Context) {
	actor, err := handler.Actor(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid duty type ID", err))
		return
	}

	var req updateDutyTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid request body", err))
		return
	}

	dt, err := h.service.Update(c.Request.Context(), actor, id, model.DutyTypePatch{
		Name:        req.Name,
		Description: req.Description,
		IsHidden:    req.IsHidden,
	})
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, dt)
}

func (h *Handler) Delete(c *gin.Context) {
	actor, err := handler.Actor(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid duty type ID", err))
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"deleted": true})
}

func (h *Handler) ListActive(c *gin.Context) {
	var zoneID *uuid.UUID
	if raw := c.Query("zoneId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithError(c, apperrors.Validation("invalid zone ID", err))
			return
		}
		zoneID = &id
	}

	types, err := h.service.ListActive(c.Request.Context(), zoneID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, types)
}
