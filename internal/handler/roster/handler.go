package roster

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mehfilportal/admin-api/internal/handler"
	"github.com/mehfilportal/admin-api/internal/model"
	"github.com/mehfilportal/admin-api/internal/repository"
	rosterService "github.com/mehfilportal/admin-api/internal/service/roster"
	apperrors "github.com/mehfilportal/admin-api/pkg/errors"
	"github.com/mehfilportal/admin-api/pkg/httputil"
)

type Handler struct {
	service rosterService.RosterServicer
}

func NewHandler(service rosterService.RosterServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	rosters := r.Group("/duty-rosters-data")
	{
		rosters.GET("", h.List)
		rosters.POST("/add", h.Create)
		rosters.PUT("/update/:id", h.UpdateSlots)
		rosters.PUT("/:id/days/:day", h.AssignDuty)
		rosters.DELETE("/:id/days/:day", h.ClearDuty)
		rosters.GET("/user/:userId", h.ListByUser)
		rosters.DELETE("/:id", h.Delete)
	}
}

type createRosterRequest struct {
	UserID            string  `json:"user_id" binding:"required,uuid"`
	ZoneID            *string `json:"zone_id" binding:"omitempty,uuid"`
	MehfilDirectoryID *string `json:"mehfil_directory_id" binding:"omitempty,uuid"`
}

type assignDutyRequest struct {
	DutyTypeID string `json:"duty_type_id" binding:"required,uuid"`
}

func (h *Handler) Create(c *gin.Context) {
	actor, err := handler.Actor(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req createRosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid request body", err))
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid user ID", err))
		return
	}
	zoneID, err := parseOptionalID(req.ZoneID)
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid zone ID", err))
		return
	}
	mehfilID, err := parseOptionalID(req.MehfilDirectoryID)
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid mehfil ID", err))
		return
	}

	roster, err := h.service.CreateRoster(c.Request.Context(), actor, userID, zoneID, mehfilID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, roster)
}

func (h *Handler) UpdateSlots(c *gin.Context) {
	actor, err := handler.Actor(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid roster ID", err))
		return
	}

	// The edit form posts the full week as flat per-day columns.
	var cols model.WeekdayColumns
	if err := c.ShouldBindJSON(&cols); err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid request body", err))
		return
	}

	roster, err := h.service.UpdateSlots(c.Request.Context(), actor, id, cols.Slots())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, roster)
}

func (h *Handler) AssignDuty(c *gin.Context) {
	actor, err := handler.Actor(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid roster ID", err))
		return
	}

	var req assignDutyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid request body", err))
		return
	}
	dutyTypeID, err := uuid.Parse(req.DutyTypeID)
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid duty type ID", err))
		return
	}

	roster, err := h.service.AssignDuty(c.Request.Context(), actor, id, c.Param("day"), dutyTypeID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, roster)
}

func (h *Handler) ClearDuty(c *gin.Context) {
	actor, err := handler.Actor(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid roster ID", err))
		return
	}

	roster, err := h.service.ClearDuty(c.Request.Context(), actor, id, c.Param("day"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, roster)
}

func (h *Handler) Delete(c *gin.Context) {
	actor, err := handler.Actor(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid roster ID", err))
		return
	}

	if err := h.service.RemoveRoster(c.Request.Context(), actor, id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"deleted": true})
}

// List returns the consolidated weekly grid for the requested scope.
func (h *Handler) List(c *gin.Context) {
	actor, err := handler.Actor(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	filter := repository.RosterFilter{Search: c.Query("search")}
	filter.Page = queryInt(c, "page")
	filter.Size = queryInt(c, "size")

	filter.ZoneID, err = parseOptionalID(queryPtr(c, "zoneId"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid zone ID", err))
		return
	}
	filter.MehfilDirectoryID, err = parseOptionalID(queryPtr(c, "mehfilDirectoryId"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid mehfil ID", err))
		return
	}

	weeks, total, err := h.service.ListByScope(c.Request.Context(), actor, filter)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	filter.Normalize()
	httputil.RespondWithPagination(c, weeks, filter.Page, filter.Size, total)
}

func (h *Handler) ListByUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid user ID", err))
		return
	}

	rosters, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, rosters)
}

func parseOptionalID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func queryPtr(c *gin.Context, key string) *string {
	if v := c.Query(key); v != "" {
		return &v
	}
	return nil
}

func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}
