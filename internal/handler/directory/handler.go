package directory

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mehfilportal/admin-api/internal/handler"
	"github.com/mehfilportal/admin-api/internal/model"
	"github.com/mehfilportal/admin-api/internal/repository"
	"github.com/mehfilportal/admin-api/internal/service/scope"
	apperrors "github.com/mehfilportal/admin-api/pkg/errors"
	"github.com/mehfilportal/admin-api/pkg/httputil"
)

// Handler exposes read-only directory lookups used by the portal's
// assignment forms, plus the actor's scope descriptor.
type Handler struct {
	directory repository.DirectoryRepository
	scope     *scope.Service
}

func NewHandler(directory repository.DirectoryRepository, scopeSvc *scope.Service) *Handler {
	return &Handler{directory: directory, scope: scopeSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/zone", h.ListZones)
	r.GET("/mehfil-directory", h.ListMehfils)
	r.GET("/adminUsers", h.ListKarkuns)
	r.GET("/scope", h.Scope)
}

func (h *Handler) ListZones(c *gin.Context) {
	zones, err := h.directory.ListZones(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, zones)
}

func (h *Handler) ListMehfils(c *gin.Context) {
	var zoneID *uuid.UUID
	if raw := c.Query("zoneId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithError(c, apperrors.Validation("invalid zone ID", err))
			return
		}
		zoneID = &id
	}

	mehfils, err := h.directory.ListMehfils(c.Request.Context(), zoneID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, mehfils)
}

func (h *Handler) ListKarkuns(c *gin.Context) {
	var p model.Pagination
	p.Page, _ = strconv.Atoi(c.Query("page"))
	p.Size, _ = strconv.Atoi(c.Query("size"))
	p.Normalize()

	karkuns, total, err := h.directory.ListKarkuns(c.Request.Context(), c.Query("search"), p)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithPagination(c, karkuns, p.Page, p.Size, total)
}

// Scope returns the advisory descriptor the portal uses to build its
// region/zone/mehfil pickers.
func (h *Handler) Scope(c *gin.Context) {
	actor, err := handler.Actor(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	descriptor, err := h.scope.Descriptor(c.Request.Context(), actor)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, descriptor)
}
