package packages

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/middleware"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/model"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/repository"
	apperrors "github.com/mkartalkolcuoglu/randevuSistemi-sub004/pkg/errors"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/pkg/httputil"
)

type Handler struct {
	repo repository.PackageRepository
}

func NewHandler(repo repository.PackageRepository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/customers/:id/packages", h.ListCustomerPackages)
}

// ListCustomerPackages returns the customer's packages with their
// usage rows, the read model the panel shows remaining entitlement
// from.
func (h *Handler) ListCustomerPackages(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid customer ID", err))
		return
	}

	if actor.UserType == model.UserTypeCustomer && actor.CustomerID != customerID {
		httputil.RespondWithError(c, apperrors.Forbidden("packages belong to another customer", nil))
		return
	}

	pkgs, err := h.repo.ListCustomerPackages(c.Request.Context(), actor.TenantID, customerID)
	if err != nil {
		httputil.RespondWithError(c, apperrors.Internal(err))
		return
	}

	httputil.RespondWithSuccess(c, pkgs)
}
