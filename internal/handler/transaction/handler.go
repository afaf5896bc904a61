package transaction

import (
	"github.com/gin-gonic/gin"

	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/middleware"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/model"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/repository"
	apperrors "github.com/mkartalkolcuoglu/randevuSistemi-sub004/pkg/errors"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/pkg/httputil"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type Handler struct {
	repo repository.TransactionRepository
}

func NewHandler(repo repository.TransactionRepository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/transactions", h.ListTransactions)
}

// ListTransactions is the tenant ledger view. Customers have no
// business reading it.
func (h *Handler) ListTransactions(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return
	}
	if actor.UserType == model.UserTypeCustomer {
		httputil.RespondWithError(c, apperrors.Forbidden("transactions are not available to customers", nil))
		return
	}

	var page model.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid pagination parameters", err))
		return
	}
	if page.Page < 1 {
		page.Page = 1
	}
	if page.PageSize < 1 || page.PageSize > maxPageSize {
		page.PageSize = defaultPageSize
	}

	filters := &model.TransactionFilters{
		TenantID: actor.TenantID,
		Type:     model.TransactionType(c.Query("type")),
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
		Limit:    page.PageSize,
		Offset:   (page.Page - 1) * page.PageSize,
	}

	total, err := h.repo.Count(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, apperrors.Internal(err))
		return
	}

	transactions, err := h.repo.List(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, apperrors.Internal(err))
		return
	}

	httputil.RespondWithPagination(c, transactions, page.Page, page.PageSize, total)
}
