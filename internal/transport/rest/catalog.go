package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/secondspine/bookstore/internal/domains/catalog/ports"
	sharederrors "github.com/secondspine/bookstore/internal/shared/errors"
)

// CatalogHandler serves the storefront book view and the back-office
// inventory endpoints.
type CatalogHandler struct {
	catalog ports.Service
	respond *sharederrors.Responder
}

func NewCatalogHandler(catalog ports.Service, respond *sharederrors.Responder) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, respond: respond}
}

// Get fetches a single book.
func (h *CatalogHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", h.respond)
	if !ok {
		return
	}
	book, err := h.catalog.GetBook(c.Request.Context(), id)
	if err != nil {
		h.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainBook(book))
}

type priceUpdateRequest struct {
	Price float64 `json:"price" binding:"required"`
}

// UpdatePrice sets a new list price, journaling who changed it.
func (h *CatalogHandler) UpdatePrice(c *gin.Context) {
	admin, ok := adminUser(c, h.respond)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", h.respond)
	if !ok {
		return
	}
	var req priceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respond.BadRequest(c, err.Error())
		return
	}
	book, err := h.catalog.UpdatePrice(c.Request.Context(), id, req.Price, admin)
	if err != nil {
		h.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainBook(book))
}

type restockRequest struct {
	Quantity int32 `json:"quantity" binding:"required"`
}

// Restock adds inventory, journaling who changed it.
func (h *CatalogHandler) Restock(c *gin.Context) {
	admin, ok := adminUser(c, h.respond)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", h.respond)
	if !ok {
		return
	}
	var req restockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respond.BadRequest(c, err.Error())
		return
	}
	book, err := h.catalog.RestockBook(c.Request.Context(), id, req.Quantity, admin)
	if err != nil {
		h.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainBook(book))
}

type updatesResponse struct {
	Mine   []InventoryUpdate `json:"mine"`
	Others []InventoryUpdate `json:"others"`
}

// RecentUpdates serves the admin dashboard panels: the latest inventory
// touches by the caller, and by everyone else.
func (h *CatalogHandler) RecentUpdates(c *gin.Context) {
	admin, ok := adminUser(c, h.respond)
	if !ok {
		return
	}
	mine, err := h.catalog.RecentUpdates(c.Request.Context(), admin)
	if err != nil {
		h.respond.RespondError(c, err)
		return
	}
	others, err := h.catalog.RecentGlobalUpdates(c.Request.Context(), admin)
	if err != nil {
		h.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updatesResponse{
		Mine:   fromDomainUpdates(mine),
		Others: fromDomainUpdates(others),
	})
}
