package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/secondspine/bookstore/internal/domains/carts/application"
	sharederrors "github.com/secondspine/bookstore/internal/shared/errors"
)

// CartsHandler serves the storefront shopping cart endpoints.
type CartsHandler struct {
	carts   *application.Service
	respond *sharederrors.Responder
}

func NewCartsHandler(carts *application.Service, respond *sharederrors.Responder) *CartsHandler {
	return &CartsHandler{carts: carts, respond: respond}
}

// Get fetches the cart, starting an empty one for an unseen id.
func (h *CartsHandler) Get(c *gin.Context) {
	sub, ok := customerSub(c, h.respond)
	if !ok {
		return
	}
	cart, err := h.carts.GetCart(c.Request.Context(), c.Param("id"), sub)
	if err != nil {
		h.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainCart(cart))
}

type addItemRequest struct {
	BookID   int64 `json:"bookId" binding:"required"`
	Quantity int32 `json:"quantity" binding:"required"`
}

// AddItem reserves a book in the cart at its current listing price.
func (h *CartsHandler) AddItem(c *gin.Context) {
	sub, ok := customerSub(c, h.respond)
	if !ok {
		return
	}
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respond.BadRequest(c, err.Error())
		return
	}
	cart, err := h.carts.AddBook(c.Request.Context(), c.Param("id"), sub, req.BookID, req.Quantity)
	if err != nil {
		h.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainCart(cart))
}

// RemoveItem drops a line from the cart.
func (h *CartsHandler) RemoveItem(c *gin.Context) {
	itemID, ok := pathID(c, "itemId", h.respond)
	if !ok {
		return
	}
	cart, err := h.carts.RemoveItem(c.Request.Context(), c.Param("id"), itemID)
	if err != nil {
		h.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainCart(cart))
}
