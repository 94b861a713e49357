package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/secondspine/bookstore/internal/domains/customers/application"
	"github.com/secondspine/bookstore/internal/domains/customers/domain"
	sharederrors "github.com/secondspine/bookstore/internal/shared/errors"
)

// CustomersHandler serves the profile and address endpoints checkout needs.
type CustomersHandler struct {
	customers *application.Service
	respond   *sharederrors.Responder
}

func NewCustomersHandler(customers *application.Service, respond *sharederrors.Responder) *CustomersHandler {
	return &CustomersHandler{customers: customers, respond: respond}
}

// Addresses lists the caller's delivery addresses.
func (h *CustomersHandler) Addresses(c *gin.Context) {
	sub, ok := customerSub(c, h.respond)
	if !ok {
		return
	}
	addresses, err := h.customers.Addresses(c.Request.Context(), sub)
	if err != nil {
		h.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainAddresses(addresses))
}

type profileRequest struct {
	Name      string    `json:"name" binding:"required"`
	Email     string    `json:"email" binding:"required"`
	Addresses []Address `json:"addresses"`
}

// SaveProfile upserts the caller's profile and address book.
func (h *CustomersHandler) SaveProfile(c *gin.Context) {
	sub, ok := customerSub(c, h.respond)
	if !ok {
		return
	}
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respond.BadRequest(c, err.Error())
		return
	}

	customer := &domain.Customer{Sub: sub, Name: req.Name, Email: req.Email}
	for _, address := range req.Addresses {
		customer.Addresses = append(customer.Addresses, domain.Address{
			ID:       address.ID,
			Line1:    address.Line1,
			Line2:    address.Line2,
			City:     address.City,
			Country:  address.Country,
			PostCode: address.PostCode,
		})
	}
	if existing, err := h.customers.Profile(c.Request.Context(), sub); err == nil {
		customer.ID = existing.ID
	}

	saved, err := h.customers.SaveProfile(c.Request.Context(), customer)
	if err != nil {
		h.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":        saved.ID,
		"name":      saved.Name,
		"email":     saved.Email,
		"addresses": fromDomainAddresses(saved.Addresses),
	})
}
