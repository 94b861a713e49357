package rest

import (
	"strconv"

	"github.com/gin-gonic/gin"

	sharederrors "github.com/secondspine/bookstore/internal/shared/errors"
)

// Identity arrives pre-verified from the gateway; these headers carry the
// subject claims downstream.
const (
	headerCustomerSub = "X-Customer-Sub"
	headerAdminUser   = "X-Admin-User"
)

func customerSub(c *gin.Context, respond *sharederrors.Responder) (string, bool) {
	sub := c.GetHeader(headerCustomerSub)
	if sub == "" {
		respond.BadRequest(c, "missing "+headerCustomerSub+" header")
		return "", false
	}
	return sub, true
}

func adminUser(c *gin.Context, respond *sharederrors.Responder) (string, bool) {
	admin := c.GetHeader(headerAdminUser)
	if admin == "" {
		respond.BadRequest(c, "missing "+headerAdminUser+" header")
		return "", false
	}
	return admin, true
}

func pathID(c *gin.Context, param string, respond *sharederrors.Responder) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil {
		respond.BadRequest(c, param+" must be an integer")
		return 0, false
	}
	return id, true
}
