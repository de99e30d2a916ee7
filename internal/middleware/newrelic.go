package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
)

// ClerkIDKey is the gin context key handlers set to the acting customer.
const ClerkIDKey = "clerkId"

// NewRelicAttributes tags the nrgin transaction with the acting customer and
// records handler errors. It must run after nrgin.Middleware.
func NewRelicAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		txn := nrgin.Transaction(c)
		if txn == nil {
			return
		}

		clerkID := c.GetString(ClerkIDKey)
		if clerkID == "" {
			clerkID = c.Query(ClerkIDKey)
		}
		if clerkID != "" {
			txn.AddAttribute(ClerkIDKey, clerkID)
		}
		if adminID := c.GetString(AdminIDKey); adminID != "" {
			txn.AddAttribute(AdminIDKey, adminID)
		}

		for _, err := range c.Errors {
			txn.NoticeError(err.Err)
		}
	}
}
