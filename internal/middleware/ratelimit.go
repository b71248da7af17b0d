package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/adriancmurray/notICE/internal/services"
	"github.com/gin-gonic/gin"
)

// IdentityKey is the context key under which the resolved submitter identity
// is stashed for the create handler.
const IdentityKey = "report_identity"

// ReportRateLimit gates report creation. It resolves the submitter identity,
// asks the limiter for an admit/reject decision, and on rejection aborts the
// request before anything is persisted. Admitted requests carry the identity
// in the gin context so the handler can attach it to the new report.
func ReportRateLimit(limiter *services.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := services.ResolveIdentity(c.Request.Header, c.Request.RemoteAddr)

		if err := limiter.Admit(identity); err != nil {
			if errors.Is(err, services.ErrRateLimited) {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
					"error": fmt.Sprintf("Please wait %s between reports", limiter.Window()),
				})
				return
			}
			// Admit never returns other errors today; treat any future one
			// as fail-open to keep the submission path available.
		}

		c.Set(IdentityKey, identity)
		c.Next()
	}
}
