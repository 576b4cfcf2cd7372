package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	apierrors "github.com/yukikurage/stride-league-api/internal/errors"
)

// Recovery turns panics into a 500. In development the panic value is included in the body.
func Recovery(development bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			log.Ctx(c.Request.Context()).Error().
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			message := "Internal server error"
			if development {
				message = fmt.Sprintf("Internal server error: %v", r)
			}
			apierrors.InternalError(c, message)
			c.Abort()
		}()
		c.Next()
	}
}
