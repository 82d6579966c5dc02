package middleware

import (
	"strconv"

	apierrors "github.com/collabridge/collabridge-api/internal/errors"
	"github.com/gin-gonic/gin"
)

const paramKeyPrefix = "param_id:"

// RequireIDParam parses a positive integer path parameter and stores it for
// the handler. Malformed ids never reach the services.
func RequireIDParam(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param(name), 10, 64)
		if err != nil || id == 0 {
			apierrors.BadRequest(c, "Invalid "+name)
			return
		}

		c.Set(paramKeyPrefix+name, id)
		c.Next()
	}
}

// GetIDParam returns a path id parsed by RequireIDParam
func GetIDParam(c *gin.Context, name string) uint64 {
	v, _ := c.Get(paramKeyPrefix + name)
	id, _ := v.(uint64)
	return id
}
