package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Validate only runs if the JWT middleware let the request through
func (a *API) Validate(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"userID": c.MustGet("userID").(string),
	})
}
