package api

import (
	"errors"
	"net/http"

	"github.com/akulicka/vocabularapp-sub000/internal/store"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TagDelete removes a tag and its word links. The words themselves
// survive
func (a *API) TagDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	tagID := c.Param("id")
	if tagID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "ID is missing",
			"requestID": requestID,
		})
		return
	}

	if err := a.Tags.Delete(tagID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Tag not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete tag", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.Status(http.StatusOK)
}
