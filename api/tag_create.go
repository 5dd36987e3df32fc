package api

import (
	"errors"
	"net/http"

	"github.com/akulicka/vocabularapp-sub000/internal/store"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type tagBody struct {
	Name string `json:"name"`
}

func (a *API) TagCreate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var data tagBody
	if err := c.ShouldBind(&data); err != nil || data.Name == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Tag name can't be empty",
			"requestID": requestID,
		})
		return
	}

	tag, err := a.Tags.Create(data.Name, userID)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateTag) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error":     "A tag with this name already exists",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create tag", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, tag)
}
