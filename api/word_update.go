package api

import (
	"errors"
	"net/http"

	"github.com/akulicka/vocabularapp-sub000/internal/store"
	"github.com/akulicka/vocabularapp-sub000/validators"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) WordUpdate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	wordID := c.Param("id")
	if wordID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "ID is missing",
			"requestID": requestID,
		})
		return
	}

	var data wordBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := validators.WordValidator(data.English, data.Arabic, data.PartOfSpeech); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	word, err := a.Words.Update(wordID, data.toInput())
	if err != nil {
		switch {
		case errors.Is(err, store.ErrMissingExtensionProps):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "Missing attributes for the declared part of speech",
				"requestID": requestID,
			})
		case errors.Is(err, store.ErrNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Word or tag not found",
				"requestID": requestID,
			})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to update word", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	c.JSON(http.StatusOK, word)
}
