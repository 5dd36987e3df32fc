package api

import (
	"errors"
	"net/http"

	"github.com/akulicka/vocabularapp-sub000/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type quizStartBody struct {
	SelectedTags []string `json:"selected_tags"`
}

func (a *API) QuizStart(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var data quizStartBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	session, err := a.Quiz.Start(userID, data.SelectedTags)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoTagsSelected):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "Select at least one tag to start a quiz",
				"requestID": requestID,
			})
		case errors.Is(err, service.ErrNoWordsFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "No words found for the selected tags",
				"requestID": requestID,
			})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to start quiz", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	c.JSON(http.StatusOK, session)
}
