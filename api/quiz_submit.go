package api

import (
	"errors"
	"net/http"

	"github.com/akulicka/vocabularapp-sub000/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type quizSubmitBody struct {
	Answers []service.Answer `json:"answers"`
}

func (a *API) QuizSubmit(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	quizID := c.Param("id")
	if quizID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "ID is missing",
			"requestID": requestID,
		})
		return
	}

	var data quizSubmitBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	result, err := a.Quiz.Submit(userID, quizID, data.Answers)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Quiz session not found or expired",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to grade quiz", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result": result,
		"score":  result.Score(),
	})
}
