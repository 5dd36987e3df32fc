package api

import (
	"errors"
	"net/http"

	"github.com/akulicka/vocabularapp-sub000/internal/model"
	"github.com/akulicka/vocabularapp-sub000/internal/store"
	"github.com/akulicka/vocabularapp-sub000/validators"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type wordBody struct {
	English      string      `json:"english"`
	Arabic       string      `json:"arabic"`
	Root         string      `json:"root"`
	PartOfSpeech string      `json:"part_of_speech"`
	Img          string      `json:"img"`
	Noun         *model.Noun `json:"noun"`
	Verb         *model.Verb `json:"verb"`
	TagIDs       []string    `json:"tag_ids"`
}

func (b *wordBody) toInput() *store.WordInput {
	return &store.WordInput{
		English:      b.English,
		Arabic:       b.Arabic,
		Root:         b.Root,
		PartOfSpeech: b.PartOfSpeech,
		Img:          b.Img,
		Noun:         b.Noun,
		Verb:         b.Verb,
		TagIDs:       b.TagIDs,
	}
}

func (a *API) WordCreate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

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

	word, err := a.Words.Create(data.toInput(), userID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrMissingExtensionProps):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "Missing attributes for the declared part of speech",
				"requestID": requestID,
			})
		case errors.Is(err, store.ErrNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "One or more tags don't exist",
				"requestID": requestID,
			})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to create word", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	c.JSON(http.StatusOK, word)
}
