package service

import (
	"time"

	"github.com/akulicka/vocabularapp-sub000/internal/model"
	"github.com/akulicka/vocabularapp-sub000/internal/store"
	"go.uber.org/zap"
)

// TokenSweep periodically bulk-deletes expired tokens of one class.
// Runs free of the request cycle, an abandoned quiz session dies here
// without ever producing a result
func TokenSweep(t time.Duration, class string, tokens *store.TokenStore) {
	ticker := time.NewTicker(t)

	zap.L().Debug("Token sweep attached",
		zap.String("class", class),
		zap.Duration("tick_every", t),
	)

	go func() {
		for range ticker.C {
			n, err := tokens.SweepExpired(class)
			if err != nil {
				zap.L().Error("Failed to sweep expired tokens",
					zap.String("class", class),
					zap.Error(err),
				)
				continue
			}

			if n > 0 {
				zap.L().Debug("Swept expired tokens",
					zap.String("class", class),
					zap.Int64("count", n),
				)
			}
		}
	}()
}

// StartSweepers attaches the background sweeps for both token classes
func StartSweepers(tokens *store.TokenStore, quizInterval, verifyInterval time.Duration) {
	TokenSweep(quizInterval, model.TokenClassQuiz, tokens)
	TokenSweep(verifyInterval, model.TokenClassVerify, tokens)
}
