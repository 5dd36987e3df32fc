// Package api contains all endpoints available
package api

import (
	"fmt"
	"time"

	"github.com/akulicka/vocabularapp-sub000/db"
	"github.com/akulicka/vocabularapp-sub000/internal/service"
	"github.com/akulicka/vocabularapp-sub000/internal/store"
	"github.com/akulicka/vocabularapp-sub000/pkg/middleware"
	"github.com/akulicka/vocabularapp-sub000/pkg/security"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var responseCache = persist.NewMemoryStore(time.Minute)

type API struct {
	DB     *gorm.DB
	Router *gin.Engine
	Argon  *security.ArgonHash

	Tokens  *store.TokenStore
	Words   *store.WordStore
	Tags    *store.TagStore
	Results *store.ResultStore

	Verification *service.VerificationService
	Quiz         *service.QuizEngine
}

func NewRouter() (*API, error) {
	a := &API{}

	conn, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	a.DB = conn

	makeLogger()

	a.Tokens = store.NewTokenStore(conn, store.TokenTTLs{
		Verify: time.Duration(viper.GetInt("verify.lifetime_minutes")) * time.Minute,
		Quiz:   time.Duration(viper.GetInt("quiz.session_ttl_minutes")) * time.Minute,
	})
	a.Words = store.NewWordStore(conn)
	a.Tags = store.NewTagStore(conn)
	a.Results = store.NewResultStore(conn)

	var mailer service.Mailer = service.LogMailer{}
	if viper.GetBool("mail.enabled") {
		mailer = service.SMTPMailer{}
	}

	a.Verification = service.NewVerificationService(
		conn,
		a.Tokens,
		mailer,
		time.Duration(viper.GetInt("verify.lifetime_minutes"))*time.Minute,
	)
	a.Quiz = service.NewQuizEngine(
		a.Words,
		a.Results,
		a.Tokens,
		viper.GetInt("quiz.max_questions"),
		viper.GetBool("quiz.trust_client_grading"),
	)
	a.Argon = security.New()

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     viper.GetStringSlice("host.cors"),
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	jwt := middleware.NewJWTMiddleware(conn)
	rateLimit := viper.GetInt("security.rate_limit")

	main := router.Group("/api",
		middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
			RequestsPerSecond: rateLimit,
			Burst:             rateLimit * 2,
		}),
		middleware.BodySizeLimiter(1<<20),
	)
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)

		// GET /api/validate		-> Validates a JWT token
		main.GET("/validate", jwt, a.Validate)
	}

	users := main.Group("/users")
	{
		// GET /api/users		-> Returns the basic info of a user
		users.GET("", jwt, a.UserFetch)

		// POST /api/users 		-> Registers a new user
		users.POST("", a.UserRegister)

		// POST /api/users/login 	-> Logs in a user and returns a JWT cookie
		users.POST("/login", a.UserLogin)

		// POST /api/users/verify	-> Validates an email verification challenge
		users.POST("/verify", a.UserVerify)

		// POST /api/users/verify/resend -> Issues a fresh verification challenge
		users.POST("/verify/resend", a.UserResend)
	}

	words := main.Group("/words", jwt)
	{
		// GET /api/words/:id		-> Returns a word with its extension and tags
		words.GET("/:id", a.WordFetch)

		// POST /api/words		-> Creates a new word
		words.POST("", a.WordCreate)

		// PUT /api/words/:id		-> Updates a word, switching its extension if needed
		words.PUT("/:id", a.WordUpdate)

		// DELETE /api/words/:id	-> Deletes a word with its extension and tag links
		words.DELETE("/:id", a.WordDelete)
	}

	tags := main.Group("/tags", jwt)
	{
		// GET /api/tags		-> Lists all tags
		tags.GET("", cacheFor(15), a.TagList)

		// POST /api/tags		-> Creates a new tag
		tags.POST("", a.TagCreate)

		// DELETE /api/tags/:id		-> Deletes a tag, keeping its words
		tags.DELETE("/:id", a.TagDelete)
	}

	quizzes := main.Group("/quizzes", jwt)
	{
		// POST /api/quizzes		-> Starts a quiz from the selected tags
		quizzes.POST("", a.QuizStart)

		// POST /api/quizzes/:id/submit	-> Grades a quiz submission
		quizzes.POST("/:id/submit", a.QuizSubmit)

		// GET /api/quizzes/results/:id	-> Returns a single graded result
		quizzes.GET("/results/:id", a.QuizResult)

		// GET /api/quizzes/history	-> Returns the user's graded results, paginated
		quizzes.GET("/history", cacheFor(15), a.QuizHistory)
	}

	// Expired sessions die in the background, not in request handlers
	service.StartSweepers(
		a.Tokens,
		time.Duration(viper.GetInt("quiz.sweep_interval_minutes"))*time.Minute,
		time.Duration(viper.GetInt("verify.sweep_interval_hours"))*time.Hour,
	)

	return a, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(responseCache, time.Second*time.Duration(sec))
}
