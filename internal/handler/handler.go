package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"flashcard_service/internal/auth"
	"flashcard_service/internal/models"
	"flashcard_service/internal/quiz"
	"flashcard_service/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	services *service.Services
	tokens   TokenVerifier
	db       Pinger
	log      *slog.Logger
}

type errorResponse struct {
	Message string `json:"message"`
}

func newErrorResponse(c *gin.Context, statusCode int, errMessage string) {
	c.AbortWithStatusJSON(statusCode, errorResponse{Message: errMessage})
}

func NewHandler(services *service.Services, tokens TokenVerifier, db Pinger, lgr *slog.Logger) *Handler {
	return &Handler{
		services: services,
		tokens:   tokens,
		db:       db,
		log:      lgr,
	}
}

func (h *Handler) InitRoutes(corsOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery(), RequestLogger(h.log))
	corsConfig := cors.Config{
		AllowOrigins:  corsOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(corsOrigins) == 0 {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", h.Health)

	authn := AuthMiddleware(h.tokens)
	adminOnly := RequireRole(models.RoleAdmin)

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.GET("/profile", authn, h.GetProfile)
	}

	admin := api.Group("/admin", authn, adminOnly)
	{
		admin.GET("/users", h.GetAllUsers)
	}

	decks := api.Group("/decks")
	{
		decks.GET("", h.ListDecks)
		decks.GET("/:id", h.GetDeck)
		decks.POST("", authn, adminOnly, h.CreateDeck)
		decks.PUT("/:id", authn, adminOnly, h.UpdateDeck)
		decks.DELETE("/:id", authn, adminOnly, h.DeleteDeck)
	}

	cards := api.Group("/cards")
	{
		cards.GET("/deck/:deckId", h.ListCards)
		cards.GET("/:id", h.GetCard)
		cards.POST("/deck/:deckId", authn, adminOnly, h.CreateCard)
		cards.PUT("/:id", authn, adminOnly, h.UpdateCard)
		cards.DELETE("/:id", authn, adminOnly, h.DeleteCard)
	}

	quizGroup := api.Group("/quiz", OptionalAuth(h.tokens), RejectRole(models.RoleAdmin))
	{
		quizGroup.POST("/start", h.StartQuiz)
		quizGroup.POST("/answer", h.SubmitAnswer)
		quizGroup.POST("/restart", h.RestartQuiz)
		quizGroup.POST("/exit", h.ExitQuiz)
		quizGroup.POST("/submit", h.SubmitQuiz)
	}

	return router
}

// GET /healthz
func (h *Handler) Health(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		h.log.Error("health check failed", slog.Any("error", err))

		newErrorResponse(c, http.StatusServiceUnavailable, "database unavailable")

		return
	}

	c.String(http.StatusOK, "ok")
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		newErrorResponse(c, http.StatusBadRequest, "invalid "+param)

		return 0, false
	}

	return id, true
}

// statusFor maps service and quiz errors to an HTTP status. Unknown errors
// are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrDuplicateEmail),
		errors.Is(err, quiz.ErrInvalidAnswer),
		errors.Is(err, quiz.ErrInvalidState):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, quiz.ErrEmptyDeck),
		errors.Is(err, quiz.ErrSessionNotFound):
		return http.StatusNotFound
	}

	return http.StatusInternalServerError
}
