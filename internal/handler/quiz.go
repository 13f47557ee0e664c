package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"flashcard_service/internal/quiz"
	"flashcard_service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

type sessionRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

type submitResponse struct {
	Message string `json:"message"`
	service.SubmitResult
}

// quizFail maps quiz errors to a response. Everything unexpected is a 500.
func (h *Handler) quizFail(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, quiz.ErrEmptyDeck):
		newErrorResponse(c, http.StatusNotFound, "No cards found")
	case errors.Is(err, quiz.ErrSessionNotFound):
		newErrorResponse(c, http.StatusNotFound, "Quiz session not found")
	case errors.Is(err, service.ErrNotFound):
		newErrorResponse(c, http.StatusNotFound, "Card not found")
	case errors.Is(err, quiz.ErrInvalidAnswer):
		newErrorResponse(c, http.StatusBadRequest, "selected_answer must be one of a, b, c, d")
	case errors.Is(err, quiz.ErrInvalidState):
		newErrorResponse(c, http.StatusBadRequest, "Quiz is not in a state that allows this action")
	case errors.Is(err, quiz.ErrSubmitInProgress):
		newErrorResponse(c, http.StatusConflict, "Score submission already in progress")
	case errors.Is(err, quiz.ErrTooManySessions):
		newErrorResponse(c, http.StatusServiceUnavailable, "Too many active quizzes, try again later")
	default:
		h.log.Error("quiz request failed", slog.String("op", op), slog.Any("error", err))

		newErrorResponse(c, http.StatusInternalServerError, "internal error")
	}
}

// POST /api/quiz/start
func (h *Handler) StartQuiz(c *gin.Context) {
	const op = "handler.StartQuiz"

	var req struct {
		DeckID int64 `json:"deck_id" binding:"required,gt=0"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "deck_id is required")

		return
	}

	var userID *uuid.UUID
	if id, ok := identityFrom(c); ok {
		userID = &id.UserID
	}

	res, err := h.services.Quiz.Start(c.Request.Context(), req.DeckID, userID)
	if err != nil {
		h.quizFail(c, op, err)

		return
	}

	c.JSON(http.StatusOK, res)
}

// POST /api/quiz/answer
//
// With session_id the answer advances that quiz. With only card_id it is
// checked against the card and nothing is recorded.
func (h *Handler) SubmitAnswer(c *gin.Context) {
	const op = "handler.SubmitAnswer"

	var req struct {
		SessionID      string `json:"session_id"`
		CardID         int64  `json:"card_id"`
		SelectedAnswer string `json:"selected_answer" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil || (req.SessionID == "" && req.CardID <= 0) {
		newErrorResponse(c, http.StatusBadRequest, "selected_answer and session_id or card_id are required")

		return
	}

	var (
		res service.AnswerResult
		err error
	)

	if req.SessionID != "" {
		res, err = h.services.Quiz.Answer(c.Request.Context(), req.SessionID, req.SelectedAnswer)
	} else {
		res, err = h.services.Quiz.CheckAnswer(c.Request.Context(), req.CardID, req.SelectedAnswer)
	}

	if err != nil {
		h.quizFail(c, op, err)

		return
	}

	c.JSON(http.StatusOK, res)
}

// POST /api/quiz/restart
func (h *Handler) RestartQuiz(c *gin.Context) {
	const op = "handler.RestartQuiz"

	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "session_id is required")

		return
	}

	res, err := h.services.Quiz.Restart(c.Request.Context(), req.SessionID)
	if err != nil {
		h.quizFail(c, op, err)

		return
	}

	c.JSON(http.StatusOK, res)
}

// POST /api/quiz/exit
func (h *Handler) ExitQuiz(c *gin.Context) {
	const op = "handler.ExitQuiz"

	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "session_id is required")

		return
	}

	if err := h.services.Quiz.Exit(c.Request.Context(), req.SessionID); err != nil {
		h.quizFail(c, op, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quiz exited"})
}

// POST /api/quiz/submit
func (h *Handler) SubmitQuiz(c *gin.Context) {
	const op = "handler.SubmitQuiz"

	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "session_id is required")

		return
	}

	res, err := h.services.Quiz.Submit(c.Request.Context(), req.SessionID)
	if err != nil {
		h.quizFail(c, op, err)

		return
	}

	msg := "Score saved successfully"
	if !res.Saved {
		msg = "Quiz finished, but the score could not be saved"
	}

	c.JSON(http.StatusOK, submitResponse{Message: msg, SubmitResult: res})
}
