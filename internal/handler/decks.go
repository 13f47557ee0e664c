package handler

import (
	"log/slog"
	"net/http"

	"flashcard_service/internal/service"

	"github.com/gin-gonic/gin"
)

// GET /api/decks
func (h *Handler) ListDecks(c *gin.Context) {
	const op = "handler.ListDecks"

	decks, err := h.services.Decks.ListDecks(c.Request.Context())
	if err != nil {
		h.log.Error("failed to list decks", slog.String("op", op), slog.Any("error", err))

		newErrorResponse(c, http.StatusInternalServerError, "Error fetching decks")

		return
	}

	c.JSON(http.StatusOK, decks)
}

// GET /api/decks/:id
func (h *Handler) GetDeck(c *gin.Context) {
	const op = "handler.GetDeck"

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	deck, err := h.services.Decks.GetDeck(c.Request.Context(), id)
	if err != nil {
		h.fail(c, op, err, deckErrors, "Error fetching deck")

		return
	}

	c.JSON(http.StatusOK, deck)
}

// POST /api/decks
func (h *Handler) CreateDeck(c *gin.Context) {
	const op = "handler.CreateDeck"

	var in service.DeckInput
	if err := c.ShouldBindJSON(&in); err != nil {
		newErrorResponse(c, http.StatusBadRequest, deckErrors.invalid)

		return
	}

	id, err := h.services.Decks.CreateDeck(c.Request.Context(), in)
	if err != nil {
		h.fail(c, op, err, deckErrors, "Error creating deck")

		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Deck created successfully", "deckId": id})
}

// PUT /api/decks/:id
func (h *Handler) UpdateDeck(c *gin.Context) {
	const op = "handler.UpdateDeck"

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var in service.DeckInput
	if err := c.ShouldBindJSON(&in); err != nil {
		newErrorResponse(c, http.StatusBadRequest, deckErrors.invalid)

		return
	}

	if err := h.services.Decks.UpdateDeck(c.Request.Context(), id, in); err != nil {
		h.fail(c, op, err, deckErrors, "Error updating deck")

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deck updated successfully"})
}

// DELETE /api/decks/:id
func (h *Handler) DeleteDeck(c *gin.Context) {
	const op = "handler.DeleteDeck"

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.services.Decks.DeleteDeck(c.Request.Context(), id); err != nil {
		h.fail(c, op, err, deckErrors, "Error deleting deck")

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deck deleted successfully"})
}

type errMessages struct {
	invalid  string
	notFound string
}

var deckErrors = errMessages{
	invalid:  "Name and category are required",
	notFound: "Deck not found",
}

// fail writes the error response for err. Server errors are logged and
// answered with internal.
func (h *Handler) fail(c *gin.Context, op string, err error, msgs errMessages, internal string) {
	switch status := statusFor(err); status {
	case http.StatusBadRequest:
		newErrorResponse(c, status, msgs.invalid)
	case http.StatusNotFound:
		newErrorResponse(c, status, msgs.notFound)
	default:
		h.log.Error(internal, slog.String("op", op), slog.Any("error", err))

		newErrorResponse(c, status, internal)
	}
}
