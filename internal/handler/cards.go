package handler

import (
	"net/http"

	"flashcard_service/internal/service"

	"github.com/gin-gonic/gin"
)

var cardErrors = errMessages{
	invalid:  "All question and option fields are required",
	notFound: "Card not found",
}

// GET /api/cards/deck/:deckId
func (h *Handler) ListCards(c *gin.Context) {
	const op = "handler.ListCards"

	deckID, ok := parseID(c, "deckId")
	if !ok {
		return
	}

	cards, err := h.services.Decks.ListCards(c.Request.Context(), deckID)
	if err != nil {
		h.fail(c, op, err, errMessages{notFound: "No cards found for this deck"}, "Error fetching cards")

		return
	}

	c.JSON(http.StatusOK, cards)
}

// GET /api/cards/:id
func (h *Handler) GetCard(c *gin.Context) {
	const op = "handler.GetCard"

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	card, err := h.services.Decks.GetCard(c.Request.Context(), id)
	if err != nil {
		h.fail(c, op, err, cardErrors, "Error fetching card")

		return
	}

	c.JSON(http.StatusOK, card)
}

// POST /api/cards/deck/:deckId
func (h *Handler) CreateCard(c *gin.Context) {
	const op = "handler.CreateCard"

	deckID, ok := parseID(c, "deckId")
	if !ok {
		return
	}

	var in service.CardInput
	if err := c.ShouldBindJSON(&in); err != nil {
		newErrorResponse(c, http.StatusBadRequest, cardErrors.invalid)

		return
	}

	id, err := h.services.Decks.CreateCard(c.Request.Context(), deckID, in)
	if err != nil {
		h.fail(c, op, err, errMessages{invalid: cardErrors.invalid, notFound: deckErrors.notFound}, "Error creating card")

		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Card created successfully", "cardId": id})
}

// PUT /api/cards/:id
func (h *Handler) UpdateCard(c *gin.Context) {
	const op = "handler.UpdateCard"

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var in service.CardInput
	if err := c.ShouldBindJSON(&in); err != nil {
		newErrorResponse(c, http.StatusBadRequest, cardErrors.invalid)

		return
	}

	if err := h.services.Decks.UpdateCard(c.Request.Context(), id, in); err != nil {
		h.fail(c, op, err, cardErrors, "Error updating card")

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Card updated successfully"})
}

// DELETE /api/cards/:id
func (h *Handler) DeleteCard(c *gin.Context) {
	const op = "handler.DeleteCard"

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.services.Decks.DeleteCard(c.Request.Context(), id); err != nil {
		h.fail(c, op, err, cardErrors, "Error deleting card")

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Card deleted successfully"})
}
