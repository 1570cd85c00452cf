package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

//
// --- AI Gift Message Handlers ---
//

// SuggestGiftMessageInput is the JSON body for POST /v1/gift-messages/suggest.
type SuggestGiftMessageInput struct {
	Occasion  string `json:"occasion" binding:"required"`
	Recipient string `json:"recipient" binding:"required"`
	Tone      string `json:"tone,omitempty"`
}

// SuggestGiftMessage is the handler for POST /v1/gift-messages/suggest.
// Returns short gift-card message ideas for a customized item.
func (h *Handlers) SuggestGiftMessage(c *gin.Context) {
	if h.AI == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Gift message suggestions are not enabled"})
		return
	}

	var input SuggestGiftMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	suggestions, err := h.AI.SuggestGiftMessage(c.Request.Context(), input.Occasion, input.Recipient, input.Tone, "")
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to generate suggestions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}
