package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// PlayRequest is the shared single-call bet request for instant games.
// Params carries the per-game shape and is validated by the game itself.
type PlayRequest struct {
	Bet      float64         `json:"bet" binding:"required,gt=0"`
	Currency string          `json:"currency" binding:"required"`
	Params   json.RawMessage `json:"params" binding:"required"`
}

// PlayGame handles POST /games/:slug/play for every instant game.
func (h *Handler) PlayGame(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req PlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	res, err := h.Play.Play(c.Request.Context(), userID, c.Param("slug"), req.Bet, req.Currency, req.Params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListGames returns the playable instant game slugs and the bet limits.
func (h *Handler) ListGames(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"games":  h.Play.Registry().Slugs(),
		"limits": h.Play.Limits(),
	})
}

// Balance returns the caller's wallet balance for one currency.
func (h *Handler) Balance(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	currency := c.DefaultQuery("currency", "USD")
	balance, err := h.Ledger.GetBalance(c.Request.Context(), userID, currency)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"currency": currency, "balance": balance})
}
