package handlers

import (
	"context"
	"net/http"

	"casino_engine/internal/service"

	"github.com/gin-gonic/gin"
)

// StakeRequest starts any of the multi-step games.
type StakeRequest struct {
	Bet      float64 `json:"bet" binding:"required,gt=0"`
	Currency string  `json:"currency" binding:"required"`
}

// actionResponse wraps a mid-round state or, when the action ended the
// round, the settled result.
func actionResponse(c *gin.Context, state any, result any, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	if result != nil {
		c.JSON(http.StatusOK, gin.H{"finished": true, "result": result})
		return
	}
	c.JSON(http.StatusOK, gin.H{"finished": false, "state": state})
}

// HiLo

func (h *Handler) HiLoStart(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req StakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	state, err := h.HiLo.Start(c.Request.Context(), userID, req.Bet, req.Currency)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

type HiLoGuessRequest struct {
	Direction string `json:"direction" binding:"required"`
}

func (h *Handler) HiLoGuess(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req HiLoGuessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	state, result, err := h.HiLo.Guess(c.Request.Context(), userID, req.Direction)
	if err != nil {
		respondError(c, err)
		return
	}
	if result != nil {
		actionResponse(c, nil, result, nil)
		return
	}
	actionResponse(c, state, nil, nil)
}

func (h *Handler) HiLoCashout(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	result, err := h.HiLo.Cashout(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) HiLoState(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	state, err := h.HiLo.State(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Blackjack

func (h *Handler) BlackjackDeal(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req StakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	state, result, err := h.Blackjack.Deal(c.Request.Context(), userID, req.Bet, req.Currency)
	if err != nil {
		respondError(c, err)
		return
	}
	if result != nil {
		actionResponse(c, nil, result, nil)
		return
	}
	actionResponse(c, state, nil, nil)
}

func (h *Handler) BlackjackHit(c *gin.Context)    { h.blackjackAction(c, h.Blackjack.Hit) }
func (h *Handler) BlackjackStand(c *gin.Context)  { h.blackjackAction(c, h.Blackjack.Stand) }
func (h *Handler) BlackjackDouble(c *gin.Context) { h.blackjackAction(c, h.Blackjack.Double) }
func (h *Handler) BlackjackSplit(c *gin.Context)  { h.blackjackAction(c, h.Blackjack.Split) }

func (h *Handler) blackjackAction(c *gin.Context, action func(context.Context, int64) (*service.BlackjackState, *service.PlayResult, error)) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	state, result, err := action(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if result != nil {
		actionResponse(c, nil, result, nil)
		return
	}
	actionResponse(c, state, nil, nil)
}

func (h *Handler) BlackjackState(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	state, err := h.Blackjack.State(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Video poker

func (h *Handler) VideoPokerDeal(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req StakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	state, err := h.VideoPoker.Deal(c.Request.Context(), userID, req.Bet, req.Currency)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

type VideoPokerDrawRequest struct {
	Holds [5]bool `json:"holds"`
}

func (h *Handler) VideoPokerDraw(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req VideoPokerDrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	result, err := h.VideoPoker.Draw(c.Request.Context(), userID, req.Holds)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) VideoPokerState(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	state, err := h.VideoPoker.State(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}
