package handlers

import (
	"errors"
	"net/http"

	"casino_engine/internal/repository"

	"github.com/gin-gonic/gin"
)

// CurrentSeed returns the caller's active seed pair in its public form:
// hash, client seed and nonce, never the unrevealed server seed.
func (h *Handler) CurrentSeed(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	seed, err := h.Seeds.GetOrCreate(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, seed.Public())
}

type RotateSeedRequest struct {
	ClientSeed string `json:"client_seed"`
}

// RotateSeed reveals the active pair and activates a fresh one. The
// response carries the revealed server seed so past rounds are verifiable
// immediately.
func (h *Handler) RotateSeed(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req RotateSeedRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	res, err := h.Seeds.Rotate(c.Request.Context(), userID, req.ClientSeed)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type ClientSeedRequest struct {
	ClientSeed string `json:"client_seed" binding:"required"`
}

// SetClientSeed replaces the client seed on the active pair.
func (h *Handler) SetClientSeed(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req ClientSeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	seed, err := h.Seeds.SetClientSeed(c.Request.Context(), userID, req.ClientSeed)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, seed.Public())
}

// RevealedSeed looks a revealed pair up by its hash. Public: anyone can
// audit a finished seed chain.
func (h *Handler) RevealedSeed(c *gin.Context) {
	seed, err := h.Seeds.GetRevealed(c.Request.Context(), c.Param("hash"))
	if err != nil {
		if errors.Is(err, repository.ErrNoActiveSeed) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no revealed seed with that hash"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, seed.Public())
}
