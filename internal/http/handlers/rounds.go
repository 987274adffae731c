package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// MyRounds returns the caller's recent settled rounds, newest first.
func (h *Handler) MyRounds(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	rounds, err := h.Play.ListRounds(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rounds": rounds})
}

// JackpotPools returns the live pool amounts and last winners.
func (h *Handler) JackpotPools(c *gin.Context) {
	pools, err := h.Jackpot.Pools(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pools": pools})
}

// RecentFeed returns the stored live-feed events for clients that do not
// hold a websocket open.
func (h *Handler) RecentFeed(c *gin.Context) {
	events, err := h.Feed.Recent(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
