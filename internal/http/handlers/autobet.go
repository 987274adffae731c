package handlers

import (
	"encoding/json"
	"net/http"

	"casino_engine/internal/domain"

	"github.com/gin-gonic/gin"
)

type AutoBetStartRequest struct {
	Game   string               `json:"game" binding:"required"`
	Config domain.AutoBetConfig `json:"config" binding:"required"`
	Params json.RawMessage      `json:"params" binding:"required"`
}

func (h *Handler) AutoBetStart(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req AutoBetStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	sess, err := h.AutoBet.Start(c.Request.Context(), userID, req.Game, req.Config, req.Params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *Handler) AutoBetStop(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	if err := h.AutoBet.Stop(c.Request.Context(), userID, c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "stopping"})
}

func (h *Handler) AutoBetStatus(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	sess, err := h.AutoBet.Status(c.Request.Context(), userID, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}
