package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"casino_engine/internal/fair"

	"github.com/gin-gonic/gin"
)

// Verify recomputes a round's primitive outcome from a revealed seed
// triple. Public and stateless: trust comes from the math, not the caller.
func (h *Handler) Verify(c *gin.Context) {
	req := fair.VerifyRequest{
		ServerSeed: c.Query("server_seed"),
		ClientSeed: c.Query("client_seed"),
		GameType:   c.Query("game"),
	}
	if req.ServerSeed == "" || req.ClientSeed == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "server_seed and client_seed are required"})
		return
	}

	nonce, err := strconv.ParseUint(c.DefaultQuery("nonce", "0"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid nonce"})
		return
	}
	req.Nonce = nonce

	if v := c.Query("house_edge"); v != "" {
		edge, err := strconv.ParseFloat(v, 64)
		if err != nil || edge < 0 || edge >= 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid house_edge"})
			return
		}
		req.HouseEdge = edge
	}
	if v := c.Query("rows"); v != "" {
		rows, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rows"})
			return
		}
		req.Rows = rows
	}
	if v := c.Query("mines"); v != "" {
		mines, err := strconv.Atoi(v)
		if err != nil || mines < 1 || mines >= fair.MineCells {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mines"})
			return
		}
		req.Mines = mines
	}

	res, err := fair.Verify(req)
	if err != nil {
		if errors.Is(err, fair.ErrUnknownGameType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
