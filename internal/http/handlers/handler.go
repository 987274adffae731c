package handlers

import (
	"net/http"

	"casino_engine/internal/domain"
	"casino_engine/internal/ledger"
	"casino_engine/internal/logger"
	"casino_engine/internal/service"
	"casino_engine/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB         *pgxpool.Pool
	Ledger     *ledger.Gateway
	Play       *service.PlayService
	HiLo       *service.HiLoService
	Blackjack  *service.BlackjackService
	VideoPoker *service.VideoPokerService
	Seeds      *service.SeedService
	AutoBet    *service.AutoBetService
	Jackpot    *service.JackpotService
	Feed       *service.FeedService
	Hub        *ws.Hub
}

// getUserID pulls the authenticated user id set by the JWT middleware.
func getUserID(c *gin.Context) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// statusByCode maps stable engine error codes to HTTP statuses. Unknown
// errors never leak their message to the client.
var statusByCode = map[string]int{
	"UNSUPPORTED_GAME":     http.StatusBadRequest,
	"INVALID_PARAMS":       http.StatusBadRequest,
	"INVALID_AMOUNT":       http.StatusBadRequest,
	"BET_TOO_LOW":          http.StatusBadRequest,
	"BET_TOO_HIGH":         http.StatusBadRequest,
	"INVALID_CLIENT_SEED":  http.StatusBadRequest,
	"INVALID_ACTION":       http.StatusBadRequest,
	"AUTOBET_CONFIG":       http.StatusBadRequest,
	"DECK_EXHAUSTED":       http.StatusBadRequest,
	"INSUFFICIENT_BALANCE": http.StatusPaymentRequired,
	"USER_BANNED":          http.StatusForbidden,
	"SELF_EXCLUDED":        http.StatusForbidden,
	"COOLING_OFF":          http.StatusForbidden,
	"USER_NOT_FOUND":       http.StatusNotFound,
	"CURRENCY_NOT_FOUND":   http.StatusNotFound,
	"NO_ACTIVE_GAME":       http.StatusNotFound,
	"AUTOBET_NOT_FOUND":    http.StatusNotFound,
	"GAME_IN_PROGRESS":     http.StatusConflict,
	"SEED_IN_USE":          http.StatusConflict,
	"SESSION_BUSY":         http.StatusConflict,
	"AUTOBET_RUNNING":      http.StatusConflict,
}

func respondError(c *gin.Context, err error) {
	code := domain.ErrorCode(err)
	if code == "" {
		logger.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}
