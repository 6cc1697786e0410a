package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	rediscache "github.com/joker-whysosireus/CryptoPay-Backend/internal/cache/redis"
	"github.com/joker-whysosireus/CryptoPay-Backend/internal/features/auth/service"
)

type AuthHandler struct {
	service service.AuthService
	cache   *rediscache.AccountCache // optional
}

func NewAuthHandler(service service.AuthService, cache *rediscache.AccountCache) *AuthHandler {
	return &AuthHandler{
		service: service,
		cache:   cache,
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/auth", h.authenticate)
}

type authRequest struct {
	InitData string `json:"initData"`
}

// authenticate validates Telegram init data and returns the resolved
// account. Verification failures are negative verdicts, not server errors:
// a missing or malformed payload is the client's fault (400), a bad
// signature or an expired auth_date is reported inside a 200 body the way
// the frontend expects. Only store failures produce a 500.
func (h *AuthHandler) authenticate(c *gin.Context) {
	var req authRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"isValid": false, "error": "Invalid JSON format in request body"})
		return
	}

	verdict, err := h.service.Authenticate(c.Request.Context(), req.InitData)
	if err != nil {
		log.Error().Err(err).Msg("Authentication failed on the store side")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"isValid": false, "error": "Failed to resolve user"})
		return
	}

	if !verdict.Valid {
		switch verdict.Reason {
		case service.ReasonMalformedInput:
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"isValid": false, "error": "initData is missing in request body"})
		case service.ReasonMissingField:
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"isValid": false, "error": "Missing user, auth_date, or hash in initData"})
		case service.ReasonInvalidUserPayload:
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"isValid": false, "error": "Error parsing user JSON"})
		case service.ReasonHashMismatch:
			c.JSON(http.StatusOK, gin.H{"isValid": false, "error": "Hash mismatch"})
		default: // stale
			c.JSON(http.StatusOK, gin.H{"isValid": false})
		}
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(c.Request.Context(), verdict.Account); err != nil {
			log.Warn().Err(err).Int64("telegram_user_id", verdict.Account.TelegramUserID).Msg("Account cache write failed")
		}
	}

	c.JSON(http.StatusOK, gin.H{"isValid": true, "userData": verdict.Account})
}
