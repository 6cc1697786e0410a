package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/joker-whysosireus/CryptoPay-Backend/internal/features/user/models"
	"github.com/joker-whysosireus/CryptoPay-Backend/internal/features/user/service"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/users/:id", h.getUser)
	router.POST("/update-balance", h.updateBalance)
	router.POST("/save-wallet", h.saveWallet)
	router.POST("/update-booster", h.updateBooster)
	router.POST("/watch-ad-reward", h.watchAdReward)
}

type balanceRequest struct {
	TelegramUserID int64    `json:"telegram_user_id" binding:"required"`
	Amount         *float64 `json:"amount" binding:"required"`
}

type walletRequest struct {
	TelegramUserID int64  `json:"telegram_user_id" binding:"required"`
	WalletAddress  string `json:"wallet_address" binding:"required"`
}

type boosterRequest struct {
	TelegramUserID int64  `json:"telegram_user_id" binding:"required"`
	BoosterType    string `json:"booster_type" binding:"required"`
}

type adRewardRequest struct {
	TelegramUserID int64 `json:"telegram_user_id" binding:"required"`
}

func (h *UserHandler) getUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid user ID format"})
		return
	}

	account, err := h.service.GetAccount(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": account})
}

func (h *UserHandler) updateBalance(c *gin.Context) {
	var req balanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing required fields"})
		return
	}

	newBalance, err := h.service.AddBalance(c.Request.Context(), req.TelegramUserID, *req.Amount)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "newBalance": newBalance})
}

func (h *UserHandler) saveWallet(c *gin.Context) {
	var req walletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing required fields"})
		return
	}

	account, err := h.service.SaveWallet(c.Request.Context(), req.TelegramUserID, req.WalletAddress)
	if err != nil {
		if errors.Is(err, service.ErrInvalidWallet) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid wallet address"})
			return
		}
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": account})
}

func (h *UserHandler) updateBooster(c *gin.Context) {
	var req boosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing telegram_user_id or booster_type"})
		return
	}

	booster, newCount, err := h.service.ActivateBooster(c.Request.Context(), req.TelegramUserID, req.BoosterType)
	if err != nil {
		if errors.Is(err, models.ErrUnknownBooster) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid booster type"})
			return
		}
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Booster updated successfully",
		"booster_type": booster,
		"new_count":    newCount,
	})
}

func (h *UserHandler) watchAdReward(c *gin.Context) {
	var req adRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "telegram_user_id is required"})
		return
	}

	account, reward, err := h.service.WatchAdReward(c.Request.Context(), req.TelegramUserID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"userData": account,
		"reward": gin.H{
			"amount":    reward,
			"has_boost": account.HasBoost,
		},
	})
}

func (h *UserHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, service.ErrUserNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
}
