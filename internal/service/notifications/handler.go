package notifications

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/withdraw-notification", h.withdrawNotification)
	router.POST("/user-notification", h.userNotification)
}

type withdrawBody struct {
	UserID    int64    `json:"user_id" binding:"required"`
	Username  string   `json:"username"`
	FirstName string   `json:"first_name"`
	Amount    *float64 `json:"amount" binding:"required"`
}

type userNotificationBody struct {
	UserID int64    `json:"user_id" binding:"required"`
	Amount *float64 `json:"amount" binding:"required"`
}

func (h *Handler) withdrawNotification(c *gin.Context) {
	var req withdrawBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing required fields"})
		return
	}

	h.service.WithdrawRequested(c.Request.Context(), WithdrawRequest{
		UserID:    req.UserID,
		Username:  req.Username,
		FirstName: req.FirstName,
		Amount:    *req.Amount,
	})

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Withdrawal notifications sent successfully"})
}

func (h *Handler) userNotification(c *gin.Context) {
	var req userNotificationBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing required fields"})
		return
	}

	h.service.WithdrawConfirmation(c.Request.Context(), req.UserID, *req.Amount)

	c.JSON(http.StatusOK, gin.H{"success": true})
}
