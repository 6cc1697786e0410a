package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joker-whysosireus/CryptoPay-Backend/internal/features/payment/service"
)

type PaymentHandler struct {
	service service.PaymentService
}

func NewPaymentHandler(service service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

func (h *PaymentHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/create-invoice", h.createInvoice)
	router.POST("/verify-payment", h.verifyPayment)
}

type invoiceRequest struct {
	UserID int64  `json:"user_id" binding:"required"`
	ItemID string `json:"item_id" binding:"required"`
}

type verifyRequest struct {
	UserID  int64  `json:"user_id" binding:"required"`
	Payload string `json:"payload" binding:"required"`
}

func (h *PaymentHandler) createInvoice(c *gin.Context) {
	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing user_id or item_id"})
		return
	}

	link, err := h.service.CreateInvoice(c.Request.Context(), req.UserID, req.ItemID)
	if err != nil {
		if errors.Is(err, service.ErrUnknownItem) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "Unknown item_id"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "invoice_link": link})
}

func (h *PaymentHandler) verifyPayment(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing payload or user_id"})
		return
	}

	receipt, err := h.service.VerifyPayment(c.Request.Context(), req.UserID, req.Payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPayload), errors.Is(err, service.ErrUnknownItem):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		case errors.Is(err, service.ErrUserNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		}
		return
	}

	if receipt.Duplicate {
		c.JSON(http.StatusOK, gin.H{"success": true, "duplicate": true})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"message":           "Payment processed successfully",
		"boost_activated":   receipt.BoostActivated,
		"booster_purchased": receipt.BoosterPurchased,
		"booster_count":     receipt.BoosterCount,
	})
}
