package models

import "time"

// Payment is one settled Stars purchase, keyed by the invoice payload so a
// replayed webhook or client retry cannot apply the same purchase twice.
type Payment struct {
	Payload        string    `json:"payload"`
	TelegramUserID int64     `json:"telegram_user_id"`
	ItemID         string    `json:"item_id"`
	Amount         int       `json:"amount"`
	CreatedAt      time.Time `json:"created_at"`
}

// InvoicePayload is the JSON blob embedded in an invoice link and echoed
// back on successful payment.
type InvoicePayload struct {
	ID     string `json:"id"`
	ItemID string `json:"item_id"`
	UserID int64  `json:"user_id"`
}
