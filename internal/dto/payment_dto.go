package dto

import "github.com/google/uuid"

type CheckoutResponse struct {
	InvoiceId   uuid.UUID `json:"invoice_id"`
	SnapToken   string    `json:"snap_token"`
	RedirectURL string    `json:"snap_redirect_url"`
}

type MidtransWebhookRequest struct {
	TransactionStatus string `json:"transaction_status"`
	OrderId           string `json:"order_id"`
	FraudStatus       string `json:"fraud_status"`
	// Signature validation fields
	SignatureKey string `json:"signature_key"`
	StatusCode   string `json:"status_code"`
	GrossAmount  string `json:"gross_amount"`
}

type WebhookResult struct {
	EventType string `json:"event_type"`
	Handled   bool   `json:"handled"`
}
