package models

import "time"

// Notification is a message addressed to a user. Nothing delivers these yet.
type Notification struct {
	ID        string           `json:"id" firestore:"id"`
	UserID    string           `json:"userId" firestore:"userId" validate:"required"`
	Type      NotificationType `json:"type" firestore:"type" validate:"required,notificationtype"`
	Title     string           `json:"title" firestore:"title" validate:"required"`
	Message   string           `json:"message" firestore:"message" validate:"required"`
	ClubID    *string          `json:"clubId,omitempty" firestore:"clubId,omitempty"`
	ActionURL *string          `json:"actionUrl,omitempty" firestore:"actionUrl,omitempty"`
	Read      bool             `json:"read" firestore:"read"`
	CreatedAt time.Time        `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}

// Transaction is a payment-gateway settlement record, reserved for a future
// gateway integration.
type Transaction struct {
	ID                   string            `json:"id" firestore:"id"`
	UserID               string            `json:"userId" firestore:"userId" validate:"required"`
	ClubID               string            `json:"clubId" firestore:"clubId" validate:"required"`
	PaymentID            string            `json:"paymentId" firestore:"paymentId" validate:"required"`
	Amount               int64             `json:"amount" firestore:"amount" validate:"gt=0"`
	Currency             string            `json:"currency" firestore:"currency" validate:"required,len=3"`
	Gateway              string            `json:"gateway" firestore:"gateway" validate:"required"`
	GatewayTransactionID string            `json:"gatewayTransactionId" firestore:"gatewayTransactionId"`
	Status               TransactionStatus `json:"status" firestore:"status" validate:"required,transactionstatus"`
	Metadata             map[string]any    `json:"metadata" firestore:"metadata"`
	CreatedAt            time.Time         `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	CompletedAt          *time.Time        `json:"completedAt,omitempty" firestore:"completedAt,omitempty"`
}
