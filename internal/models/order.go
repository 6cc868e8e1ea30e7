package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

const (
	ColorModeColor = "color"
	ColorModeBW    = "bw"
)

// Order is one print job. Print and delivery fields are fixed at creation;
// only Status, CompletedAt and UpdatedAt change afterwards.
type Order struct {
	ID            uuid.UUID
	OrderSearchID string
	UserID        *int64
	Username      *string
	Email         string
	Name          *string
	Phone         *string
	IsGuest       bool

	FileName     string
	FileID       string
	Pages        int
	ColorMode    string
	Sides        string
	PaperSize    string
	Orientation  string
	PagesPerSide int
	Copies       int

	Amount float64
	Status OrderStatus

	DeliveryMethod string
	Building       *string
	MailboxNumber  *string
	Notes          *string

	CreatedAt   time.Time
	UpdatedAt   *time.Time
	CompletedAt *time.Time
}

// OwnedBy reports whether the order belongs to the given account.
func (o *Order) OwnedBy(userID int64) bool {
	return o.UserID != nil && *o.UserID == userID
}
