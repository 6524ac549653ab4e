package notify

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Channel string

const (
	ChannelWebhook Channel = "webhook"
	ChannelInApp   Channel = "in_app"
)

type DeliveryStatus string

const (
	DeliveryPending DeliveryStatus = "pending"
	DeliverySent    DeliveryStatus = "sent"
	DeliveryFailed  DeliveryStatus = "failed"
)

type Notification struct {
	ID      uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  *uuid.UUID `gorm:"type:uuid;index;column:user_id" json:"user_id,omitempty"`
	Channel Channel    `gorm:"not null;column:channel" json:"channel"`
	Event   string     `gorm:"not null;column:event" json:"event"`

	Title   string         `gorm:"column:title" json:"title"`
	Body    string         `gorm:"column:body" json:"body"`
	Payload datatypes.JSON `gorm:"column:payload" json:"payload,omitempty"`

	Status DeliveryStatus `gorm:"not null;default:'pending';column:status" json:"status"`
	SentAt *time.Time     `gorm:"column:sent_at" json:"sent_at,omitempty"`
	ReadAt *time.Time     `gorm:"column:read_at" json:"read_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Notification) TableName() string { return "notification" }
