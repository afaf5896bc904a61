package model

import (
	"github.com/google/uuid"
)

type NotificationChannel string

const (
	NotificationChannelEmail    NotificationChannel = "email"
	NotificationChannelSMS      NotificationChannel = "sms"
	NotificationChannelWhatsApp NotificationChannel = "whatsapp"
)

// Notification is a fire-and-forget message to a customer. Email is
// delivered in-process; SMS and WhatsApp payloads go to the broker for
// the external gateway to pick up.
type Notification struct {
	TenantID  uuid.UUID           `json:"tenant_id"`
	Channel   NotificationChannel `json:"channel"`
	Recipient string              `json:"recipient"`
	Subject   string              `json:"subject,omitempty"`
	Body      string              `json:"body"`
}
