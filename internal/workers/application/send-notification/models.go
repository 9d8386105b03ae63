// internal/workers/application/send-notification/models.go
package sendnotification

import "carecase-workers/internal/models"

type Input struct {
	Domain        models.DomainID `json:"domain"`
	ApplicationID string          `json:"applicationId"`
	Email         string          `json:"email,omitempty"`
	Phone         string          `json:"phone,omitempty"`
}

type Output struct {
	NotificationID string   `json:"notificationId"`
	Status         string   `json:"status"` // "sent", "failed", "disabled"
	Channels       []string `json:"channels"`
	CurrentStep    string   `json:"currentStep,omitempty"`
	SentAt         string   `json:"sentAt"` // ISO 8601
}

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

// Channels
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)
