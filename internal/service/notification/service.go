package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/email"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/model"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/pkg/messaging"
)

const (
	sendTimeout = 10 * time.Second

	channelSMS      = "notifications.sms"
	channelWhatsApp = "notifications.whatsapp"
)

// Service fans booking confirmations out to the customer. Everything
// here is fire-and-forget: the booking flow never waits on delivery
// and a gateway failure only produces a log line.
type Service struct {
	emailSvc email.Service
	broker   messaging.Broker
	logger   zerolog.Logger
}

func NewService(emailSvc email.Service, broker messaging.Broker, logger zerolog.Logger) *Service {
	return &Service{
		emailSvc: emailSvc,
		broker:   broker,
		logger:   logger,
	}
}

// NotifyAppointmentCreated sends the confirmation message in the
// background. SMS and WhatsApp payloads go to the broker for the
// external gateway; delivery is the gateway's problem.
func (s *Service) NotifyAppointmentCreated(apt *model.Appointment) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		body := fmt.Sprintf("Dear %s, your %s appointment on %s at %s has been received.",
			apt.CustomerName, apt.ServiceName, apt.Date, apt.Time)

		if apt.CustomerPhone != "" {
			n := &model.Notification{
				TenantID:  apt.TenantID,
				Channel:   model.NotificationChannelWhatsApp,
				Recipient: apt.CustomerPhone,
				Body:      body,
			}
			if err := s.broker.Publish(ctx, channelWhatsApp, n); err != nil {
				s.logger.Warn().
					Err(err).
					Str("appointment_id", apt.ID.String()).
					Msg("failed to queue whatsapp confirmation")
			}

			n.Channel = model.NotificationChannelSMS
			if err := s.broker.Publish(ctx, channelSMS, n); err != nil {
				s.logger.Warn().
					Err(err).
					Str("appointment_id", apt.ID.String()).
					Msg("failed to queue sms confirmation")
			}
		}
	}()
}

// SendEmail delivers a message in-process through the SMTP dialer.
func (s *Service) SendEmail(to, subject, body string) {
	go func() {
		if err := s.emailSvc.Send(to, subject, body); err != nil {
			s.logger.Warn().
				Err(err).
				Str("recipient", to).
				Msg("failed to send email")
		}
	}()
}
