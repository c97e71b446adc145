// services/reminder_service.go
package services

import (
	"context"
	"strings"
	"time"

	"agendapro-backend/config"
	"agendapro-backend/database"
	"agendapro-backend/models"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

const defaultReminderMessage = "Hi [CustomerName], this is a reminder for your appointment \"[Title]\" at [Time]. See you soon!"

// ReminderService sends next-day appointment reminders over WhatsApp or SMS.
type ReminderService struct {
	db     *gorm.DB
	cfg    *config.Config
	client *twilio.RestClient
	logger zerolog.Logger
}

func NewReminderService(db *gorm.DB, cfg *config.Config, logger zerolog.Logger) *ReminderService {
	return &ReminderService{
		db:  db,
		cfg: cfg,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		}),
		logger: logger,
	}
}

// StartScheduler runs the daily reminder pass at 9 AM.
func (s *ReminderService) StartScheduler() {
	c := cron.New()

	c.AddFunc("0 9 * * *", func() {
		s.SendDailyReminders(context.Background())
	})

	c.Start()
	s.logger.Info().Msg("reminder scheduler started")
}

// SendDailyReminders processes every tenant. Each tenant gets its own
// tenant-scoped unit of work; reminders never read across tenants.
func (s *ReminderService) SendDailyReminders(ctx context.Context) {
	s.logger.Info().Msg("starting daily reminder processing")

	var tenants []models.Tenant
	if err := s.db.WithContext(ctx).Find(&tenants).Error; err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch tenants")
		return
	}

	for _, tenant := range tenants {
		if err := s.ProcessTenantReminders(ctx, tenant.ID); err != nil {
			s.logger.Error().Err(err).Str("tenant_id", tenant.ID.String()).Msg("reminder processing failed")
		}
	}

	s.logger.Info().Msg("daily reminder processing completed")
}

// ProcessTenantReminders sends reminders for the tenant's appointments
// starting within the next 24 hours.
func (s *ReminderService) ProcessTenantReminders(ctx context.Context, tenantID uuid.UUID) error {
	return database.WithTenant(ctx, s.db, tenantID, func(tx *gorm.DB) error {
		now := time.Now().UTC()
		until := now.Add(24 * time.Hour)

		var appointments []models.Appointment
		err := tx.Preload("Customer").
			Where("tenant_id = ? AND status IN ? AND scheduled_at BETWEEN ? AND ?",
				tenantID, []models.AppointmentStatus{models.StatusScheduled, models.StatusConfirmed}, now, until).
			Find(&appointments).Error
		if err != nil {
			return err
		}

		message := defaultReminderMessage
		var template models.ReminderTemplate
		if err := tx.Where("tenant_id = ? AND type = ? AND is_active = true", tenantID, "upcoming_appointment").
			First(&template).Error; err == nil {
			message = template.Message
		}

		for _, appointment := range appointments {
			s.sendReminder(tx, &appointment, message)
		}
		return nil
	})
}

func (s *ReminderService) sendReminder(tx *gorm.DB, appointment *models.Appointment, template string) {
	customer := appointment.Customer

	message := strings.ReplaceAll(template, "[CustomerName]", customer.Name)
	message = strings.ReplaceAll(message, "[Title]", appointment.Title)
	message = strings.ReplaceAll(message, "[Time]", appointment.ScheduledAt.Format("Mon 02 Jan 15:04"))

	// Use WhatsApp for E.164 numbers, SMS otherwise
	channel := "sms"
	to := customer.Phone
	if strings.HasPrefix(customer.Phone, "+") {
		to = "whatsapp:" + customer.Phone
		channel = "whatsapp"
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(message)
	if channel == "whatsapp" {
		params.SetFrom("whatsapp:" + s.cfg.TwilioWhatsAppNumber)
	} else {
		params.SetFrom(s.cfg.TwilioPhoneNumber)
	}

	status := "sent"
	errorMsg := ""
	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		s.logger.Error().Err(err).Str("phone", customer.Phone).Msg("failed to send reminder")
		status = "failed"
		errorMsg = err.Error()
	} else if resp.Sid != nil {
		s.logger.Info().Str("phone", customer.Phone).Str("sid", *resp.Sid).Msg("reminder sent")
	}

	reminderLog := models.ReminderLog{
		TenantID:      appointment.TenantID,
		AppointmentID: appointment.ID,
		CustomerID:    customer.ID,
		Message:       message,
		Status:        status,
		ErrorMessage:  errorMsg,
		Channel:       channel,
		SentAt:        time.Now().UTC(),
	}
	if err := tx.Create(&reminderLog).Error; err != nil {
		s.logger.Error().Err(err).Str("appointment_id", appointment.ID.String()).Msg("failed to log reminder")
	}
}
