// services/lead_service.go
package services

import (
	"context"
	"errors"
	"time"

	"agendapro-backend/database"
	"agendapro-backend/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// LeadService captures pre-customer contacts from inbound messages and
// converts them once a real customer record exists for the same phone.
type LeadService struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewLeadService(db *gorm.DB, logger zerolog.Logger) *LeadService {
	return &LeadService{db: db, logger: logger}
}

// RegisterIfNew creates a Lead for an unknown phone number. A phone already
// known as a lead for the tenant is left untouched; the existing record is
// returned either way. The bool reports whether a new lead was created.
func (s *LeadService) RegisterIfNew(ctx context.Context, tenantID uuid.UUID, phoneNumber, name string) (*models.Lead, bool, error) {
	if phoneNumber == "" {
		return nil, false, models.NewValidationError("phoneNumber", "is required")
	}

	var lead models.Lead
	created := false
	err := database.WithTenant(ctx, s.db, tenantID, func(tx *gorm.DB) error {
		err := tx.Where("tenant_id = ? AND phone_number = ?", tenantID, phoneNumber).First(&lead).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		lead = models.Lead{
			TenantID:    tenantID,
			PhoneNumber: phoneNumber,
			Name:        name,
			Status:      models.LeadNew,
			Source:      models.LeadSourceWhatsApp,
		}
		if createErr := tx.Create(&lead).Error; createErr != nil {
			// A concurrent capture won the unique index race; use its row.
			if errors.Is(createErr, gorm.ErrDuplicatedKey) {
				return tx.Where("tenant_id = ? AND phone_number = ?", tenantID, phoneNumber).First(&lead).Error
			}
			return createErr
		}
		created = true

		s.logger.Info().
			Str("tenant_id", tenantID.String()).
			Str("phone", phoneNumber).
			Msg("lead captured")
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &lead, created, nil
}

// ConvertByPhone marks the lead matching the phone as converted and links
// the customer. A phone with no lead is a no-op: customers do not have to
// originate from the messaging channel.
func (s *LeadService) ConvertByPhone(ctx context.Context, tenantID uuid.UUID, phoneNumber string, customerID uuid.UUID) error {
	return database.WithTenant(ctx, s.db, tenantID, func(tx *gorm.DB) error {
		now := time.Now().UTC()
		return tx.Model(&models.Lead{}).
			Where("tenant_id = ? AND phone_number = ? AND status <> ?", tenantID, phoneNumber, models.LeadConverted).
			Updates(map[string]interface{}{
				"status":       models.LeadConverted,
				"customer_id":  customerID,
				"converted_at": now,
				"updated_at":   now,
			}).Error
	})
}

// ListLeads returns the tenant's leads, newest first.
func (s *LeadService) ListLeads(ctx context.Context, tenantID uuid.UUID) ([]models.Lead, error) {
	var leads []models.Lead
	err := database.WithTenant(ctx, s.db, tenantID, func(tx *gorm.DB) error {
		return tx.Where("tenant_id = ?", tenantID).Order("created_at DESC").Find(&leads).Error
	})
	return leads, err
}
