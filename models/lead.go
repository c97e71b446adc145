package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeadStatus tracks a prospective customer captured from an inbound message.
type LeadStatus string

const (
	LeadNew        LeadStatus = "new"
	LeadInProgress LeadStatus = "in_progress"
	LeadConverted  LeadStatus = "converted"
	LeadLost       LeadStatus = "lost"
)

// LeadSource records where the lead came from.
type LeadSource string

const (
	LeadSourceWhatsApp LeadSource = "whatsapp"
	LeadSourceManual   LeadSource = "manual"
	LeadSourceImport   LeadSource = "import"
)

// Lead is a pre-customer contact. It is created on the first inbound message
// from an unknown phone number and converted when a customer is created with
// the same phone under the same tenant.
type Lead struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_tenant_lead_phone,priority:1;not null" json:"tenantId"`

	// One lead per phone number per tenant; concurrent captures collapse
	// onto the existing row.
	PhoneNumber string `gorm:"uniqueIndex:idx_tenant_lead_phone,priority:2;not null" json:"phoneNumber"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Notes       string `json:"notes"`

	Status LeadStatus `gorm:"type:varchar(20);default:'new'" json:"status"`
	Source LeadSource `gorm:"type:varchar(20);default:'whatsapp'" json:"source"`

	CustomerID  *uuid.UUID `gorm:"type:uuid" json:"customerId"` // nil until converted
	ConvertedAt *time.Time `json:"convertedAt"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (l *Lead) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}

// Convert links the lead to the customer created from its phone number.
func (l *Lead) Convert(customerID uuid.UUID) {
	now := time.Now().UTC()
	l.Status = LeadConverted
	l.CustomerID = &customerID
	l.ConvertedAt = &now
	l.UpdatedAt = now
}
