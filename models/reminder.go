package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReminderTemplate is the per-tenant message sent ahead of an appointment.
// Placeholders [CustomerName], [Title] and [Time] are substituted at send
// time.
type ReminderTemplate struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;index;not null" json:"tenantId"`
	Type     string    `gorm:"type:varchar(20);not null" json:"type"` // upcoming_appointment
	Message  string    `gorm:"type:text;not null" json:"message"`
	IsActive bool      `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (t *ReminderTemplate) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}

type ReminderLog struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID      uuid.UUID `gorm:"type:uuid;index;not null" json:"tenantId"`
	AppointmentID uuid.UUID `gorm:"type:uuid;index;not null" json:"appointmentId"`
	CustomerID    uuid.UUID `gorm:"type:uuid;index;not null" json:"customerId"`

	Message      string    `gorm:"type:text" json:"message"`
	Status       string    `gorm:"type:varchar(20)" json:"status"`  // sent, failed
	Channel      string    `gorm:"type:varchar(20)" json:"channel"` // whatsapp, sms
	ErrorMessage string    `gorm:"type:text" json:"errorMessage"`
	SentAt       time.Time `json:"sentAt"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *ReminderLog) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
