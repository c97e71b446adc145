package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CustomerTypeIndividual = "individual"
	CustomerTypeCompany    = "company"
)

type Customer struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	// TenantID leads the composite unique index: phone numbers are unique
	// per tenant, never across tenants.
	TenantID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_tenant_phone,priority:1;not null" json:"tenantId"`

	Name         string `gorm:"not null" json:"name"`
	Email        string `json:"email"`
	Phone        string `gorm:"uniqueIndex:idx_tenant_phone,priority:2;not null" json:"phone"`
	CustomerType string `gorm:"type:varchar(20);default:'individual'" json:"customerType"`
	Notes        string `json:"notes"`
	IsActive     bool   `gorm:"default:true" json:"isActive"`

	Appointments []Appointment `gorm:"foreignKey:CustomerID" json:"-"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
