package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResourceType classifies what can be booked: a professional, a room, or a
// piece of equipment.
type ResourceType string

const (
	ResourceProfessional ResourceType = "professional"
	ResourceRoom         ResourceType = "room"
	ResourceEquipment    ResourceType = "equipment"
)

// Valid reports whether t is one of the known resource types.
func (t ResourceType) Valid() bool {
	switch t {
	case ResourceProfessional, ResourceRoom, ResourceEquipment:
		return true
	}
	return false
}

type Resource struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;index;not null" json:"tenantId"`

	Name        string       `gorm:"not null" json:"name"`
	Description string       `json:"description"`
	Type        ResourceType `gorm:"type:varchar(20);not null" json:"type"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone"`
	Color       string       `gorm:"default:'#3B82F6'" json:"color"` // calendar display color (hex)
	IsActive    bool         `gorm:"default:true" json:"isActive"`

	Appointments []Appointment `gorm:"foreignKey:ResourceID" json:"-"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *Resource) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
