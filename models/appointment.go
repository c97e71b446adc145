package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentStatus is the lifecycle state of an appointment. Scheduled is
// the initial state; Completed, Cancelled, and NoShow are terminal.
type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "scheduled"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
	StatusNoShow     AppointmentStatus = "no_show"
)

// Terminal reports whether no further status transition is allowed.
func (s AppointmentStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

const (
	// MaxDurationMinutes caps a single appointment at 8 hours.
	MaxDurationMinutes = 480

	// PastScheduleTolerance absorbs clock skew between callers and the
	// server when validating the scheduled time.
	PastScheduleTolerance = 5 * time.Minute
)

type Appointment struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID   uuid.UUID `gorm:"type:uuid;index;not null" json:"tenantId"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null" json:"customerId"`
	ResourceID uuid.UUID `gorm:"type:uuid;index;not null" json:"resourceId"`

	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	Notes       string `json:"notes"`

	ScheduledAt     time.Time `gorm:"index;not null" json:"scheduledAt"`
	EndsAt          time.Time `gorm:"not null" json:"endsAt"`
	DurationMinutes int       `gorm:"not null" json:"durationMinutes"`

	Status          AppointmentStatus `gorm:"type:varchar(20);default:'scheduled'" json:"status"`
	AppointmentType string            `gorm:"default:'consultation'" json:"appointmentType"`

	CancellationReason string     `json:"cancellationReason,omitempty"`
	CompletedAt        *time.Time `json:"completedAt,omitempty"`

	Customer Customer `gorm:"foreignKey:CustomerID" json:"-"`
	Resource Resource `gorm:"foreignKey:ResourceID" json:"-"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// NewAppointment validates and builds an appointment in the Scheduled state.
// EndsAt is derived from the scheduled time and duration; a scheduled time
// more than five minutes in the past is rejected.
func NewAppointment(tenantID, customerID, resourceID uuid.UUID, title string, scheduledAt time.Time, durationMinutes int, appointmentType string) (*Appointment, error) {
	if tenantID == uuid.Nil {
		return nil, NewValidationError("tenantId", "is required")
	}
	if customerID == uuid.Nil {
		return nil, NewValidationError("customerId", "is required")
	}
	if resourceID == uuid.Nil {
		return nil, NewValidationError("resourceId", "is required")
	}
	if strings.TrimSpace(title) == "" {
		return nil, NewValidationError("title", "is required")
	}
	if durationMinutes <= 0 {
		return nil, NewValidationError("durationMinutes", "must be positive")
	}
	if durationMinutes > MaxDurationMinutes {
		return nil, NewValidationError("durationMinutes", "must not exceed 480")
	}
	if scheduledAt.Before(time.Now().UTC().Add(-PastScheduleTolerance)) {
		return nil, NewValidationError("scheduledAt", "cannot schedule in the past")
	}
	if appointmentType == "" {
		appointmentType = "consultation"
	}

	now := time.Now().UTC()
	return &Appointment{
		ID:              uuid.New(),
		TenantID:        tenantID,
		CustomerID:      customerID,
		ResourceID:      resourceID,
		Title:           title,
		ScheduledAt:     scheduledAt,
		EndsAt:          scheduledAt.Add(time.Duration(durationMinutes) * time.Minute),
		DurationMinutes: durationMinutes,
		Status:          StatusScheduled,
		AppointmentType: appointmentType,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Confirm moves a scheduled appointment to Confirmed.
func (a *Appointment) Confirm() error {
	if a.Status != StatusScheduled {
		return &IllegalTransitionError{Current: a.Status, Operation: "confirm"}
	}
	a.Status = StatusConfirmed
	a.markUpdated()
	return nil
}

// Start moves a scheduled or confirmed appointment to InProgress.
func (a *Appointment) Start() error {
	if a.Status != StatusScheduled && a.Status != StatusConfirmed {
		return &IllegalTransitionError{Current: a.Status, Operation: "start"}
	}
	a.Status = StatusInProgress
	a.markUpdated()
	return nil
}

// Complete finishes any non-terminal appointment and records the completion
// time.
func (a *Appointment) Complete() error {
	if a.Status.Terminal() {
		return &IllegalTransitionError{Current: a.Status, Operation: "complete"}
	}
	now := time.Now().UTC()
	a.Status = StatusCompleted
	a.CompletedAt = &now
	a.markUpdated()
	return nil
}

// Cancel aborts any non-terminal appointment, keeping the reason.
func (a *Appointment) Cancel(reason string) error {
	if a.Status.Terminal() {
		return &IllegalTransitionError{Current: a.Status, Operation: "cancel"}
	}
	a.Status = StatusCancelled
	a.CancellationReason = reason
	a.markUpdated()
	return nil
}

// MarkNoShow records that the customer did not show up. Only scheduled or
// confirmed appointments can be marked.
func (a *Appointment) MarkNoShow() error {
	if a.Status != StatusScheduled && a.Status != StatusConfirmed {
		return &IllegalTransitionError{Current: a.Status, Operation: "no-show"}
	}
	a.Status = StatusNoShow
	a.markUpdated()
	return nil
}

// Reschedule moves a non-terminal appointment to a new time, optionally with
// a new duration, and recomputes EndsAt.
func (a *Appointment) Reschedule(newScheduledAt time.Time, newDurationMinutes *int) error {
	if a.Status.Terminal() {
		return &IllegalTransitionError{Current: a.Status, Operation: "reschedule"}
	}
	if newDurationMinutes != nil {
		if *newDurationMinutes <= 0 {
			return NewValidationError("durationMinutes", "must be positive")
		}
		if *newDurationMinutes > MaxDurationMinutes {
			return NewValidationError("durationMinutes", "must not exceed 480")
		}
		a.DurationMinutes = *newDurationMinutes
	}
	a.ScheduledAt = newScheduledAt
	a.EndsAt = a.ScheduledAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
	a.markUpdated()
	return nil
}

// UpdateDetails changes title and description without touching the status.
// Allowed in every state, terminal ones included.
func (a *Appointment) UpdateDetails(title, description string) error {
	if strings.TrimSpace(title) == "" {
		return NewValidationError("title", "is required")
	}
	a.Title = title
	a.Description = description
	a.markUpdated()
	return nil
}

// SetDescription replaces the description without touching title or status.
func (a *Appointment) SetDescription(description string) {
	a.Description = description
	a.markUpdated()
}

// SetNotes replaces the free-form notes.
func (a *Appointment) SetNotes(notes string) {
	a.Notes = notes
	a.markUpdated()
}

func (a *Appointment) markUpdated() {
	a.UpdatedAt = time.Now().UTC()
}
