package models

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAppointment(t *testing.T) *Appointment {
	t.Helper()
	a, err := NewAppointment(
		uuid.New(), uuid.New(), uuid.New(),
		"Consultation", time.Now().Add(24*time.Hour), 60, "consultation",
	)
	require.NoError(t, err)
	return a
}

func TestNewAppointmentDerivesEndsAt(t *testing.T) {
	scheduledAt := time.Now().Add(48 * time.Hour).Truncate(time.Minute)
	a, err := NewAppointment(uuid.New(), uuid.New(), uuid.New(), "Haircut", scheduledAt, 90, "")
	require.NoError(t, err)

	assert.Equal(t, scheduledAt.Add(90*time.Minute), a.EndsAt)
	assert.Equal(t, 90, a.DurationMinutes)
	assert.Equal(t, StatusScheduled, a.Status)
	assert.Equal(t, "consultation", a.AppointmentType) // default type
}

func TestNewAppointmentValidation(t *testing.T) {
	tenantID, customerID, resourceID := uuid.New(), uuid.New(), uuid.New()
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name        string
		tenantID    uuid.UUID
		customerID  uuid.UUID
		resourceID  uuid.UUID
		title       string
		scheduledAt time.Time
		duration    int
		field       string
	}{
		{"missing tenant", uuid.Nil, customerID, resourceID, "X", future, 60, "tenantId"},
		{"missing customer", tenantID, uuid.Nil, resourceID, "X", future, 60, "customerId"},
		{"missing resource", tenantID, customerID, uuid.Nil, "X", future, 60, "resourceId"},
		{"blank title", tenantID, customerID, resourceID, "   ", future, 60, "title"},
		{"zero duration", tenantID, customerID, resourceID, "X", future, 0, "durationMinutes"},
		{"negative duration", tenantID, customerID, resourceID, "X", future, -30, "durationMinutes"},
		{"duration over cap", tenantID, customerID, resourceID, "X", future, 481, "durationMinutes"},
		{"too far in the past", tenantID, customerID, resourceID, "X", time.Now().Add(-time.Hour), 60, "scheduledAt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAppointment(tt.tenantID, tt.customerID, tt.resourceID, tt.title, tt.scheduledAt, tt.duration, "")
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}

func TestNewAppointmentPastTolerance(t *testing.T) {
	// A couple of minutes in the past is within clock-skew tolerance.
	_, err := NewAppointment(uuid.New(), uuid.New(), uuid.New(), "X", time.Now().Add(-2*time.Minute), 30, "")
	assert.NoError(t, err)

	_, err = NewAppointment(uuid.New(), uuid.New(), uuid.New(), "X", time.Now().Add(-6*time.Minute), 30, "")
	assert.Error(t, err)
}

func TestNewAppointmentMaxDurationAccepted(t *testing.T) {
	a, err := NewAppointment(uuid.New(), uuid.New(), uuid.New(), "Full day", time.Now().Add(time.Hour), MaxDurationMinutes, "")
	require.NoError(t, err)
	assert.Equal(t, MaxDurationMinutes, a.DurationMinutes)
}

func TestConfirmOnlyFromScheduled(t *testing.T) {
	a := validAppointment(t)
	require.NoError(t, a.Confirm())
	assert.Equal(t, StatusConfirmed, a.Status)

	err := a.Confirm()
	var transitionErr *IllegalTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, StatusConfirmed, transitionErr.Current)
	assert.Equal(t, "confirm", transitionErr.Operation)
}

func TestStartFromScheduledAndConfirmed(t *testing.T) {
	a := validAppointment(t)
	require.NoError(t, a.Start())
	assert.Equal(t, StatusInProgress, a.Status)

	b := validAppointment(t)
	require.NoError(t, b.Confirm())
	require.NoError(t, b.Start())
	assert.Equal(t, StatusInProgress, b.Status)

	assert.Error(t, b.Start())
}

func TestCompleteSetsCompletedAt(t *testing.T) {
	a := validAppointment(t)
	require.NoError(t, a.Confirm())
	require.NoError(t, a.Start())
	require.NoError(t, a.Complete())

	assert.Equal(t, StatusCompleted, a.Status)
	require.NotNil(t, a.CompletedAt)
	assert.WithinDuration(t, time.Now().UTC(), *a.CompletedAt, 5*time.Second)
}

func TestCancelKeepsReason(t *testing.T) {
	a := validAppointment(t)
	require.NoError(t, a.Cancel("customer asked to"))
	assert.Equal(t, StatusCancelled, a.Status)
	assert.Equal(t, "customer asked to", a.CancellationReason)
}

func TestNoShowOnlyBeforeStart(t *testing.T) {
	a := validAppointment(t)
	require.NoError(t, a.MarkNoShow())
	assert.Equal(t, StatusNoShow, a.Status)

	b := validAppointment(t)
	require.NoError(t, b.Start())
	assert.Error(t, b.MarkNoShow())
}

func TestTerminalStatesRejectTransitions(t *testing.T) {
	terminal := func(t *testing.T, status AppointmentStatus) *Appointment {
		a := validAppointment(t)
		a.Status = status
		return a
	}

	for _, status := range []AppointmentStatus{StatusCompleted, StatusCancelled, StatusNoShow} {
		t.Run(string(status), func(t *testing.T) {
			a := terminal(t, status)
			assert.Error(t, a.Confirm())
			assert.Error(t, a.Start())
			assert.Error(t, a.Complete())
			assert.Error(t, a.Cancel("x"))
			assert.Error(t, a.MarkNoShow())
			assert.Error(t, a.Reschedule(time.Now().Add(time.Hour), nil))
			assert.Equal(t, status, a.Status)
		})
	}
}

func TestTerminalPredicate(t *testing.T) {
	assert.False(t, StatusScheduled.Terminal())
	assert.False(t, StatusConfirmed.Terminal())
	assert.False(t, StatusInProgress.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.True(t, StatusNoShow.Terminal())
}

func TestRescheduleRecomputesEndsAt(t *testing.T) {
	a := validAppointment(t)
	newTime := time.Now().Add(72 * time.Hour).Truncate(time.Minute)

	require.NoError(t, a.Reschedule(newTime, nil))
	assert.Equal(t, newTime, a.ScheduledAt)
	assert.Equal(t, newTime.Add(60*time.Minute), a.EndsAt) // duration unchanged

	newDuration := 120
	require.NoError(t, a.Reschedule(newTime, &newDuration))
	assert.Equal(t, 120, a.DurationMinutes)
	assert.Equal(t, newTime.Add(120*time.Minute), a.EndsAt)
}

func TestRescheduleValidatesDuration(t *testing.T) {
	a := validAppointment(t)
	bad := 481
	err := a.Reschedule(time.Now().Add(time.Hour), &bad)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "durationMinutes", validationErr.Field)
}

func TestUpdateDetailsAllowedInTerminalState(t *testing.T) {
	a := validAppointment(t)
	require.NoError(t, a.Cancel("moved away"))

	require.NoError(t, a.UpdateDetails("New title", "post-cancel note"))
	assert.Equal(t, "New title", a.Title)
	assert.Equal(t, "post-cancel note", a.Description)
	assert.Equal(t, StatusCancelled, a.Status)
}

func TestUpdateDetailsRequiresTitle(t *testing.T) {
	a := validAppointment(t)
	err := a.UpdateDetails("  ", "desc")
	var validationErr *ValidationError
	assert.True(t, errors.As(err, &validationErr))
}
