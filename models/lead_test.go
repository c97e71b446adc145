package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadPhoneUniquePerTenant(t *testing.T) {
	columns := uniqueIndexColumns(t, &Lead{}, "idx_tenant_lead_phone")
	assert.Equal(t, []string{"tenant_id", "phone_number"}, columns)
}

func TestLeadConvert(t *testing.T) {
	lead := Lead{
		ID:          uuid.New(),
		TenantID:    uuid.New(),
		PhoneNumber: "+5511987654321",
		Status:      LeadNew,
		Source:      LeadSourceWhatsApp,
	}

	customerID := uuid.New()
	lead.Convert(customerID)

	assert.Equal(t, LeadConverted, lead.Status)
	require.NotNil(t, lead.CustomerID)
	assert.Equal(t, customerID, *lead.CustomerID)
	require.NotNil(t, lead.ConvertedAt)
	assert.WithinDuration(t, time.Now().UTC(), *lead.ConvertedAt, 5*time.Second)
}
