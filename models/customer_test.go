package models

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

// uniqueIndexColumns returns the ordered columns of the named unique index as
// gorm will migrate it.
func uniqueIndexColumns(t *testing.T, model interface{}, name string) []string {
	t.Helper()

	s, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	for _, idx := range s.ParseIndexes() {
		if idx.Name != name {
			continue
		}
		require.Equal(t, "UNIQUE", idx.Class)
		columns := make([]string, 0, len(idx.Fields))
		for _, field := range idx.Fields {
			columns = append(columns, field.DBName)
		}
		return columns
	}
	t.Fatalf("index %s not defined on %T", name, model)
	return nil
}

func TestCustomerPhoneUniquePerTenant(t *testing.T) {
	// The unique index must lead with tenant_id: the same phone number under
	// two tenants is legitimate, and a global index would leak cross-tenant
	// existence through unique violations.
	columns := uniqueIndexColumns(t, &Customer{}, "idx_tenant_phone")
	assert.Equal(t, []string{"tenant_id", "phone"}, columns)
}
