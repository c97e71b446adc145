package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNoTenant is returned when a tenant-scoped unit of work is attempted
// without a tenant id.
var ErrNoTenant = fmt.Errorf("tenant id required for tenant-scoped query")

// WithTenant runs fn inside a single transaction with the row-level-security
// tenant context applied. SET LOCAL is transaction-scoped, so the setting
// cannot leak onto the pooled connection once the transaction ends; gorm
// rolls the transaction back when fn returns an error or the context is
// cancelled.
//
// All tenant-scoped reads and writes must go through here. A query issued on
// the bare *gorm.DB bypasses the tenant context and is a defect.
func WithTenant(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, fn func(tx *gorm.DB) error) error {
	if tenantID == uuid.Nil {
		return ErrNoTenant
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// SET LOCAL does not accept bind parameters. The tenant id is a
		// parsed uuid.UUID, so interpolating its canonical form is safe.
		if err := tx.Exec(fmt.Sprintf("SET LOCAL app.tenant_id = '%s'", tenantID)).Error; err != nil {
			return err
		}
		return fn(tx)
	})
}
