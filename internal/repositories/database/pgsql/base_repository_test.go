package pgsql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: invoiceCardMonthKey}
	wrapped := fmt.Errorf("insert failed: %w", dup)

	assert.True(t, isUniqueViolation(dup, ""))
	assert.True(t, isUniqueViolation(wrapped, invoiceCardMonthKey))
	assert.False(t, isUniqueViolation(wrapped, "invoices_pkey"))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}, ""))
	assert.False(t, isUniqueViolation(errors.New("boom"), ""))
}
