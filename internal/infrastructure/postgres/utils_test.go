package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPgErrorCodes(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	fk := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"})

	assert.True(t, isUniqueViolation(unique))
	assert.False(t, isUniqueViolation(fk))
	assert.True(t, isForeignKeyViolation(fk))
	assert.False(t, isForeignKeyViolation(errors.New("23503")))
}

func TestDateHelpers(t *testing.T) {
	assert.Nil(t, dateOrNil(nil))

	ts := time.Date(2026, 2, 10, 23, 30, 0, 0, time.UTC)
	d := dateOrNil(&ts)
	if assert.NotNil(t, d) {
		assert.Equal(t, time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), *d)
	}
	assert.Nil(t, nullIfEmpty(""))
	assert.Equal(t, "x", derefStr(nullIfEmpty("x")))
	assert.Equal(t, "", derefStr(nil))
}
