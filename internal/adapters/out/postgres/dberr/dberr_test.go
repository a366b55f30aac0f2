package dberr_test

import (
	"errors"
	"fmt"
	"testing"

	"multistop/internal/adapters/out/postgres/dberr"
	"multistop/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	plain := errors.New("connection reset")

	tests := []struct {
		name     string
		err      error
		conflict bool
	}{
		{"duplicated key", fmt.Errorf("insert stop: %w", gorm.ErrDuplicatedKey), true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"lock not available", &pgconn.PgError{Code: "55P03"}, true},
		{"foreign key", &pgconn.PgError{Code: "23503"}, false},
		{"plain", plain, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := dberr.Translate("stop", tt.err)

			assert.Equal(t, tt.conflict, errors.Is(err, errs.ErrConcurrencyConflict))
			if !tt.conflict {
				assert.Same(t, tt.err, err)
			}
		})
	}

	assert.NoError(t, dberr.Translate("stop", nil))
}
