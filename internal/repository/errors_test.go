package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	other := errors.New("boom")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"not found", gorm.ErrRecordNotFound, ErrNotFound},
		{"wrapped not found", fmt.Errorf("find: %w", gorm.ErrRecordNotFound), ErrNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, ErrDuplicate},
		{"fk violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"}), ErrReferenced},
		{"other pg error", &pgconn.PgError{Code: "42P01"}, nil},
		{"unrelated", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate(tt.in)
			if tt.name == "other pg error" {
				var pgErr *pgconn.PgError
				assert.True(t, errors.As(got, &pgErr))
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPageBounds(t *testing.T) {
	p, l := pageBounds(0, 0, 100)
	assert.Equal(t, 1, p)
	assert.Equal(t, 20, l)

	p, l = pageBounds(3, 500, 100)
	assert.Equal(t, 3, p)
	assert.Equal(t, 20, l)

	p, l = pageBounds(2, 50, 100)
	assert.Equal(t, 2, p)
	assert.Equal(t, 50, l)
}
