package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusFromError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", ErrNotFound), http.StatusNotFound},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrBadRequest, http.StatusBadRequest},
		{ErrValidation, http.StatusBadRequest},
		{fmt.Errorf("task is required: %w", ErrValidation), http.StatusBadRequest},
		{ErrConflict, http.StatusConflict},
		{errors.New("something else"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatusFromError(tt.err), "error: %v", tt.err)
	}
}

func TestIsDuplicateKeyPostgres(t *testing.T) {
	uniqueViolation := &pgconn.PgError{Code: "23505"}
	assert.True(t, IsDuplicateKey(uniqueViolation))
	assert.True(t, IsDuplicateKey(fmt.Errorf("insert: %w", uniqueViolation)))

	notNullViolation := &pgconn.PgError{Code: "23502"}
	assert.False(t, IsDuplicateKey(notNullViolation))
	assert.False(t, IsDuplicateKey(errors.New("plain error")))
	assert.False(t, IsDuplicateKey(nil))
}
