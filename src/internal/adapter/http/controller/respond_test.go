package controller

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/api-sage/accounts-ledger/src/internal/domain"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: domain.Validation("amount is required"), want: http.StatusBadRequest},
		{err: domain.ErrDuplicateProductType, want: http.StatusUnprocessableEntity},
		{err: domain.ErrAccountNotFound, want: http.StatusNotFound},
		{err: domain.ErrOutsideOperatingWindow, want: http.StatusUnprocessableEntity},
		{err: domain.ErrMonthlyLimitExceeded, want: http.StatusTooManyRequests},
		{err: fmt.Errorf("withdraw: %w", domain.ErrInsufficientFunds), want: http.StatusUnprocessableEntity},
		{err: domain.ErrConcurrentUpdate, want: http.StatusConflict},
		{err: domain.Unavailable(errors.New("dial tcp")), want: http.StatusServiceUnavailable},
		{err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusForError(tt.err))
		})
	}
}
