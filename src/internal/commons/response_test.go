package commons

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/api-sage/accounts-ledger/src/internal/domain"
)

func TestFailureResponseExposesDomainReason(t *testing.T) {
	err := fmt.Errorf("withdraw: %w", domain.ErrInsufficientFunds)

	resp := FailureResponse[string]("failed to withdraw", err)

	assert.False(t, resp.Success)
	assert.Equal(t, "INSUFFICIENT_FUNDS", resp.Code)
	assert.Equal(t, string(domain.KindInsufficientFunds), resp.Kind)
	assert.Equal(t, []string{"Insufficient funds"}, resp.Errors)
}

func TestFailureResponseHidesInternalErrors(t *testing.T) {
	resp := FailureResponse[string]("failed to withdraw", errors.New("pq: connection refused"))

	assert.Equal(t, "COLLABORATOR_UNAVAILABLE", resp.Code)
	assert.Equal(t, []string{"Service temporarily unavailable"}, resp.Errors)
}
