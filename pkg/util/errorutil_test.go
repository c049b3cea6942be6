package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassesThrough(t *testing.T) {
	err := NewConflict("already settled", nil)

	mapped := ToDomainError(err)
	require.NotNil(t, mapped)
	assert.Equal(t, "CONFLICT", mapped.Code)
	assert.Equal(t, http.StatusConflict, mapped.HTTPStatus)
}

func TestToDomainErrorMapsNoRows(t *testing.T) {
	mapped := ToDomainError(fmt.Errorf("lookup: %w", pgx.ErrNoRows))
	require.NotNil(t, mapped)
	assert.Equal(t, "NOT_FOUND", mapped.Code)
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	mapped := ToDomainError(errors.New("boom"))
	require.NotNil(t, mapped)
	assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
	assert.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewPaymentUnavailable(errors.New("down")))

	assert.True(t, IsCode(err, "PAYMENT_GATEWAY_UNAVAILABLE"))
	assert.False(t, IsCode(err, "PAYMENT_GATEWAY_REJECTED"))
	assert.False(t, IsCode(nil, "PAYMENT_GATEWAY_UNAVAILABLE"))
}

func TestGatewayErrorSplit(t *testing.T) {
	rejected := ToDomainError(NewPaymentRejected("refused", map[string]any{"status": 422}))
	unavailable := ToDomainError(NewPaymentUnavailable(errors.New("timeout")))

	assert.Equal(t, "PAYMENT_GATEWAY_REJECTED", rejected.Code)
	assert.Equal(t, "PAYMENT_GATEWAY_UNAVAILABLE", unavailable.Code)
	assert.Equal(t, http.StatusBadGateway, rejected.HTTPStatus)
	assert.Equal(t, http.StatusBadGateway, unavailable.HTTPStatus)
}
