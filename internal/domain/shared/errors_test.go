package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	t.Run("matches sentinel with custom message", func(t *testing.T) {
		err := NewDomainError("INSUFFICIENT_BALANCE", "balance 10.00 is below 50.00")
		assert.True(t, errors.Is(err, ErrInsufficientBalance))
		assert.False(t, errors.Is(err, ErrNotFound))
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		err := fmt.Errorf("debit failed: %w", ErrInsufficientBalance)
		assert.True(t, errors.Is(err, ErrInsufficientBalance))

		var domainErr *DomainError
		assert.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INSUFFICIENT_BALANCE", domainErr.Code)
	})

	t.Run("does not match plain errors", func(t *testing.T) {
		assert.False(t, errors.Is(errors.New("NOT_FOUND"), ErrNotFound))
	})
}
