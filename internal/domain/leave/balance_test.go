package leave

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeBalance(t *testing.T) {
	// Annual Leave allocated 20, one approved 5-day and one pending 3-day request.
	balance := ComputeBalance(decimal.NewFromInt(20), decimal.NewFromInt(5), decimal.NewFromInt(3))
	assert.True(t, balance.Allocated.Equal(decimal.NewFromInt(20)))
	assert.True(t, balance.Used.Equal(decimal.NewFromInt(5)))
	assert.True(t, balance.Pending.Equal(decimal.NewFromInt(3)))
	assert.True(t, balance.Remaining.Equal(decimal.NewFromInt(12)))
}

func TestComputeBalanceNoUsage(t *testing.T) {
	balance := ComputeBalance(decimal.NewFromInt(10), decimal.Zero, decimal.Zero)
	assert.True(t, balance.Remaining.Equal(decimal.NewFromInt(10)))
}

func TestComputeBalanceNegativeRemaining(t *testing.T) {
	// Overdraw is reported, not masked.
	balance := ComputeBalance(decimal.NewFromInt(5), decimal.NewFromInt(4), decimal.RequireFromString("2.5"))
	assert.True(t, balance.Remaining.Equal(decimal.RequireFromString("-1.5")), "got %s", balance.Remaining)
	assert.True(t, balance.Remaining.IsNegative())
}
