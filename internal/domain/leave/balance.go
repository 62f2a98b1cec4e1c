package leave

import "github.com/shopspring/decimal"

// ComputeBalance derives the balance from its inputs. Remaining may be
// negative: overdraw is a signal surfaced to callers, not a constraint.
func ComputeBalance(allocated, used, pending decimal.Decimal) Balance {
	return Balance{
		Allocated: allocated,
		Used:      used,
		Pending:   pending,
		Remaining: allocated.Sub(used).Sub(pending),
	}
}
