package payroll

import "errors"

var (
	ErrRunNotFound     = errors.New("payroll run not found")
	ErrInvalidRunState = errors.New("payroll run is not in the required state")
)
