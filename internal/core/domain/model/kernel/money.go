package kernel

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// Money is an amount in whole dinars. Fractions are not used by the province
// fee table or by quoted prices, so integers avoid float drift in totals.
type Money int64

// NewMoney rejects negative amounts.
func NewMoney(amount int64) (Money, error) {
	m := Money(amount)
	if err := m.Validate(); err != nil {
		return 0, err
	}
	return m, nil
}

func (m Money) Validate() error {
	if m < 0 {
		return errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%d is negative", int64(m)))
	}
	return nil
}

func (m Money) Add(other Money) Money {
	return m + other
}

func (m Money) Int64() int64 {
	return int64(m)
}

func (m Money) String() string {
	return fmt.Sprintf("%d IQD", int64(m))
}
