package ports

import "orderflow/internal/core/domain/model/kernel"

// FeeTable prices delivery by province.
type FeeTable interface {
	// DeliveryFee returns the fee for province, or the table default for an unknown one.
	DeliveryFee(province string) kernel.Money

	// Provinces returns a copy of the configured fees.
	Provinces() map[string]kernel.Money
}
