package kernel

import (
	"errors"
	"strings"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

// ErrAddressIsNotConstructed is returned when a zero Address is used.
var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError("address must be created via NewAddress")

// Address is a delivery destination: the province drives the delivery fee,
// the street line is free text for the agent.
//
// Example:
//
//	addr, err := kernel.NewAddress("بغداد", "Karrada, street 62, house 14")
type Address struct {
	province string
	street   string
	guard    guard.ConstructorGuard
}

// NewAddress requires both parts to be non-blank.
func NewAddress(province, street string) (Address, error) {
	a := Address{guard: guard.NewConstructorGuard()}

	if err := errors.Join(a.setProvince(province), a.setStreet(street)); err != nil {
		return Address{}, err
	}
	return a, nil
}

func (a Address) Province() string {
	return a.province
}

func (a Address) Street() string {
	return a.street
}

func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

func (a Address) String() string {
	return a.province + ", " + a.street
}

func (a *Address) setProvince(province string) error {
	province = strings.TrimSpace(province)
	if province == "" {
		return errs.NewValueIsRequiredError("province")
	}
	a.province = province
	return nil
}

func (a *Address) setStreet(street string) error {
	street = strings.TrimSpace(street)
	if street == "" {
		return errs.NewValueIsRequiredError("address")
	}
	a.street = street
	return nil
}
