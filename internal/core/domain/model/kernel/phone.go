package kernel

import (
	"fmt"
	"strings"

	"orderflow/internal/pkg/errs"
)

// PhoneDigits is the length of a local mobile number, e.g. 07701234567.
const PhoneDigits = 11

// Phone is a local mobile number made of exactly PhoneDigits digits.
type Phone string

// NewPhone trims surrounding spaces and checks the digit count.
func NewPhone(raw string) (Phone, error) {
	p := Phone(strings.TrimSpace(raw))
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

func (p Phone) Validate() error {
	if p == "" {
		return errs.NewValueIsRequiredError("phone")
	}
	if len(p) != PhoneDigits {
		return errs.NewValueIsInvalidErrorWithCause("phone",
			fmt.Errorf("phone number must be %d digits, got %d", PhoneDigits, len(p)))
	}
	for _, r := range p {
		if r < '0' || r > '9' {
			return errs.NewValueIsInvalidErrorWithCause("phone", fmt.Errorf("%q is not a digit", r))
		}
	}
	return nil
}

func (p Phone) String() string {
	return string(p)
}
