// Package pricing loads the province delivery fee table.
package pricing

import (
	"bytes"
	_ "embed"
	"fmt"
	"maps"
	"strings"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"github.com/spf13/viper"
)

//go:embed fees.yaml
var defaultFees []byte

// ProvinceFee is one entry of the table.
type ProvinceFee struct {
	Name string `mapstructure:"name"`
	Fee  int64  `mapstructure:"fee"`
}

// FeeTable implements ports.FeeTable. It is immutable after loading.
type FeeTable struct {
	fees       map[string]kernel.Money
	defaultFee kernel.Money
}

// Load reads the fee table from path, or from the built-in table when path is empty.
// DEFAULT_DELIVERY_FEE in the environment overrides default_fee.
//
// Example:
//
//	fees, err := pricing.Load(os.Getenv("PROVINCE_FEES_FILE"))
//	fee := fees.DeliveryFee("بغداد") // 4000
func Load(path string) (*FeeTable, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.BindEnv("default_fee", "DEFAULT_DELIVERY_FEE"); err != nil {
		return nil, err
	}

	if path == "" {
		if err := v.ReadConfig(bytes.NewReader(defaultFees)); err != nil {
			return nil, fmt.Errorf("read built-in fee table: %w", err)
		}
	} else {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read fee table %s: %w", path, err)
		}
	}

	var provinces []ProvinceFee
	if err := v.UnmarshalKey("provinces", &provinces); err != nil {
		return nil, fmt.Errorf("decode provinces: %w", err)
	}

	return New(provinces, v.GetInt64("default_fee"))
}

// New builds a table from explicit entries. Negative fees and blank or repeated
// province names are rejected.
func New(provinces []ProvinceFee, defaultFee int64) (*FeeTable, error) {
	t := &FeeTable{fees: make(map[string]kernel.Money, len(provinces))}

	def, err := kernel.NewMoney(defaultFee)
	if err != nil {
		return nil, err
	}
	t.defaultFee = def

	for _, p := range provinces {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return nil, errs.NewValueIsRequiredError("province name")
		}
		if _, dup := t.fees[name]; dup {
			return nil, errs.NewValueIsInvalidErrorWithCause("province", fmt.Errorf("%q listed twice", name))
		}
		fee, feeErr := kernel.NewMoney(p.Fee)
		if feeErr != nil {
			return nil, feeErr
		}
		t.fees[name] = fee
	}

	return t, nil
}

// DeliveryFee returns the fee for province, or the default fee for an unlisted one.
func (t *FeeTable) DeliveryFee(province string) kernel.Money {
	if fee, ok := t.fees[strings.TrimSpace(province)]; ok {
		return fee
	}
	return t.defaultFee
}

func (t *FeeTable) Provinces() map[string]kernel.Money {
	return maps.Clone(t.fees)
}
