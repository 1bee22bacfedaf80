package enums

import "fmt"

// CustomerType classifies a customer for pricing purposes.
type CustomerType string

const (
	CustomerTypeShop    CustomerType = "shop"
	CustomerTypeMonthly CustomerType = "monthly"
	CustomerTypeOrder   CustomerType = "order"
)

var validCustomerTypes = []CustomerType{
	CustomerTypeShop,
	CustomerTypeMonthly,
	CustomerTypeOrder,
}

// IsValid reports whether the value matches the canonical customer type enum.
func (c CustomerType) IsValid() bool {
	for _, candidate := range validCustomerTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCustomerType converts the raw string to CustomerType.
func ParseCustomerType(value string) (CustomerType, error) {
	for _, candidate := range validCustomerTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid customer type %q", value)
}
