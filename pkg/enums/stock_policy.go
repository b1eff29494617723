package enums

import (
	"fmt"
	"strings"
)

// StockPolicy decides whether stock taken by an order is credited back when
// the order's items are replaced, the order is cancelled, or it is deleted.
type StockPolicy string

const (
	StockPolicyNoRestore StockPolicy = "no_restore"
	StockPolicyRestore   StockPolicy = "restore"
)

// IsValid reports whether the value is a known StockPolicy.
func (p StockPolicy) IsValid() bool {
	return p == StockPolicyNoRestore || p == StockPolicyRestore
}

// ParseStockPolicy converts raw input into a StockPolicy. Empty input yields
// the no_restore default.
func ParseStockPolicy(value string) (StockPolicy, error) {
	normalized := StockPolicy(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return StockPolicyNoRestore, nil
	}
	if !normalized.IsValid() {
		return "", fmt.Errorf("invalid stock policy %q", value)
	}
	return normalized, nil
}
