package enums

import (
	"fmt"
	"strings"
)

// OrderState tracks the lifecycle of an order.
type OrderState string

const (
	OrderStatePending   OrderState = "PENDING"
	OrderStateCompleted OrderState = "COMPLETED"
	OrderStateCancelled OrderState = "CANCELLED"
)

var validOrderStates = []OrderState{
	OrderStatePending,
	OrderStateCompleted,
	OrderStateCancelled,
}

// String implements fmt.Stringer.
func (s OrderState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderState.
func (s OrderState) IsValid() bool {
	for _, candidate := range validOrderStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is allowed.
func (s OrderState) IsTerminal() bool {
	return s == OrderStateCompleted || s == OrderStateCancelled
}

// CanTransitionTo reports whether an order in s may move to next. Staying in
// the same state is always allowed.
func (s OrderState) CanTransitionTo(next OrderState) bool {
	if s == next {
		return true
	}
	return s == OrderStatePending && (next == OrderStateCompleted || next == OrderStateCancelled)
}

// ParseOrderState converts raw input, case-insensitively, into an OrderState.
func ParseOrderState(value string) (OrderState, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validOrderStates {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order state %q", value)
}
