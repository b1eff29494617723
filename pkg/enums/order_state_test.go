package enums

import "testing"

func TestOrderStateTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderState
		allowed  bool
	}{
		{OrderStatePending, OrderStateCompleted, true},
		{OrderStatePending, OrderStateCancelled, true},
		{OrderStatePending, OrderStatePending, true},
		{OrderStateCompleted, OrderStateCompleted, true},
		{OrderStateCompleted, OrderStatePending, false},
		{OrderStateCompleted, OrderStateCancelled, false},
		{OrderStateCancelled, OrderStateCompleted, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Fatalf("%s -> %s: expected %v got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}

func TestParseOrderState(t *testing.T) {
	state, err := ParseOrderState(" completed ")
	if err != nil || state != OrderStateCompleted {
		t.Fatalf("expected COMPLETED, got %q err=%v", state, err)
	}
	if _, err := ParseOrderState("SHIPPED"); err == nil {
		t.Fatal("expected unknown state to fail")
	}
	if !OrderStateCancelled.IsTerminal() || OrderStatePending.IsTerminal() {
		t.Fatal("unexpected terminal classification")
	}
}

func TestParseStockPolicy(t *testing.T) {
	policy, err := ParseStockPolicy("")
	if err != nil || policy != StockPolicyNoRestore {
		t.Fatalf("expected default no_restore, got %q err=%v", policy, err)
	}
	policy, err = ParseStockPolicy("RESTORE")
	if err != nil || policy != StockPolicyRestore {
		t.Fatalf("expected restore, got %q err=%v", policy, err)
	}
	if _, err := ParseStockPolicy("partial"); err == nil {
		t.Fatal("expected invalid policy to fail")
	}
}
