package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetTrimsAndFallsBack(t *testing.T) {
	t.Setenv("SELLERDESK_ENV_TEST", "  value ")
	assert.Equal(t, "value", Get("SELLERDESK_ENV_TEST", "fallback"))

	t.Setenv("SELLERDESK_ENV_TEST", "   ")
	assert.Equal(t, "fallback", Get("SELLERDESK_ENV_TEST", "fallback"))
}

func TestFirstPrefersEarlierKeys(t *testing.T) {
	t.Setenv("SELLERDESK_ENV_A", "")
	t.Setenv("SELLERDESK_ENV_B", "b")
	t.Setenv("SELLERDESK_ENV_C", "c")

	assert.Equal(t, "b", First("x", "SELLERDESK_ENV_A", "SELLERDESK_ENV_B", "SELLERDESK_ENV_C"))
	assert.Equal(t, "x", First("x", "SELLERDESK_ENV_A"))
}
