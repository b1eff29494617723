package redis

import "strings"

// Every key lives under the sd: namespace, grouped by purpose.
const (
	keyNamespace      = "sd"
	idempotencyPrefix = "idempotency"
	rateLimitPrefix   = "rate_limit"
	lockPrefix        = "lock"
	reportPrefix      = "report"
)

// IdempotencyKey stores replayable responses: sd:idempotency:<scope>:<key>.
func (c *Client) IdempotencyKey(scope, id string) string {
	return buildKey(idempotencyPrefix, scope, id)
}

// RateLimitKey holds fixed-window counters: sd:rate_limit:<scope>.
func (c *Client) RateLimitKey(scope string) string {
	return buildKey(rateLimitPrefix, scope)
}

// LockKey holds worker leases: sd:lock:<name>.
func (c *Client) LockKey(name string) string {
	return buildKey(lockPrefix, name)
}

// ReportKey holds cached leaderboards: sd:report:<name>.
func (c *Client) ReportKey(name string) string {
	return buildKey(reportPrefix, name)
}

func buildKey(parts ...string) string {
	key := []string{keyNamespace}
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			key = append(key, part)
		}
	}
	return strings.Join(key, ":")
}
