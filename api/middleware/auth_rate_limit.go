package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/sellerdesk-backend/api/responses"
	pkgerrors "github.com/angelmondragon/sellerdesk-backend/pkg/errors"
	"github.com/angelmondragon/sellerdesk-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/sellerdesk-backend/pkg/redis"
)

// AuthRateLimitPolicy throttles one auth endpoint by caller IP and by the
// email address in the request body, each with its own fixed window budget.
type AuthRateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "auth"
	}
	return AuthRateLimitPolicy{name: name, window: window, ipLimit: ipLimit, emailLimit: emailLimit}
}

// budget is one counter checked for a request. An empty subject skips it.
type budget struct {
	dimension string
	subject   string
	limit     int
}

func (p AuthRateLimitPolicy) budgets(r *http.Request, body []byte) []budget {
	var out []budget
	if p.ipLimit > 0 {
		out = append(out, budget{dimension: "ip", subject: clientIP(r), limit: p.ipLimit})
	}
	if p.emailLimit > 0 {
		// Emails are hashed so the keyspace never holds addresses.
		if email := normalizeEmail(extractEmail(body)); email != "" {
			out = append(out, budget{dimension: "email", subject: hashValue(email), limit: p.emailLimit})
		}
	}
	return out
}

func (p AuthRateLimitPolicy) retryAfter() string {
	seconds := int(p.window.Round(time.Second) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}

// AuthRateLimit rejects requests that exhaust any budget of the policy with
// RATE_LIMIT_EXCEEDED and a Retry-After header. Limiter failures surface as a
// retryable STORE_UNAVAILABLE. A nil limiter or an empty policy disables it.
func AuthRateLimit(policy AuthRateLimitPolicy, limiter pkgredis.RateLimiter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil || policy.window <= 0 || (policy.ipLimit <= 0 && policy.emailLimit <= 0) {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var body []byte
			if policy.emailLimit > 0 {
				read, err := io.ReadAll(r.Body)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request"))
					return
				}
				body = read
				r.Body = io.NopCloser(bytes.NewReader(body))
			}

			for _, b := range policy.budgets(r, body) {
				if b.subject == "" {
					continue
				}
				scope := policy.name + ":" + b.dimension + ":" + b.subject
				allowed, count, err := limiter.FixedWindowAllow(ctx, scope, int64(b.limit), policy.window)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.StoreUnavailable(err, "rate limiting"))
					return
				}
				if allowed {
					continue
				}
				if logg != nil {
					logg.Warn(logg.WithFields(ctx, map[string]any{
						"policy":    policy.name,
						"dimension": b.dimension,
						"subject":   b.subject,
						"attempts":  count,
						"limit":     b.limit,
					}), "auth.rate_limit.blocked")
				}
				w.Header().Set("Retry-After", policy.retryAfter())
				responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the
// socket peer. The api is expected to run behind a proxy that sets them.
func clientIP(r *http.Request) string {
	for _, part := range strings.Split(r.Header.Get("X-Forwarded-For"), ",") {
		if ip := strings.TrimSpace(part); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func extractEmail(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(payload, &body) != nil {
		return ""
	}
	return body.Email
}

func normalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
