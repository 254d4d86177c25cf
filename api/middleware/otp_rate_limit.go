package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/caffeinepub/sajavathub-com-sub000/api/responses"
	pkgerrors "github.com/caffeinepub/sajavathub-com-sub000/pkg/errors"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
)

const maxOTPBodyBytes = 4 << 10

type windowLimiter interface {
	WindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// OTPRateLimitPolicy bounds how often one client IP and one mobile number may
// hit an OTP endpoint within a window. A zero limit disables that dimension.
type OTPRateLimitPolicy struct {
	name        string
	window      time.Duration
	ipLimit     int
	mobileLimit int
}

func NewOTPRateLimitPolicy(name string, window time.Duration, ipLimit, mobileLimit int) OTPRateLimitPolicy {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "otp"
	}
	return OTPRateLimitPolicy{name: name, window: window, ipLimit: ipLimit, mobileLimit: mobileLimit}
}

func (p OTPRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.mobileLimit > 0)
}

type otpLimitCheck struct {
	dimension string
	subject   string
	limit     int
}

// OTPRateLimit enforces the policy before the handler runs. The mobile number
// is read from the JSON body and only its SHA-256 appears in keys and logs.
func OTPRateLimit(policy OTPRateLimitPolicy, limiter windowLimiter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			body, err := io.ReadAll(io.LimitReader(r.Body, maxOTPBodyBytes))
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request"))
				return
			}
			r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), r.Body))

			var checks []otpLimitCheck
			if ip := clientIP(r); policy.ipLimit > 0 && ip != "" {
				checks = append(checks, otpLimitCheck{dimension: "ip", subject: ip, limit: policy.ipLimit})
			}
			if mobile := mobileFromBody(body); policy.mobileLimit > 0 && mobile != "" {
				checks = append(checks, otpLimitCheck{dimension: "mobile", subject: hashValue(mobile), limit: policy.mobileLimit})
			}

			for _, check := range checks {
				scope := "otp:" + policy.name + ":" + check.dimension + ":" + check.subject
				allowed, count, err := limiter.WindowAllow(ctx, scope, int64(check.limit), policy.window)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
					return
				}
				if !allowed {
					if logg != nil {
						logg.Warn(logg.WithFields(ctx, map[string]any{
							"policy":         policy.name,
							"dimension":      check.dimension,
							"subject":        check.subject,
							"attempts":       count,
							"limit":          check.limit,
							"window_seconds": int(policy.window.Seconds()),
						}), "otp.rate_limited")
					}
					responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the left-most X-Forwarded-For hop set by the load balancer.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func mobileFromBody(payload []byte) string {
	var args struct {
		MobileNumber string `json:"mobileNumber"`
	}
	if json.Unmarshal(payload, &args) != nil {
		return ""
	}
	return strings.TrimSpace(args.MobileNumber)
}
