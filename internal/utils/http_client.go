package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient wraps resty for outbound calls to the campus mail gateway.
// Embedding *resty.Client exposes the full fluent API, so the mailer can
// layer its base URL, auth token and timeout on top of these defaults.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns an independent client with a short retry policy.
// OTP mail is time-sensitive: two quick retries cover a gateway blip, and
// anything beyond that should surface as a delivery error instead of
// stalling the login flow.
func NewHTTPClient() *HTTPClient {
	client := resty.New().
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)

	return &HTTPClient{Client: client}
}
