// Package payment defines the seam to the external payment provider. The
// provider itself is out of scope; what matters is that payment completion
// is verified through an explicit interface instead of trusting the redirect
// parameter unconditionally.
package payment

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	dErrors "memberdesk/pkg/domain-errors"
)

// Verifier checks that a provider-supplied payment identifier is genuine for
// the given application before the workflow marks payment completed.
type Verifier interface {
	Verify(ctx context.Context, applicationID, paymentID string) error
}

// StaticVerifier accepts any non-empty payment identifier. It preserves the
// original trust-the-redirect behavior for development and is the default
// when no provider verification endpoint is configured.
type StaticVerifier struct{}

func (StaticVerifier) Verify(_ context.Context, _, paymentID string) error {
	if paymentID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "payment identifier is required")
	}
	return nil
}

// HTTPVerifier asks the payment provider's verification endpoint whether the
// payment identifier is genuine. Any non-200 answer rejects the payment.
type HTTPVerifier struct {
	verifyURL string
	client    *http.Client
}

func NewHTTPVerifier(verifyURL string) *HTTPVerifier {
	return &HTTPVerifier{
		verifyURL: verifyURL,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *HTTPVerifier) Verify(ctx context.Context, applicationID, paymentID string) error {
	if paymentID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "payment identifier is required")
	}

	q := url.Values{}
	q.Set("payment_id", paymentID)
	q.Set("reference", applicationID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.verifyURL+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build verification request: %w", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "payment provider unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return dErrors.New(dErrors.CodeInvalidInput, "payment could not be verified")
	}
	return nil
}
