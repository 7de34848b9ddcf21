// Package stripeclient talks to the payment processor's REST API. The
// rest of the system treats it as two opaque capabilities: minting a
// client secret for an amount, and confirming a card payment.
package stripeclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/retry"
)

var _ port.IntentCreator = (*Client)(nil)
var _ port.PaymentConfirmer = (*Client)(nil)

const (
	DefaultAPIURL  = "https://api.stripe.com"
	requestTimeout = 15 * time.Second
	maxAttempts    = 3
)

type Config struct {
	APIURL         string
	SecretKey      string
	PublishableKey string

	// PaymentMethod is the tokenized payment method attached on
	// confirmation. Card data never transits this service.
	PaymentMethod string
}

type Client struct {
	apiURL         string
	secretKey      string
	publishableKey string
	paymentMethod  string
	httpClient     *http.Client
}

func New(cfg Config) Client {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return Client{
		apiURL:         strings.TrimRight(apiURL, "/"),
		secretKey:      cfg.SecretKey,
		publishableKey: cfg.PublishableKey,
		paymentMethod:  cfg.PaymentMethod,
		httpClient:     &http.Client{Timeout: requestTimeout},
	}
}

// PublishableKey is the processor-config probe value. An empty string
// means the processor is not configured.
func (c Client) PublishableKey() string {
	return c.publishableKey
}

// CreateIntent mints a payment intent for the amount and returns its
// client secret. Transient transport failures are retried.
func (c Client) CreateIntent(
	ctx context.Context, amountCents int64, currency string,
) (string, error) {
	const op = "Client.CreateIntent"

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountCents, 10))
	form.Set("currency", currency)

	retryCfg := retry.RetryConfig{
		MaxAttempts: maxAttempts,
		Backoff:     retry.LineareBackoff(200 * time.Millisecond),
		ShouldRetry: isTransient,
	}

	intent, err := retry.DoWithResult(ctx, retryCfg, func() (intentResponse, error) {
		return c.postForm(ctx, "/v1/payment_intents", form, domain.ErrIntentCreation)
	})
	if err != nil {
		return "", err
	}

	if intent.ClientSecret == "" {
		return "", fmt.Errorf("%s: %w: no client secret in response",
			op, domain.ErrIntentCreation)
	}
	return intent.ClientSecret, nil
}

// ConfirmPayment confirms the intent behind the client secret with the
// configured payment method and billing details derived from the
// customer info.
func (c Client) ConfirmPayment(
	ctx context.Context, clientSecret string, info domain.CustomerInfo,
) (domain.Confirmation, error) {
	const op = "Client.ConfirmPayment"

	intentID, _, found := strings.Cut(clientSecret, "_secret")
	if !found || intentID == "" {
		return domain.Confirmation{}, fmt.Errorf(
			"%s: %w: unusable client secret", op, domain.ErrPaymentCapability)
	}

	form := url.Values{}
	form.Set("payment_method", c.paymentMethod)
	form.Set("receipt_email", info.Email)
	form.Set("shipping[name]", info.FullName())
	form.Set("shipping[address][line1]", info.Address)
	form.Set("shipping[address][city]", info.City)
	form.Set("shipping[address][postal_code]", info.ZipCode)
	form.Set("shipping[address][country]", info.Country)

	path := "/v1/payment_intents/" + intentID + "/confirm"
	intent, err := c.postForm(ctx, path, form, domain.ErrPaymentDeclined)
	if err != nil {
		return domain.Confirmation{}, err
	}

	return domain.Confirmation{
		Status:    intent.Status,
		Reference: intent.ID,
	}, nil
}

type intentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Error        *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c Client) postForm(
	ctx context.Context, path string, form url.Values, kind error,
) (intentResponse, error) {
	const op = "Client.postForm"

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.apiURL+path,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return intentResponse{}, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return intentResponse{}, transportError{
			err: fmt.Errorf("%s: %w: %w", op, kind, err),
		}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return intentResponse{}, transportError{
			err: fmt.Errorf("%s: %w: %w", op, kind, err),
		}
	}

	if res.StatusCode >= http.StatusInternalServerError {
		return intentResponse{}, transportError{
			err: fmt.Errorf("%s: %w: processor returned %d",
				op, kind, res.StatusCode),
		}
	}

	var intent intentResponse
	if err := json.Unmarshal(body, &intent); err != nil {
		return intentResponse{}, fmt.Errorf("%s: %w: %w", op, kind, err)
	}

	if intent.Error != nil {
		// The processor message is surfaced to the user verbatim.
		return intentResponse{}, apiError{msg: intent.Error.Message, kind: kind}
	}
	if res.StatusCode != http.StatusOK {
		return intentResponse{}, fmt.Errorf("%s: %w: processor returned %d",
			op, kind, res.StatusCode)
	}

	return intent, nil
}

// apiError keeps the processor-reported message verbatim while staying
// matchable against the error taxonomy.
type apiError struct {
	msg  string
	kind error
}

func (e apiError) Error() string { return e.msg }
func (e apiError) Unwrap() error { return e.kind }

type transportError struct {
	err error
}

func (e transportError) Error() string { return e.err.Error() }
func (e transportError) Unwrap() error { return e.err }

func isTransient(err error) bool {
	var te transportError
	return errors.As(err, &te)
}
