package stripeclient_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/niksmo/storefront/internal/adapter/stripeclient"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(apiURL string) stripeclient.Client {
	return stripeclient.New(stripeclient.Config{
		APIURL:         apiURL,
		SecretKey:      "sk_test_123",
		PublishableKey: "pk_test_123",
		PaymentMethod:  "pm_card_visa",
	})
}

func writeIntent(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestCreateIntent(t *testing.T) {
	t.Run("ReturnsClientSecret", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/v1/payment_intents", r.URL.Path)
				assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))

				require.NoError(t, r.ParseForm())
				assert.Equal(t, "2500", r.PostForm.Get("amount"))
				assert.Equal(t, "usd", r.PostForm.Get("currency"))

				writeIntent(t, w, map[string]string{
					"id":            "pi_123",
					"client_secret": "pi_123_secret_456",
					"status":        "requires_confirmation",
				})
			}))
		defer srv.Close()

		c := testClient(srv.URL)
		secret, err := c.CreateIntent(t.Context(), 2500, "usd")
		require.NoError(t, err)
		assert.Equal(t, "pi_123_secret_456", secret)
	})

	t.Run("APIErrorMessageVerbatim", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				writeIntent(t, w, map[string]any{
					"error": map[string]string{
						"message": "Amount must be at least 50 cents.",
					},
				})
			}))
		defer srv.Close()

		c := testClient(srv.URL)
		_, err := c.CreateIntent(t.Context(), 1, "usd")
		require.Error(t, err)
		assert.Equal(t, "Amount must be at least 50 cents.", err.Error())
		assert.ErrorIs(t, err, domain.ErrIntentCreation)
	})

	t.Run("RetriesServerErrors", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				if calls.Add(1) < 3 {
					w.WriteHeader(http.StatusServiceUnavailable)
					return
				}
				writeIntent(t, w, map[string]string{
					"client_secret": "pi_123_secret_456",
				})
			}))
		defer srv.Close()

		c := testClient(srv.URL)
		secret, err := c.CreateIntent(t.Context(), 2500, "usd")
		require.NoError(t, err)
		assert.Equal(t, "pi_123_secret_456", secret)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("APIErrorIsNotRetried", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(http.StatusPaymentRequired)
				writeIntent(t, w, map[string]any{
					"error": map[string]string{
						"message": "Your card was declined.",
					},
				})
			}))
		defer srv.Close()

		c := testClient(srv.URL)
		_, err := c.CreateIntent(t.Context(), 2500, "usd")
		require.Error(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("MissingClientSecret", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				writeIntent(t, w, map[string]string{"id": "pi_123"})
			}))
		defer srv.Close()

		c := testClient(srv.URL)
		_, err := c.CreateIntent(t.Context(), 2500, "usd")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrIntentCreation)
	})
}

func TestConfirmPayment(t *testing.T) {
	info := domain.CustomerInfo{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john.doe@example.com",
		Address:   "123 Fashion Street",
		City:      "New York",
		ZipCode:   "10001",
		Country:   "US",
	}

	t.Run("Succeeded", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/payment_intents/pi_123/confirm", r.URL.Path)

				require.NoError(t, r.ParseForm())
				assert.Equal(t, "pm_card_visa", r.PostForm.Get("payment_method"))
				assert.Equal(t, "john.doe@example.com", r.PostForm.Get("receipt_email"))
				assert.Equal(t, "John Doe", r.PostForm.Get("shipping[name]"))
				assert.Equal(t, "10001", r.PostForm.Get("shipping[address][postal_code]"))

				writeIntent(t, w, map[string]string{
					"id":     "pi_123",
					"status": "succeeded",
				})
			}))
		defer srv.Close()

		c := testClient(srv.URL)
		conf, err := c.ConfirmPayment(t.Context(), "pi_123_secret_456", info)
		require.NoError(t, err)
		assert.Equal(t, domain.ConfirmationSucceeded, conf.Status)
		assert.Equal(t, "pi_123", conf.Reference)
	})

	t.Run("DeclinedMessageVerbatim", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusPaymentRequired)
				writeIntent(t, w, map[string]any{
					"error": map[string]string{
						"message": "Your card has insufficient funds.",
					},
				})
			}))
		defer srv.Close()

		c := testClient(srv.URL)
		_, err := c.ConfirmPayment(t.Context(), "pi_123_secret_456", info)
		require.Error(t, err)
		assert.Equal(t, "Your card has insufficient funds.", err.Error())
		assert.ErrorIs(t, err, domain.ErrPaymentDeclined)
	})

	t.Run("NonSucceededStatusPassesThrough", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				writeIntent(t, w, map[string]string{
					"id":     "pi_123",
					"status": "requires_action",
				})
			}))
		defer srv.Close()

		c := testClient(srv.URL)
		conf, err := c.ConfirmPayment(t.Context(), "pi_123_secret_456", info)
		require.NoError(t, err)
		assert.Equal(t, "requires_action", conf.Status)
	})

	t.Run("UnusableClientSecret", func(t *testing.T) {
		c := testClient("http://127.0.0.1:1")

		for _, secret := range []string{"", "garbage", "_secret_456"} {
			_, err := c.ConfirmPayment(t.Context(), secret, info)
			require.Error(t, err, "secret %q", secret)
			assert.ErrorIs(t, err, domain.ErrPaymentCapability)
		}
	})
}

func TestPublishableKey(t *testing.T) {
	c := testClient(stripeclient.DefaultAPIURL)
	assert.Equal(t, "pk_test_123", c.PublishableKey())
}
