package klarna_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ktmcp/klarnacompayments/internal/config"
	"github.com/ktmcp/klarnacompayments/internal/klarna"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSession_Success(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]any

	responseBody := `{"session_id":"sess-123","client_token":"eyJhbGciOiJS","payment_method_categories":[{"identifier":"pay_later","name":"Pay later"}]}`
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(responseBody))
	}))

	session, err := client.CreateSession(context.Background(), klarna.SessionParams{
		OrderAmount: 1000,
		OrderLines: []klarna.OrderLine{
			{Quantity: 1, UnitPrice: 1000, TotalAmount: 1000},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/payments/v1/sessions", gotPath)
	assert.Equal(t, "sess-123", session.SessionID)
	assert.Equal(t, "eyJhbGciOiJS", session.ClientToken)
	assert.Len(t, session.PaymentMethodCategories, 1)

	// Defaults fill the omitted fields.
	assert.Equal(t, "US", gotBody["purchase_country"])
	assert.Equal(t, "USD", gotBody["purchase_currency"])
	assert.Equal(t, "en-US", gotBody["locale"])
	assert.Equal(t, float64(1000), gotBody["order_amount"])

	// Raw payload is preserved byte for byte for machine output.
	assert.Equal(t, responseBody, string(session.Raw()))
}

func TestCreateSession_ExplicitLocaleKept(t *testing.T) {
	var gotBody map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{}`))
	}))

	_, err := client.CreateSession(context.Background(), klarna.SessionParams{
		PurchaseCountry:  "SE",
		PurchaseCurrency: "SEK",
		Locale:           "sv-SE",
		OrderAmount:      2500,
	})
	require.NoError(t, err)
	assert.Equal(t, "SE", gotBody["purchase_country"])
	assert.Equal(t, "SEK", gotBody["purchase_currency"])
	assert.Equal(t, "sv-SE", gotBody["locale"])
}

func TestCreateSession_NegativeAmountNeverReachesNetwork(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	client, err := klarna.NewClient(config.Config{APIKey: "test-key", BaseURL: server.URL}, nil)
	require.NoError(t, err)

	_, err = client.CreateSession(context.Background(), klarna.SessionParams{OrderAmount: -1})
	require.Error(t, err)
	assert.Equal(t, klarna.KindInvalidInput, klarna.KindOf(err))
	assert.Equal(t, 0, calls)
}

func TestGetSession_EmptyID(t *testing.T) {
	client := newTestClient(t, jsonHandler(200, `{}`))

	_, err := client.GetSession(context.Background(), "  ")
	require.Error(t, err)
	assert.Equal(t, klarna.KindInvalidInput, klarna.KindOf(err))
}

func TestGetSession_NotFound(t *testing.T) {
	client := newTestClient(t, jsonHandler(404, `{"error_message":"no such session"}`))

	_, err := client.GetSession(context.Background(), "sess-missing")
	require.Error(t, err)
	assert.Equal(t, klarna.KindNotFound, klarna.KindOf(err))
}

func TestUpdateSession_SendsOnlyAmountAndLines(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{}`))
	}))

	_, err := client.UpdateSession(context.Background(), "sess-123", 2000, []klarna.OrderLine{
		{Quantity: 2, UnitPrice: 1000, TotalAmount: 2000},
	})
	require.NoError(t, err)

	assert.Equal(t, "/payments/v1/sessions/sess-123", gotPath)
	assert.Len(t, gotBody, 2)
	assert.Contains(t, gotBody, "order_amount")
	assert.Contains(t, gotBody, "order_lines")
}
