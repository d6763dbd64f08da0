package payment

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recorded struct {
	path string
	auth string
	body map[string]any
}

func gatewayStub(t *testing.T, calls *[]recorded, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var body map[string]any
		require.NoError(t, json.Unmarshal(raw, &body))
		*calls = append(*calls, recorded{path: r.URL.Path, auth: r.Header.Get("Authorization"), body: body})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reply))
	}))
}

func TestClientCharge(t *testing.T) {
	var calls []recorded
	srv := gatewayStub(t, &calls, `{"success":true,"payment":{"id":"pay-9","status":"COMPLETED"}}`)
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token", "loc-1", zap.NewNop())
	receipt, err := c.Charge(context.Background(), "tok-1", 25000, "USD", "idem-1")
	require.NoError(t, err)
	assert.Equal(t, "pay-9", receipt.PaymentID)
	assert.Equal(t, int64(25000), receipt.AmountCents)
	assert.Equal(t, "COMPLETED", receipt.Status)

	require.Len(t, calls, 1)
	call := calls[0]
	assert.Equal(t, "/payments", call.path)
	assert.Equal(t, "Bearer secret-token", call.auth)
	assert.Equal(t, "tok-1", call.body["sourceId"])
	// Amounts cross the wire in major units.
	assert.Equal(t, "250", call.body["amount"])
	assert.Equal(t, "USD", call.body["currency"])
	assert.Equal(t, "loc-1", call.body["locationId"])
	assert.Equal(t, "idem-1", call.body["idempotencyKey"])
}

func TestClientChargeDelayedSendsISODuration(t *testing.T) {
	var calls []recorded
	srv := gatewayStub(t, &calls, `{"success":true,"payment":{"id":"pay-10","status":"APPROVED"}}`)
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token", "loc-1", zap.NewNop())
	receipt, err := c.ChargeDelayed(context.Background(), "card-1", 25000, "USD", 10*24*time.Hour, "cust-1", "idem-2")
	require.NoError(t, err)
	assert.Equal(t, 10*24*time.Hour, receipt.Delay)

	require.Len(t, calls, 1)
	body := calls[0].body
	assert.Equal(t, "card-1", body["sourceId"])
	assert.Equal(t, "cust-1", body["customerId"])
	assert.Equal(t, "PT864000S", body["delayDuration"])
}

func TestClientCreateCustomer(t *testing.T) {
	var calls []recorded
	srv := gatewayStub(t, &calls, `{"success":true,"customer":{"id":"cust-7"}}`)
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token", "loc-1", zap.NewNop())
	id, err := c.CreateCustomer(context.Background(), Customer{
		Email: "ada@example.com", FirstName: "Ada", LastName: "Quill", Phone: "555-0100",
	})
	require.NoError(t, err)
	assert.Equal(t, "cust-7", id)

	require.Len(t, calls, 1)
	body := calls[0].body
	assert.Equal(t, "/customers", calls[0].path)
	assert.Equal(t, "ada@example.com", body["emailAddress"])
	assert.Equal(t, "Ada", body["givenName"])
	assert.Equal(t, "Quill", body["familyName"])
}

func TestClientStoreCard(t *testing.T) {
	var calls []recorded
	srv := gatewayStub(t, &calls, `{"success":true,"card":{"id":"card-3"}}`)
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token", "loc-1", zap.NewNop())
	id, err := c.StoreCard(context.Background(), "tok-1", "cust-7", "idem-3")
	require.NoError(t, err)
	assert.Equal(t, "card-3", id)
	assert.Equal(t, "/cards", calls[0].path)
}

func TestClientDeclineSurfacesGatewayMessage(t *testing.T) {
	var calls []recorded
	srv := gatewayStub(t, &calls, `{"success":false,"message":"Card declined"}`)
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token", "loc-1", zap.NewNop())
	_, err := c.Charge(context.Background(), "tok-1", 25000, "USD", "idem-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Card declined")
}

func TestClientContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "", zap.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Charge(ctx, "tok-1", 25000, "USD", "idem-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
}
