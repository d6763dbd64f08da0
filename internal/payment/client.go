package payment

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// callTimeout bounds every gateway call.
const callTimeout = 30 * time.Second

// Client talks to the gateway's HTTP API. Amounts go over the wire in major
// units as the gateway expects; the response envelope is
// {success, payment?, message?}.
type Client struct {
	baseURL     string
	accessToken string
	locationID  string
	http        *http.Client
	log         *zap.Logger
}

// NewClient builds a gateway client with a bounded per-call timeout.
func NewClient(baseURL, accessToken, locationID string, log *zap.Logger) *Client {
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		locationID:  locationID,
		log:         log,
		http: &http.Client{
			Timeout: callTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type chargeRequest struct {
	SourceID            string          `json:"sourceId"`
	Amount              decimal.Decimal `json:"amount"`
	Currency            string          `json:"currency"`
	Email               string          `json:"email,omitempty"`
	FirstName           string          `json:"firstName,omitempty"`
	LastName            string          `json:"lastName,omitempty"`
	Phone               string          `json:"phone,omitempty"`
	CustomerID          string          `json:"customerId,omitempty"`
	LocationID          string          `json:"locationId,omitempty"`
	IdempotencyKey      string          `json:"idempotencyKey"`
	IsPartialPayment    bool            `json:"isPartialPayment"`
	SecondPaymentDate   string          `json:"secondPaymentDate,omitempty"`
	SecondPaymentAmount decimal.Decimal `json:"secondPaymentAmount,omitempty"`
	DelayDuration       string          `json:"delayDuration,omitempty"`
}

type customerRequest struct {
	EmailAddress string `json:"emailAddress"`
	GivenName    string `json:"givenName"`
	FamilyName   string `json:"familyName"`
	PhoneNumber  string `json:"phoneNumber"`
}

type cardRequest struct {
	SourceID       string `json:"sourceId"`
	CustomerID     string `json:"customerId"`
	IdempotencyKey string `json:"idempotencyKey"`
}

type gatewayResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Payment *struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"payment,omitempty"`
	Customer *struct {
		ID string `json:"id"`
	} `json:"customer,omitempty"`
	Card *struct {
		ID string `json:"id"`
	} `json:"card,omitempty"`
}

func (c *Client) CreateCustomer(ctx context.Context, cu Customer) (string, error) {
	resp, err := c.post(ctx, "/customers", customerRequest{
		EmailAddress: cu.Email,
		GivenName:    cu.FirstName,
		FamilyName:   cu.LastName,
		PhoneNumber:  cu.Phone,
	})
	if err != nil {
		return "", err
	}
	if resp.Customer == nil || resp.Customer.ID == "" {
		return "", errors.New("gateway returned no customer id")
	}
	return resp.Customer.ID, nil
}

func (c *Client) Charge(ctx context.Context, token string, amountCents int64, currency, idempotencyKey string) (*ChargeReceipt, error) {
	resp, err := c.post(ctx, "/payments", chargeRequest{
		SourceID:       token,
		Amount:         decimal.New(amountCents, -2),
		Currency:       currency,
		LocationID:     c.locationID,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return nil, err
	}
	if resp.Payment == nil {
		return nil, errors.New("gateway returned no payment")
	}
	return &ChargeReceipt{
		PaymentID:   resp.Payment.ID,
		AmountCents: amountCents,
		Currency:    currency,
		Status:      resp.Payment.Status,
	}, nil
}

func (c *Client) StoreCard(ctx context.Context, token, customerID, idempotencyKey string) (string, error) {
	resp, err := c.post(ctx, "/cards", cardRequest{
		SourceID:       token,
		CustomerID:     customerID,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return "", err
	}
	if resp.Card == nil || resp.Card.ID == "" {
		return "", errors.New("gateway returned no card id")
	}
	return resp.Card.ID, nil
}

func (c *Client) ChargeDelayed(ctx context.Context, cardID string, amountCents int64, currency string, delay time.Duration, customerID, idempotencyKey string) (*ScheduledChargeReceipt, error) {
	resp, err := c.post(ctx, "/payments", chargeRequest{
		SourceID:       cardID,
		Amount:         decimal.New(amountCents, -2),
		Currency:       currency,
		CustomerID:     customerID,
		LocationID:     c.locationID,
		IdempotencyKey: idempotencyKey,
		DelayDuration:  fmt.Sprintf("PT%dS", int64(delay.Seconds())),
	})
	if err != nil {
		return nil, err
	}
	if resp.Payment == nil {
		return nil, errors.New("gateway returned no scheduled payment")
	}
	return &ScheduledChargeReceipt{
		PaymentID:   resp.Payment.ID,
		AmountCents: amountCents,
		Delay:       delay,
	}, nil
}

func (c *Client) post(ctx context.Context, path string, body any) (*gatewayResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	httpResp, err := c.http.Do(req)
	if err != nil {
		var ue interface{ Timeout() bool }
		if errors.As(err, &ue) && ue.Timeout() || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s: %w", path, ErrTimeout)
		}
		return nil, fmt.Errorf("gateway call %s: %w", path, err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("gateway call %s: %w", path, err)
	}
	var resp gatewayResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("gateway call %s: malformed response: %w", path, err)
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = httpResp.Status
		}
		return nil, fmt.Errorf("gateway call %s failed: %s", path, msg)
	}
	return &resp, nil
}
