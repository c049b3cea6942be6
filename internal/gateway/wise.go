package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/observability"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// WiseClient wraps the Wise transfer API. Each method maps 1:1 to a remote
// call. 4xx responses surface as PAYMENT_GATEWAY_REJECTED and are never
// retried; 5xx and network failures are retried once with a short backoff
// before surfacing as PAYMENT_GATEWAY_UNAVAILABLE.
type WiseClient struct {
	baseURL        *url.URL
	apiToken       string
	sourceCurrency string
	targetCurrency string
	retryBackoff   time.Duration
	httpClient     *http.Client
	logger         *zap.Logger
	metrics        *observability.Metrics

	// The PERSONAL profile id is resolved on first use and cached for the
	// life of the process.
	mu        sync.Mutex
	profileID int64
	resolved  bool
}

// NewWiseClient constructs the client from configuration.
func NewWiseClient(cfg config.WiseConfig, logger *zap.Logger, metrics *observability.Metrics) (*WiseClient, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse wise base url: %w", err)
	}
	return &WiseClient{
		baseURL:        u,
		apiToken:       cfg.APIToken,
		sourceCurrency: cfg.SourceCurrency,
		targetCurrency: cfg.TargetCurrency,
		retryBackoff:   cfg.RetryBackoff(),
		httpClient:     &http.Client{Timeout: cfg.Timeout()},
		logger:         logger,
		metrics:        metrics,
	}, nil
}

// CreateQuote issues a same-currency quote for the given amount.
func (c *WiseClient) CreateQuote(ctx context.Context, amount decimal.Decimal) (domain.QuoteID, error) {
	profileID, err := c.resolveProfileID(ctx)
	if err != nil {
		return "", err
	}

	// The gateway schema types sourceAmount as a number; decimal.Decimal
	// marshals as a quoted string by default.
	reqBody := map[string]any{
		"sourceCurrency": c.sourceCurrency,
		"targetCurrency": c.targetCurrency,
		"sourceAmount":   json.RawMessage(amount.String()),
	}
	var out struct {
		ID string `json:"id"`
	}
	endpoint := fmt.Sprintf("/v3/profiles/%d/quotes", profileID)
	if err := c.call(ctx, http.MethodPost, endpoint, reqBody, http.StatusOK, &out); err != nil {
		return "", err
	}
	return domain.QuoteID(out.ID), nil
}

// CreateRecipient registers a bank account and returns its recipient id.
func (c *WiseClient) CreateRecipient(ctx context.Context, fullName, iban string) (domain.RecipientID, error) {
	profileID, err := c.resolveProfileID(ctx)
	if err != nil {
		return "", err
	}

	reqBody := map[string]any{
		"currency":          c.targetCurrency,
		"type":              "iban",
		"profile":           profileID,
		"ownedByCustomer":   true,
		"accountHolderName": fullName,
		"details":           map[string]string{"iban": iban},
	}
	var out struct {
		ID int64 `json:"id"`
	}
	if err := c.call(ctx, http.MethodPost, "/v1/accounts", reqBody, http.StatusOK, &out); err != nil {
		return "", err
	}
	return domain.RecipientID(strconv.FormatInt(out.ID, 10)), nil
}

// CreateTransfer opens an unfunded transfer against the quote. A fresh
// idempotency key is generated per call so a retried request cannot
// double-transfer.
func (c *WiseClient) CreateTransfer(ctx context.Context, recipient domain.RecipientID, quote domain.QuoteID) (domain.TransferID, error) {
	target, err := strconv.ParseInt(string(recipient), 10, 64)
	if err != nil {
		return "", apperrors.NewValidationError("malformed recipient id", map[string]any{"recipient_id": string(recipient)})
	}

	reqBody := map[string]any{
		"targetAccount":         target,
		"quoteUuid":             string(quote),
		"customerTransactionId": uuid.NewString(),
	}
	var out struct {
		ID int64 `json:"id"`
	}
	if err := c.call(ctx, http.MethodPost, "/v1/transfers", reqBody, http.StatusOK, &out); err != nil {
		return "", err
	}
	return domain.TransferID(strconv.FormatInt(out.ID, 10)), nil
}

// Fund settles a previously created transfer from the profile balance and
// returns the gateway's (status, errorCode) pair.
func (c *WiseClient) Fund(ctx context.Context, transfer domain.TransferID) (string, string, error) {
	profileID, err := c.resolveProfileID(ctx)
	if err != nil {
		return "", "", err
	}

	reqBody := map[string]string{"type": "BALANCE"}
	var out struct {
		Status    string `json:"status"`
		ErrorCode string `json:"errorCode"`
	}
	endpoint := fmt.Sprintf("/v3/profiles/%d/transfers/%s/payments", profileID, transfer)
	if err := c.call(ctx, http.MethodPost, endpoint, reqBody, http.StatusCreated, &out); err != nil {
		return "", "", err
	}
	return out.Status, out.ErrorCode, nil
}

// Cancel cancels a pending transfer.
func (c *WiseClient) Cancel(ctx context.Context, transfer domain.TransferID) error {
	endpoint := fmt.Sprintf("/v1/transfers/%s/cancel", transfer)
	return c.call(ctx, http.MethodPut, endpoint, nil, http.StatusOK, nil)
}

func (c *WiseClient) resolveProfileID(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.resolved {
		return c.profileID, nil
	}

	var profiles []struct {
		ID   int64  `json:"id"`
		Type string `json:"type"`
	}
	if err := c.call(ctx, http.MethodGet, "/v2/profiles", nil, http.StatusOK, &profiles); err != nil {
		return 0, err
	}
	for _, profile := range profiles {
		if profile.Type == "PERSONAL" {
			c.profileID = profile.ID
			c.resolved = true
			c.logger.Info("resolved gateway profile", zap.Int64("profile_id", profile.ID))
			return profile.ID, nil
		}
	}
	return 0, apperrors.NewPaymentUnavailable(fmt.Errorf("no PERSONAL profile on gateway account"))
}

// call performs one JSON request against the gateway, retrying once on a
// transient failure.
func (c *WiseClient) call(ctx context.Context, method, endpoint string, body any, wantStatus int, out any) error {
	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		payload = encoded
	}

	err := c.attempt(ctx, method, endpoint, payload, wantStatus, out)
	if err == nil || !apperrors.IsCode(err, "PAYMENT_GATEWAY_UNAVAILABLE") {
		c.metrics.RecordGatewayCall(method+" "+endpoint, err == nil)
		return err
	}

	c.logger.Warn("gateway call failed, retrying",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.Error(err))

	select {
	case <-ctx.Done():
		return apperrors.NewPaymentUnavailable(ctx.Err())
	case <-time.After(c.retryBackoff):
	}
	err = c.attempt(ctx, method, endpoint, payload, wantStatus, out)
	c.metrics.RecordGatewayCall(method+" "+endpoint, err == nil)
	return err
}

func (c *WiseClient) attempt(ctx context.Context, method, endpoint string, payload []byte, wantStatus int, out any) error {
	target := *c.baseURL
	target.Path = path.Join(target.Path, endpoint)

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reqBody)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewPaymentUnavailable(err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != wantStatus {
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return apperrors.NewPaymentRejected("payment provider rejected the request", map[string]any{
				"status": resp.StatusCode,
				"body":   string(respBody),
			})
		}
		return apperrors.NewPaymentUnavailable(fmt.Errorf("unexpected gateway status %s: %s", resp.Status, string(respBody)))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return apperrors.NewPaymentUnavailable(fmt.Errorf("decode gateway response: %w", err))
		}
	}
	return nil
}
