// Package paygate is the client for the external payment gateway that
// executes prize transfers. The engine submits transfer requests and
// records outcomes; custody and on-chain execution live entirely behind
// this boundary.
package paygate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/config"
)

// Gateway is the transfer interface the payout tracker depends on.
type Gateway interface {
	Transfer(ctx context.Context, req *TransferRequest) (*TransferResult, error)
}

// TransferRequest asks the gateway to move a prize to a wallet. The
// idempotency key is the payout ID, so a retried transfer can never pay
// twice on the gateway side either.
type TransferRequest struct {
	IdempotencyKey string `json:"idempotencyKey"`
	WalletAddress  string `json:"walletAddress"`
	Amount         int64  `json:"amount"`
}

// TransferResult is the gateway's acknowledgement of a transfer.
type TransferResult struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

// Client is an HTTP client for the payment gateway
type Client struct {
	BaseURL    string
	APIKey     string
	httpClient *http.Client
	Mock       bool
}

var _ Gateway = (*Client)(nil)

// NewClient creates a new payment gateway client
func NewClient(cfg *config.Config) *Client {
	return &Client{
		BaseURL: cfg.Paygate.BaseURL,
		APIKey:  cfg.Paygate.APIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		Mock: cfg.Paygate.Mock,
	}
}

// Transfer executes one prize transfer
func (c *Client) Transfer(ctx context.Context, req *TransferRequest) (*TransferResult, error) {
	if c.Mock {
		log.Printf("[MOCK] Paygate transfer of %d to %s (key %s)", req.Amount, req.WalletAddress, req.IdempotencyKey)
		return &TransferResult{
			Reference: "MOCK-" + uuid.NewString(),
			Status:    "confirmed",
		}, nil
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transfer request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/transfers", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create transfer request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("transfer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("paygate returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result TransferResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode transfer response: %w", err)
	}
	return &result, nil
}
