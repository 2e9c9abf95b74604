// Package rpc talks to a Solana JSON-RPC node. It covers the small surface a
// signing group needs: account balance, a recent blockhash to sign over,
// transaction submission, confirmation polling, and the devnet faucet.
package rpc

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/kestrel-labs/quorum"
)

// ErrFaucetUnavailable is returned when an airdrop is requested against a
// cluster that has no faucet.
var ErrFaucetUnavailable = errors.New("airdrops are only served on dev and test clusters")

// EndpointForNetwork maps a network tag to its public cluster endpoint.
func EndpointForNetwork(network quorum.Network) (string, error) {
	switch network {
	case quorum.NetworkMain:
		return EndpointMainnet, nil
	case quorum.NetworkDev:
		return EndpointDevnet, nil
	case quorum.NetworkTest:
		return EndpointTestnet, nil
	}
	return "", fmt.Errorf("unknown network %q", network)
}

// Client is a Solana JSON-RPC client with retries on transient failures.
// Safe for concurrent use.
type Client struct {
	endpoint string
	network  quorum.Network
	http     *retryablehttp.Client
	logger   *zap.Logger
	confirm  Config
	nextID   atomic.Uint64
}

// NewClient builds a client from an explicit config.
func NewClient(cfg Config, network quorum.Network, logger *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = cfg.RetryMax
	httpClient.RetryWaitMin = cfg.RetryWaitMin.Duration
	httpClient.RetryWaitMax = cfg.RetryWaitMax.Duration
	httpClient.HTTPClient.Timeout = cfg.RequestTimeout.Duration
	httpClient.Logger = nil

	return &Client{
		endpoint: cfg.Endpoint,
		network:  network,
		http:     httpClient,
		logger:   logger,
		confirm:  cfg,
	}, nil
}

// NewClientForNetwork builds a client against the network's public endpoint
// with default settings.
func NewClientForNetwork(network quorum.Network, logger *zap.Logger) (*Client, error) {
	endpoint, err := EndpointForNetwork(network)
	if err != nil {
		return nil, err
	}
	return NewClient(DefaultConfig(endpoint), network, logger)
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, params []any, result any) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("rpc request", zap.String("method", method), zap.String("endpoint", c.endpoint))
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s failed: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: failed to read response: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", method, resp.StatusCode)
	}

	var envelope rpcResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("%s: malformed response: %w", method, err)
	}
	if envelope.Error != nil {
		return fmt.Errorf("%s: %w", method, envelope.Error)
	}
	if result != nil {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return fmt.Errorf("%s: malformed result: %w", method, err)
		}
	}
	return nil
}

// GetBalance returns the lamport balance of an account.
func (c *Client) GetBalance(ctx context.Context, addr quorum.Address) (uint64, error) {
	var result struct {
		Value uint64 `json:"value"`
	}
	if err := c.call(ctx, "getBalance", []any{addr.String()}, &result); err != nil {
		return 0, err
	}
	return result.Value, nil
}

// LatestBlockhash fetches a recent blockhash for signing. The hash expires
// after roughly a minute, so fetch it right before building the transfer.
func (c *Client) LatestBlockhash(ctx context.Context) (string, error) {
	var result struct {
		Value struct {
			Blockhash string `json:"blockhash"`
		} `json:"value"`
	}
	if err := c.call(ctx, "getLatestBlockhash", []any{map[string]string{"commitment": "finalized"}}, &result); err != nil {
		return "", err
	}
	if result.Value.Blockhash == "" {
		return "", fmt.Errorf("getLatestBlockhash: empty blockhash in response")
	}
	return result.Value.Blockhash, nil
}

// RequestAirdrop asks the cluster faucet to fund an account. Mainnet has no
// faucet; requesting one there fails with ErrFaucetUnavailable before any
// network traffic.
func (c *Client) RequestAirdrop(ctx context.Context, addr quorum.Address, lamports uint64) (string, error) {
	if c.network == quorum.NetworkMain {
		return "", ErrFaucetUnavailable
	}
	var signature string
	if err := c.call(ctx, "requestAirdrop", []any{addr.String(), lamports}, &signature); err != nil {
		return "", err
	}
	c.logger.Info("airdrop requested",
		zap.String("address", addr.String()),
		zap.Uint64("lamports", lamports),
		zap.String("signature", signature))
	return signature, nil
}

// SendTransaction submits a fully signed wire transaction and returns its
// signature string.
func (c *Client) SendTransaction(ctx context.Context, wire []byte) (string, error) {
	encoded := base64.StdEncoding.EncodeToString(wire)
	var signature string
	err := c.call(ctx, "sendTransaction", []any{encoded, map[string]string{"encoding": "base64"}}, &signature)
	if err != nil {
		return "", err
	}
	c.logger.Info("transaction submitted", zap.String("signature", signature))
	return signature, nil
}

// ConfirmTransaction reports whether the transaction has reached at least
// confirmed commitment.
func (c *Client) ConfirmTransaction(ctx context.Context, signature string) (bool, error) {
	var result struct {
		Value []*struct {
			ConfirmationStatus string `json:"confirmationStatus"`
			Err                any    `json:"err"`
		} `json:"value"`
	}
	err := c.call(ctx, "getSignatureStatuses", []any{[]string{signature}}, &result)
	if err != nil {
		return false, err
	}
	if len(result.Value) == 0 || result.Value[0] == nil {
		return false, nil
	}
	status := result.Value[0]
	if status.Err != nil {
		return false, fmt.Errorf("transaction %s failed on chain: %v", signature, status.Err)
	}
	return status.ConfirmationStatus == "confirmed" || status.ConfirmationStatus == "finalized", nil
}

// WaitForConfirmation polls until the transaction confirms, the configured
// confirmation timeout elapses, or ctx is done.
func (c *Client) WaitForConfirmation(ctx context.Context, signature string) error {
	deadline := time.Now().Add(c.confirm.ConfirmTimeout.Duration)
	ticker := time.NewTicker(c.confirm.ConfirmPollInterval.Duration)
	defer ticker.Stop()

	for {
		confirmed, err := c.ConfirmTransaction(ctx, signature)
		if err != nil {
			return err
		}
		if confirmed {
			c.logger.Info("transaction confirmed", zap.String("signature", signature))
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("transaction %s not confirmed within %s", signature, c.confirm.ConfirmTimeout.Duration)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
