package skipclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// APIError is a non-2xx reply from the routing venue, with the error
// message extracted from the response body when one was present.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API returned status code %d", e.StatusCode)
}

// Client talks to the Skip fungible/tx API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a venue client against the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetRoute requests a route for the given source/destination pair.
func (c *Client) GetRoute(ctx context.Context, req *RouteRequest) (*RouteResponse, error) {
	resp := &RouteResponse{}
	if err := c.do(ctx, http.MethodPost, "/v2/fungible/route", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetMsgs requests the per-chain transaction list realizing a route.
func (c *Client) GetMsgs(ctx context.Context, req *MsgsRequest) (*MsgsResponse, error) {
	resp := &MsgsResponse{}
	if err := c.do(ctx, http.MethodPost, "/v2/fungible/msgs", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Track registers an already-broadcast transaction hash with the venue so
// its status endpoint starts reporting on it.
func (c *Client) Track(ctx context.Context, txHash, chainID string) error {
	return c.do(ctx, http.MethodPost, "/v2/tx/track", &TrackRequest{TxHash: txHash, ChainID: chainID}, nil)
}

// SubmitTx hands a signed transaction blob to the venue for broadcast and
// returns the resulting hash. Used for Solana, where the venue broadcasts.
func (c *Client) SubmitTx(ctx context.Context, tx, chainID string) (string, error) {
	resp := &SubmitResponse{}
	if err := c.do(ctx, http.MethodPost, "/v2/tx/submit", &SubmitRequest{Tx: tx, ChainID: chainID}, resp); err != nil {
		return "", err
	}
	return resp.TxHash, nil
}

// Status fetches the current transfer status for a tracked hash.
func (c *Client) Status(ctx context.Context, txHash, chainID string) (*StatusResponse, error) {
	q := url.Values{}
	q.Set("tx_hash", txHash)
	q.Set("chain_id", chainID)
	resp := &StatusResponse{}
	if err := c.do(ctx, http.MethodGet, "/v2/tx/status?"+q.Encode(), nil, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetChains fetches the venue's supported chain listing.
func (c *Client) GetChains(ctx context.Context) ([]Chain, error) {
	resp := &ChainsResponse{}
	if err := c.do(ctx, http.MethodGet, "/v2/info/chains?include_evm=true&include_svm=true", nil, resp); err != nil {
		return nil, err
	}
	return resp.Chains, nil
}

// GetAssets fetches the venue's asset listing, keyed by chain id.
func (c *Client) GetAssets(ctx context.Context) (*AssetsResponse, error) {
	resp := &AssetsResponse{}
	if err := c.do(ctx, http.MethodGet, "/v2/fungible/assets?include_evm_assets=true&include_svm_assets=true", nil, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return apiErrorFromBody(httpResp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// apiErrorFromBody extracts the venue's error message from a failed reply.
func apiErrorFromBody(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil || len(bodyBytes) == 0 {
		return apiErr
	}

	var errorResp map[string]interface{}
	if jsonErr := json.Unmarshal(bodyBytes, &errorResp); jsonErr == nil {
		if message, ok := errorResp["message"].(string); ok {
			apiErr.Message = message
			return apiErr
		}
		if errs, ok := errorResp["errors"]; ok {
			apiErr.Message = fmt.Sprintf("%v", errs)
			return apiErr
		}
	}
	apiErr.Message = string(bodyBytes)
	return apiErr
}
