// Package taxcore is the client for the upstream tax-core API. All business
// logic (authentication, tax computation, bank verification) lives there;
// this client only shapes requests, attaches the caller's bearer credential
// and classifies failures.
package taxcore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"etax-gateway/src/models"
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NetworkError means no response was received at all.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("taxcore: no response from upstream: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RemoteError is a non-2xx response. Message carries the server-supplied
// message when one was present in the body.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("taxcore: upstream returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("taxcore: upstream returned %d", e.StatusCode)
}

// DecodeError means the upstream answered 2xx but the body was not in a
// shape this client accepts.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return "taxcore: cannot decode upstream response: " + e.Reason
}

type AddBankResult struct {
	Message string `json:"message"`
}

func (c *Client) Login(ctx context.Context, req models.LoginRequest) (json.RawMessage, error) {
	return c.doJSON(ctx, "", http.MethodPost, "/login", req)
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (json.RawMessage, error) {
	return c.doJSON(ctx, "", http.MethodPost, "/register", req)
}

func (c *Client) Logout(ctx context.Context, token string) error {
	_, err := c.doJSON(ctx, token, http.MethodPost, "/logout", nil)
	return err
}

func (c *Client) GetUser(ctx context.Context, token string) (json.RawMessage, error) {
	return c.doJSON(ctx, token, http.MethodGet, "/user", nil)
}

func (c *Client) UpdateProfile(ctx context.Context, token string, req models.ProfileUpdateRequest) (json.RawMessage, error) {
	return c.doJSON(ctx, token, http.MethodPost, "/user/update-profile", req)
}

func (c *Client) GetQrBank(ctx context.Context, token string) (json.RawMessage, error) {
	return c.doJSON(ctx, token, http.MethodGet, "/qr-bank", nil)
}

func (c *Client) ListBanks(ctx context.Context, token string) ([]models.Bank, error) {
	body, err := c.doJSON(ctx, token, http.MethodGet, "/banks", nil)
	if err != nil {
		return nil, err
	}

	list, err := unwrapList(body)
	if err != nil {
		return nil, err
	}

	var banks []models.Bank
	if err := json.Unmarshal(list, &banks); err != nil {
		return nil, &DecodeError{Reason: err.Error()}
	}
	return banks, nil
}

func (c *Client) ListLinkedAccounts(ctx context.Context, token string) ([]models.LinkedAccount, error) {
	body, err := c.doJSON(ctx, token, http.MethodGet, "/user/list-bank", nil)
	if err != nil {
		return nil, err
	}

	list, err := unwrapList(body)
	if err != nil {
		return nil, err
	}

	var accounts []models.LinkedAccount
	if err := json.Unmarshal(list, &accounts); err != nil {
		return nil, &DecodeError{Reason: err.Error()}
	}
	return accounts, nil
}

func (c *Client) AddBank(ctx context.Context, token string, req models.LinkRequest) (*AddBankResult, error) {
	body, err := c.doJSON(ctx, token, http.MethodPost, "/user/add-bank", req)
	if err != nil {
		return nil, err
	}

	var result AddBankResult
	if len(body) > 0 {
		// The success envelope's message is optional; a missing or
		// unexpected body is not an error here.
		_ = json.Unmarshal(body, &result)
	}
	return &result, nil
}

// ProxyIdentityVerification forwards a multipart identity-document upload
// untouched. Verification itself happens upstream.
func (c *Client) ProxyIdentityVerification(ctx context.Context, token, contentType string, body io.Reader) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/identity-verification", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	return c.send(req)
}

func (c *Client) doJSON(ctx context.Context, token, method, path string, payload interface{}) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.send(req)
}

func (c *Client) send(req *http.Request) (json.RawMessage, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var failure struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &failure)
		return nil, &RemoteError{StatusCode: resp.StatusCode, Message: failure.Message}
	}

	return raw, nil
}

// unwrapList accepts the two list shapes the upstream is known to produce:
// a bare JSON array, or an envelope with the array under a "data" key.
func unwrapList(raw []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return trimmed, nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, &DecodeError{Reason: err.Error()}
	}

	data := bytes.TrimSpace(envelope.Data)
	if len(data) > 0 && data[0] == '[' {
		return data, nil
	}
	return nil, &DecodeError{Reason: "expected an array or a data envelope"}
}
