package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// client posts generated records to the service API.
type client struct {
	http    *http.Client
	baseURL string
}

func newClient(baseURL string, timeout time.Duration) *client {
	return &client{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

func (c *client) post(ctx context.Context, path string, body any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("POST %s: status %d: %s", path, resp.StatusCode, string(out))
	}
	return out, nil
}

// postForID posts body and returns the id field of the created record.
func (c *client) postForID(ctx context.Context, path string, body any) (string, error) {
	out, err := c.post(ctx, path, body)
	if err != nil {
		return "", err
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(out, &created); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return created.ID, nil
}

func (c *client) createVessel(ctx context.Context, body any) (string, error) {
	return c.postForID(ctx, "/vessels", body)
}

func (c *client) createCrew(ctx context.Context, body any) (string, error) {
	return c.postForID(ctx, "/crew", body)
}

func (c *client) createCertificate(ctx context.Context, body any) error {
	_, err := c.post(ctx, "/certificates", body)
	return err
}

func (c *client) createContract(ctx context.Context, body any) error {
	_, err := c.post(ctx, "/contracts", body)
	return err
}

func (c *client) createWorkRest(ctx context.Context, body any) error {
	_, err := c.post(ctx, "/crew/work-rest-hours", body)
	return err
}
