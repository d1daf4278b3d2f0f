package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ListWebhooks returns the webhook subscriptions registered with the shop.
func (c *Client) ListWebhooks(ctx context.Context) ([]Webhook, error) {
	url := fmt.Sprintf("%s/admin/api/%s/webhooks.json", c.baseURL, apiVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed: %d - %s", resp.StatusCode, string(body))
	}

	var webhooksResp struct {
		Webhooks []Webhook `json:"webhooks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&webhooksResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return webhooksResp.Webhooks, nil
}

// RegisterWebhook subscribes the given address to a topic (json format).
func (c *Client) RegisterWebhook(ctx context.Context, topic, address string) (*Webhook, error) {
	url := fmt.Sprintf("%s/admin/api/%s/webhooks.json", c.baseURL, apiVersion)

	payload := struct {
		Webhook Webhook `json:"webhook"`
	}{
		Webhook: Webhook{Topic: topic, Address: address, Format: "json"},
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal webhook: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed: %d - %s", resp.StatusCode, string(body))
	}

	var webhookResp struct {
		Webhook Webhook `json:"webhook"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&webhookResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &webhookResp.Webhook, nil
}

// DeleteWebhook removes one webhook subscription by id.
func (c *Client) DeleteWebhook(ctx context.Context, id int64) error {
	url := fmt.Sprintf("%s/admin/api/%s/webhooks/%d.json", c.baseURL, apiVersion, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API request failed: %d - %s", resp.StatusCode, string(body))
	}
	return nil
}
