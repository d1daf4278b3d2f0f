package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ordersync/internal/logger"
)

const apiVersion = "2024-01"

// ordersPageSize is the fixed catalog page size. The upstream cursor is
// opaque; it is threaded between calls unchanged.
const ordersPageSize = 10

type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	logger      *logger.Logger
}

func NewClient(shopDomain, accessToken string, logger *logger.Logger) *Client {
	return &Client{
		baseURL:     fmt.Sprintf("https://%s.myshopify.com", shopDomain),
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

const ordersQueryTemplate = `{
  orders(first: %d%s) {
    edges {
      cursor
      node {
        id
        name
        createdAt
        closed
        totalPriceSet { shopMoney { amount currencyCode } }
        customer { id email firstName lastName }
        lineItems(first: 100) {
          edges {
            node {
              title
              quantity
              sku
              originalUnitPriceSet { shopMoney { amount currencyCode } }
              product { id }
              variant { id }
            }
          }
        }
        shippingAddress { firstName lastName address1 address2 city province zip country phone }
        billingAddress { firstName lastName address1 address2 city province zip country phone }
      }
    }
    pageInfo {
      hasNextPage
      endCursor
    }
  }
}`

// FetchOrders fetches one page of orders from the GraphQL admin API.
// Returns *RateLimitError when throttled and *UpstreamError for everything
// else that is not a clean page.
func (c *Client) FetchOrders(ctx context.Context, cursor string) (*OrderPage, error) {
	afterClause := ""
	if cursor != "" {
		afterClause = fmt.Sprintf(", after: %q", cursor)
	}
	query := fmt.Sprintf(ordersQueryTemplate, ordersPageSize, afterClause)

	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, &UpstreamError{Message: fmt.Sprintf("failed to encode query: %v", err)}
	}

	url := fmt.Sprintf("%s/admin/api/%s/graphql.json", c.baseURL, apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &UpstreamError{Message: fmt.Sprintf("failed to create request: %v", err)}
	}
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &RateLimitError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	var envelope struct {
		Data struct {
			Orders struct {
				Edges []struct {
					Cursor string    `json:"cursor"`
					Node   OrderNode `json:"node"`
				} `json:"edges"`
				PageInfo struct {
					HasNextPage bool   `json:"hasNextPage"`
					EndCursor   string `json:"endCursor"`
				} `json:"pageInfo"`
			} `json:"orders"`
		} `json:"data"`
		Errors []struct {
			Message    string `json:"message"`
			Extensions struct {
				Code string `json:"code"`
			} `json:"extensions"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &UpstreamError{Message: fmt.Sprintf("failed to decode response: %v", err)}
	}

	if len(envelope.Errors) > 0 {
		for _, gqlErr := range envelope.Errors {
			if gqlErr.Extensions.Code == "THROTTLED" {
				return nil, &RateLimitError{}
			}
		}
		return nil, &UpstreamError{Message: envelope.Errors[0].Message}
	}

	page := &OrderPage{
		Orders:      make([]OrderNode, 0, len(envelope.Data.Orders.Edges)),
		EndCursor:   envelope.Data.Orders.PageInfo.EndCursor,
		HasNextPage: envelope.Data.Orders.PageInfo.HasNextPage,
	}
	for _, edge := range envelope.Data.Orders.Edges {
		page.Orders = append(page.Orders, edge.Node)
	}

	c.logger.Debug("Fetched %d orders (hasNextPage=%v)", len(page.Orders), page.HasNextPage)
	return page, nil
}

func parseRetryAfter(header string) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0
	}
	// Shopify sends fractional seconds
	seconds, err := strconv.ParseFloat(header, 64)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}
