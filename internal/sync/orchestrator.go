package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ordersync/internal/logger"
	"ordersync/internal/notify"
	"ordersync/internal/services/shopify"
)

// CatalogClient is the read side of the upstream catalog.
type CatalogClient interface {
	FetchOrders(ctx context.Context, cursor string) (*shopify.OrderPage, error)
}

// Summary is the result of one full-sync run. It is returned to the caller
// even when the run terminates early.
type Summary struct {
	Processed int      `json:"totalOrdersProcessed"`
	Created   int      `json:"totalOrdersCreated"`
	Updated   int      `json:"totalOrdersUpdated"`
	Errors    []string `json:"errors"`
}

// Orchestrator drives a full catalog walk: pages and records strictly in
// cursor order, one logical worker, pacing delays between records and
// pages, bounded backoff on upstream throttling.
type Orchestrator struct {
	client     CatalogClient
	normalizer *shopify.Normalizer
	reconciler *Reconciler
	notifier   notify.Notifier
	logger     *logger.Logger

	policy      RetryPolicy
	recordDelay time.Duration
	pageDelay   time.Duration
}

func NewOrchestrator(client CatalogClient, reconciler *Reconciler, notifier notify.Notifier, logger *logger.Logger, policy RetryPolicy, recordDelay, pageDelay time.Duration) *Orchestrator {
	return &Orchestrator{
		client:      client,
		normalizer:  shopify.NewNormalizer(),
		reconciler:  reconciler,
		notifier:    notifier,
		logger:      logger,
		policy:      policy,
		recordDelay: recordDelay,
		pageDelay:   pageDelay,
	}
}

// Run walks every catalog page and reconciles each record. Per-record
// failures are collected and never abort the run; page-fetch failures
// (including exhausted rate-limit retries) terminate it with the partial
// summary. The summary is never discarded.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{Errors: []string{}}

	o.notifier.SyncStatus(ctx, true)
	defer o.notifier.SyncStatus(context.WithoutCancel(ctx), false)

	cursor := ""
	for {
		if err := ctx.Err(); err != nil {
			summary.Errors = append(summary.Errors, err.Error())
			return summary, err
		}

		page, err := o.fetchPage(ctx, cursor)
		if err != nil {
			o.logger.Error("Sync run aborted: %v", err)
			summary.Errors = append(summary.Errors, err.Error())
			return summary, err
		}

		for i := range page.Orders {
			if err := ctx.Err(); err != nil {
				summary.Errors = append(summary.Errors, err.Error())
				return summary, err
			}
			o.processRecord(ctx, &page.Orders[i], summary)
			if err := sleepContext(ctx, o.recordDelay); err != nil {
				summary.Errors = append(summary.Errors, err.Error())
				return summary, err
			}
		}

		if !page.HasNextPage {
			break
		}
		cursor = page.EndCursor
		if err := sleepContext(ctx, o.pageDelay); err != nil {
			summary.Errors = append(summary.Errors, err.Error())
			return summary, err
		}
	}

	o.logger.Info("Sync complete: processed=%d created=%d updated=%d errors=%d",
		summary.Processed, summary.Created, summary.Updated, len(summary.Errors))
	return summary, nil
}

// fetchPage retries the same cursor on rate limiting, up to the policy's
// attempt budget. Any other fetch error is terminal immediately.
func (o *Orchestrator) fetchPage(ctx context.Context, cursor string) (*shopify.OrderPage, error) {
	for attempt := 0; ; attempt++ {
		page, err := o.client.FetchOrders(ctx, cursor)
		if err == nil {
			return page, nil
		}

		var rateLimited *shopify.RateLimitError
		if !errors.As(err, &rateLimited) {
			return nil, fmt.Errorf("page fetch failed: %w", err)
		}
		if attempt+1 >= o.policy.MaxAttempts {
			return nil, fmt.Errorf("rate limited after %d attempts: %w", o.policy.MaxAttempts, err)
		}

		delay := o.policy.Delay(attempt+1, rateLimited.RetryAfter)
		o.logger.Info("Rate limited, backing off %s (attempt %d/%d)", delay, attempt+1, o.policy.MaxAttempts)
		if err := sleepContext(ctx, delay); err != nil {
			return nil, err
		}
	}
}

func (o *Orchestrator) processRecord(ctx context.Context, node *shopify.OrderNode, summary *Summary) {
	normalized, err := o.normalizer.NormalizeOrderNode(node)
	if err != nil {
		o.logger.Error("Skipping record: %v", err)
		summary.Errors = append(summary.Errors, err.Error())
		return
	}

	existed, err := o.reconciler.Exists(ctx, normalized.ExternalID)
	if err != nil {
		summary.Errors = append(summary.Errors, err.Error())
		return
	}

	if _, err := o.reconciler.Reconcile(ctx, normalized); err != nil {
		o.logger.Error("Skipping record: %v", err)
		summary.Errors = append(summary.Errors, err.Error())
		return
	}

	summary.Processed++
	if existed {
		summary.Updated++
		o.notifier.OrderUpdated(ctx)
	} else {
		summary.Created++
		o.notifier.OrderCreated(ctx)
	}
}
