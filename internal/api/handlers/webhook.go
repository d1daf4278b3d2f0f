package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ordersync/internal/logger"
	"ordersync/internal/notify"
	"ordersync/internal/services/shopify"
	"ordersync/internal/sync"
)

type WebhookHandler struct {
	reconciler *sync.Reconciler
	normalizer *shopify.Normalizer
	notifier   notify.Notifier
	client     *shopify.Client
	secret     string
	appURL     string
	logger     *logger.Logger
}

func NewWebhookHandler(reconciler *sync.Reconciler, notifier notify.Notifier, client *shopify.Client, secret, appURL string, logger *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		reconciler: reconciler,
		normalizer: shopify.NewNormalizer(),
		notifier:   notifier,
		client:     client,
		secret:     secret,
		appURL:     appURL,
		logger:     logger,
	}
}

// OrdersCreate applies an orders/create event through the same snapshot
// reconciliation used by the full sync.
func (h *WebhookHandler) OrdersCreate(c *gin.Context) {
	rawBody, ok := h.verifiedBody(c)
	if !ok {
		return
	}

	var payload shopify.OrderWebhookPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		c.String(http.StatusBadRequest, "Bad Request")
		return
	}

	normalized, err := h.normalizer.NormalizeWebhookOrder(&payload)
	if err != nil {
		h.logger.Error("Rejected order create webhook: %v", err)
		c.String(http.StatusBadRequest, "Bad Request")
		return
	}

	existed, err := h.reconciler.Exists(c.Request.Context(), normalized.ExternalID)
	if err != nil {
		h.logger.Error("Failed to process order create webhook: %v", err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if _, err := h.reconciler.Reconcile(c.Request.Context(), normalized); err != nil {
		h.logger.Error("Failed to process order create webhook: %v", err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if existed {
		h.notifier.OrderUpdated(c.Request.Context())
	} else {
		h.notifier.OrderCreated(c.Request.Context())
	}
	c.String(http.StatusOK, "OK")
}

// OrdersEdited applies line-item quantity deltas to an existing order.
func (h *WebhookHandler) OrdersEdited(c *gin.Context) {
	rawBody, ok := h.verifiedBody(c)
	if !ok {
		return
	}

	var payload shopify.OrderEditPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		c.String(http.StatusBadRequest, "Bad Request")
		return
	}

	externalID := strconv.FormatInt(payload.ID, 10)
	err := h.reconciler.ApplyLineItemDeltas(c.Request.Context(), externalID,
		payload.LineItems.Additions, payload.LineItems.Removals)
	if errors.Is(err, sync.ErrOrderNotFound) {
		c.String(http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		h.logger.Error("Failed to process order edit webhook: %v", err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	h.notifier.OrderUpdated(c.Request.Context())
	c.String(http.StatusOK, "OK")
}

// List returns the webhook subscriptions registered upstream.
func (h *WebhookHandler) List(c *gin.Context) {
	webhooks, err := h.client.ListWebhooks(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to fetch webhooks: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch webhooks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"webhooks": webhooks})
}

// Register subscribes the create and edit topics to this app.
func (h *WebhookHandler) Register(c *gin.Context) {
	topics := map[string]string{
		"orders/create": h.appURL + "/api/v1/webhooks/orders-create",
		"orders/edited": h.appURL + "/api/v1/webhooks/orders-edited",
	}

	registered := make([]shopify.Webhook, 0, len(topics))
	for topic, address := range topics {
		webhook, err := h.client.RegisterWebhook(c.Request.Context(), topic, address)
		if err != nil {
			h.logger.Error("Webhook registration failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register webhooks"})
			return
		}
		registered = append(registered, *webhook)
	}
	c.JSON(http.StatusOK, gin.H{"webhooks": registered})
}

// DeleteAll removes every webhook subscription for this app.
func (h *WebhookHandler) DeleteAll(c *gin.Context) {
	webhooks, err := h.client.ListWebhooks(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to fetch webhooks: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete webhooks"})
		return
	}

	for _, webhook := range webhooks {
		if err := h.client.DeleteWebhook(c.Request.Context(), webhook.ID); err != nil {
			h.logger.Error("Webhook deletion failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete webhooks"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"webhooks": webhooks})
}

// verifiedBody reads the raw body and checks the HMAC header. An invalid
// signature never reaches the reconciler.
func (h *WebhookHandler) verifiedBody(c *gin.Context) ([]byte, bool) {
	rawBody, err := c.GetRawData()
	if err != nil {
		c.String(http.StatusBadRequest, "Bad Request")
		return nil, false
	}

	signature := c.GetHeader("X-Shopify-Hmac-Sha256")
	if !shopify.VerifyWebhook(rawBody, signature, h.secret) {
		c.String(http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}
	return rawBody, true
}
