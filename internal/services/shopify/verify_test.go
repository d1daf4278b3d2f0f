package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhook(t *testing.T) {
	body := []byte(`{"id":5001}`)
	secret := "shpss_test_secret"

	assert.True(t, VerifyWebhook(body, sign(body, secret), secret))
	assert.False(t, VerifyWebhook(body, sign(body, "wrong-secret"), secret))
	assert.False(t, VerifyWebhook(body, "garbage", secret))
	assert.False(t, VerifyWebhook(body, "", secret))
	assert.False(t, VerifyWebhook(body, sign(body, secret), ""))
	assert.False(t, VerifyWebhook([]byte(`tampered`), sign(body, secret), secret))
}
