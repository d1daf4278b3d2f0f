package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// VerifyWebhook checks the X-Shopify-Hmac-Sha256 header against the raw
// request body. Comparison is constant-time.
func VerifyWebhook(rawBody []byte, signatureHeader, secret string) bool {
	if signatureHeader == "" || secret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	digest := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(digest), []byte(signatureHeader))
}
