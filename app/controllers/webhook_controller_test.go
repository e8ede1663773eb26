package controllers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWebhookTestApp() *fiber.App {
	app := fiber.New()
	app.Post("/webhooks/payment", HandlePaymentWebhook)
	return app
}

func sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// The signature gate runs before any persistence, so these paths are fully
// testable without a database: an unauthenticated delivery must produce 401
// and nothing else.
func TestWebhookRejectsMissingSignature(t *testing.T) {
	t.Setenv("PAYMENT_WEBHOOK_SECRET", "whsec_test")
	app := newWebhookTestApp()

	req := httptest.NewRequest("POST", "/webhooks/payment", bytes.NewReader([]byte(`{"status":"success"}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestWebhookRejectsInvalidSignature(t *testing.T) {
	t.Setenv("PAYMENT_WEBHOOK_SECRET", "whsec_test")
	app := newWebhookTestApp()

	body := []byte(`{"status":"success","token":"tok-1","amount":"98.00"}`)
	req := httptest.NewRequest("POST", "/webhooks/payment", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Payment-Signature", sign(body, "wrong_secret"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestWebhookRejectsTamperedBody(t *testing.T) {
	t.Setenv("PAYMENT_WEBHOOK_SECRET", "whsec_test")
	app := newWebhookTestApp()

	signed := []byte(`{"status":"success","token":"tok-1","amount":"98.00"}`)
	tampered := []byte(`{"status":"success","token":"tok-1","amount":"0.01"}`)

	req := httptest.NewRequest("POST", "/webhooks/payment", bytes.NewReader(tampered))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Payment-Signature", sign(signed, "whsec_test"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestWebhookRejectsWhenSecretUnconfigured(t *testing.T) {
	t.Setenv("PAYMENT_WEBHOOK_SECRET", "")
	app := newWebhookTestApp()

	body := []byte(`{"status":"success","token":"tok-1","amount":"98.00"}`)
	req := httptest.NewRequest("POST", "/webhooks/payment", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Payment-Signature", sign(body, ""))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
