package controllers

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FelixBrandt/PressPass/app/models"
	"github.com/FelixBrandt/PressPass/internal/pkg/audit"
	"github.com/FelixBrandt/PressPass/internal/pkg/middleware"
	"github.com/FelixBrandt/PressPass/internal/pkg/usercontext"
	"github.com/FelixBrandt/PressPass/internal/pkg/vault"
)

// fakeArticleBackend serves canned content and counts how often it is asked
// to open anything.
type fakeArticleBackend struct {
	content map[string]string
	opens   int
}

func (f *fakeArticleBackend) Open(_ context.Context, loc vault.Locator) (io.ReadCloser, int64, error) {
	f.opens++
	body, ok := f.content[loc.Path]
	if !ok {
		return nil, 0, fmt.Errorf("no object at %s", loc.Path)
	}
	return io.NopCloser(strings.NewReader(body)), int64(len(body)), nil
}

type recordingAuditRepo struct {
	entries []models.AuditEntry
}

func (r *recordingAuditRepo) Create(entry *models.AuditEntry) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func setupArticleFixtures(t *testing.T) (*fakeArticleBackend, *recordingAuditRepo) {
	t.Helper()

	backend := &fakeArticleBackend{content: map[string]string{
		"2026/deep-dive.pdf": "premium pdf bytes",
	}}
	SetArticleStore(vault.NewStore(backend, nil))

	vault.SetRegistry(vault.NewRegistry(map[string]vault.Locator{
		"deep-dive-2026": {Backend: "local", Path: "2026/deep-dive.pdf", ContentType: "application/pdf"},
	}))

	auditRepo := &recordingAuditRepo{}
	SetArticleAudit(audit.NewLogger(auditRepo))

	return backend, auditRepo
}

func asReader(userID uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
			UserID:     userID,
			Username:   "reader",
			IsLoggedIn: true,
		})
		c.Locals(usercontext.KeyFromProtected, true)
		return c.Next()
	}
}

func TestPremiumArticleUnknownSlugIs404(t *testing.T) {
	backend, _ := setupArticleFixtures(t)

	app := fiber.New()
	app.Get("/premium/:slug", asReader(42), HandlePremiumArticle)

	resp, err := app.Test(httptest.NewRequest("GET", "/premium/no-such-article", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// The registry is the only resolver; an unregistered slug never reaches
	// the storage backend.
	assert.Equal(t, 0, backend.opens)
}

func TestPremiumArticleDelivery(t *testing.T) {
	_, auditRepo := setupArticleFixtures(t)

	app := fiber.New()
	app.Get("/premium/:slug", asReader(42), HandlePremiumArticle)

	resp, err := app.Test(httptest.NewRequest("GET", "/premium/deep-dive-2026", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "premium pdf bytes", string(body))

	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, "no-store, no-cache, must-revalidate", resp.Header.Get(fiber.HeaderCacheControl))
	assert.Equal(t, "no-cache", resp.Header.Get(fiber.HeaderPragma))

	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, models.AuditResourceAccessed, auditRepo.entries[0].Action)
	assert.Equal(t, uint(42), auditRepo.entries[0].UserID)
}

// Full gate pipeline: the stages must fail in order. An anonymous caller gets
// 401 without a ledger lookup; a subscriber-less caller gets the same 403 for
// a registered and an unregistered slug, so resource existence is never
// learnable before stage three; only a subscriber can reach 404 or content.
func TestPremiumArticleGateOrdering(t *testing.T) {
	backend, _ := setupArticleFixtures(t)

	lookups := 0
	middleware.SetActiveSubscriptionFinder(func(id uint) (*models.Subscription, error) {
		lookups++
		return nil, nil
	})

	app := fiber.New()
	app.Get("/premium/:slug",
		middleware.RequireAPISessionAuth,
		middleware.RequireActiveSubscription,
		HandlePremiumArticle,
	)

	resp, err := app.Test(httptest.NewRequest("GET", "/premium/deep-dive-2026", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 0, lookups)

	app = fiber.New()
	app.Get("/premium/:slug",
		asReader(42),
		middleware.RequireAPISessionAuth,
		middleware.RequireActiveSubscription,
		HandlePremiumArticle,
	)

	for _, slug := range []string{"deep-dive-2026", "no-such-article"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/premium/"+slug, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, "slug %q", slug)
	}
	assert.Equal(t, 0, backend.opens)

	middleware.SetActiveSubscriptionFinder(func(id uint) (*models.Subscription, error) {
		return &models.Subscription{
			ID:        1,
			UserID:    id,
			PlanID:    "starter",
			Status:    models.SubscriptionStatusActive,
			ExpiresAt: time.Now().Add(time.Hour),
		}, nil
	})

	resp, err = app.Test(httptest.NewRequest("GET", "/premium/no-such-article", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/premium/deep-dive-2026", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
