package controllers

import (
	"log"
	"sync"

	"github.com/gofiber/fiber/v2"

	"github.com/FelixBrandt/PressPass/app/models"
	"github.com/FelixBrandt/PressPass/internal/pkg/audit"
	"github.com/FelixBrandt/PressPass/internal/pkg/database"
	"github.com/FelixBrandt/PressPass/internal/pkg/metrics/counter"
	"github.com/FelixBrandt/PressPass/internal/pkg/usercontext"
	"github.com/FelixBrandt/PressPass/internal/pkg/vault"
)

var (
	articleStore     *vault.Store
	articleStoreOnce sync.Once
	articleAudit     *audit.Logger
	articleAuditOnce sync.Once
)

func getArticleStore() *vault.Store {
	articleStoreOnce.Do(func() {
		articleStore = vault.NewStoreFromEnv()
	})
	return articleStore
}

// SetArticleStore overrides the storage backend, used by tests.
func SetArticleStore(s *vault.Store) {
	articleStoreOnce.Do(func() {})
	articleStore = s
}

func getArticleAudit() *audit.Logger {
	articleAuditOnce.Do(func() {
		articleAudit = audit.NewLogger(audit.NewRepository(database.GetDB()))
	})
	return articleAudit
}

// SetArticleAudit overrides the audit logger, used by tests.
func SetArticleAudit(l *audit.Logger) {
	articleAuditOnce.Do(func() {})
	articleAudit = l
}

// HandlePremiumArticle is the final stages of the access gate. Session and
// subscription checks already ran as middleware; here the slug is resolved
// through the registry, the only slug-to-locator resolver, and the content
// is streamed with caching disabled.
func HandlePremiumArticle(c *fiber.Ctx) error {
	slug := c.Params("slug")

	loc, ok := vault.GetRegistry().Resolve(slug)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "not_found",
		})
	}

	body, size, err := getArticleStore().Open(c.Context(), loc)
	if err != nil {
		log.Printf("vault: failed to open %s: %v", slug, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "delivery_failed",
		})
	}

	userCtx := usercontext.GetUserContext(c)
	getArticleAudit().Log(userCtx.UserID, models.AuditResourceAccessed, map[string]interface{}{
		"slug": slug,
		"size": size,
	}, GetClientIP(c))

	if err := counter.AddArticleDelivery(slug); err != nil {
		log.Printf("counter: failed to count delivery for %s: %v", slug, err)
	}

	contentType := loc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "no-store, no-cache, must-revalidate")
	c.Set(fiber.HeaderPragma, "no-cache")

	if size > 0 {
		return c.SendStream(body, int(size))
	}
	return c.SendStream(body)
}
