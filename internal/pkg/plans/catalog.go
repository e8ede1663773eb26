package plans

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/FelixBrandt/PressPass/internal/pkg/env"
)

// Plan describes a purchasable membership plan. Prices are integer minor
// currency units (cents). The catalog is external configuration and is
// immutable once loaded.
type Plan struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Price        int64    `json:"price"`
	Currency     string   `json:"currency"`
	DurationDays int      `json:"duration_days"`
	ArticleLimit int      `json:"article_limit"`
	Features     []string `json:"features"`
}

// PublicPlan is the caller-facing projection of a plan. Internal limits such
// as fraud thresholds never appear here.
type PublicPlan struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Price        int64    `json:"price"`
	Currency     string   `json:"currency"`
	DurationDays int      `json:"duration_days"`
	Features     []string `json:"features"`
}

// Catalog is an immutable planID -> Plan mapping.
type Catalog struct {
	plans map[string]Plan
}

var (
	catalog     *Catalog
	catalogOnce sync.Once
)

// NewCatalog builds a catalog from a plan list. Duplicate IDs are rejected.
func NewCatalog(list []Plan) (*Catalog, error) {
	m := make(map[string]Plan, len(list))
	for _, p := range list {
		if p.ID == "" {
			return nil, fmt.Errorf("plan with empty id")
		}
		if _, exists := m[p.ID]; exists {
			return nil, fmt.Errorf("duplicate plan id %q", p.ID)
		}
		if p.Price < 0 || p.DurationDays <= 0 {
			return nil, fmt.Errorf("plan %q has invalid price or duration", p.ID)
		}
		m[p.ID] = p
	}
	return &Catalog{plans: m}, nil
}

// LoadCatalogFile reads a JSON plan list from disk.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan catalog: %w", err)
	}
	var list []Plan
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse plan catalog: %w", err)
	}
	return NewCatalog(list)
}

// SetupCatalog loads the catalog from PLAN_CATALOG_FILE or falls back to the
// built-in default plans. Panics on a broken catalog file since the service
// cannot price anything without it.
func SetupCatalog() {
	catalogOnce.Do(func() {
		path := env.GetEnv("PLAN_CATALOG_FILE", "")
		if path == "" {
			c, err := NewCatalog(defaultPlans())
			if err != nil {
				panic(err)
			}
			catalog = c
			return
		}
		c, err := LoadCatalogFile(path)
		if err != nil {
			panic(err)
		}
		catalog = c
	})
}

// GetCatalog returns the global catalog instance.
func GetCatalog() *Catalog {
	if catalog == nil {
		SetupCatalog()
	}
	return catalog
}

// SetCatalog overrides the global catalog, used by tests.
func SetCatalog(c *Catalog) {
	catalog = c
}

// GetPlan looks up a plan by id; the second return value is false when the
// id is unknown.
func (c *Catalog) GetPlan(id string) (Plan, bool) {
	p, ok := c.plans[id]
	return p, ok
}

// ListPublic returns the caller-facing view of all plans, sorted by price.
func (c *Catalog) ListPublic() []PublicPlan {
	out := make([]PublicPlan, 0, len(c.plans))
	for _, p := range c.plans {
		out = append(out, PublicPlan{
			ID:           p.ID,
			Name:         p.Name,
			Price:        p.Price,
			Currency:     p.Currency,
			DurationDays: p.DurationDays,
			Features:     p.Features,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out
}

func defaultPlans() []Plan {
	return []Plan{
		{
			ID:           "starter",
			Name:         "Starter",
			Price:        9800,
			Currency:     "EUR",
			DurationDays: 30,
			ArticleLimit: 50,
			Features:     []string{"premium_articles"},
		},
		{
			ID:           "annual",
			Name:         "Annual",
			Price:        89800,
			Currency:     "EUR",
			DurationDays: 365,
			ArticleLimit: 0,
			Features:     []string{"premium_articles", "archive_access"},
		},
	}
}
