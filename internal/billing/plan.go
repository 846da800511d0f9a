package billing

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Plan is an immutable catalog entry.
type Plan struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Price    int64            `json:"price"` // smallest currency unit
	Currency string           `json:"currency"`
	Interval string           `json:"interval"` // "month" or "year"
	Features []string         `json:"features"`
	Limits   map[string]int64 `json:"limits"`
	Popular  bool             `json:"popular"`
}

type plansFile struct {
	Plans []Plan `json:"plans"`
}

// Catalog is the static plan registry.
type Catalog struct {
	mu    sync.RWMutex
	plans map[string]*Plan
}

func NewCatalog() *Catalog {
	return &Catalog{plans: make(map[string]*Plan)}
}

// LoadCatalog reads the plan catalog from a JSON file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan catalog: %w", err)
	}

	var file plansFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse plan catalog: %w", err)
	}

	catalog := NewCatalog()
	for i := range file.Plans {
		catalog.Register(&file.Plans[i])
	}
	return catalog, nil
}

func (c *Catalog) Register(p *Plan) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.plans[p.ID] = p
}

func (c *Catalog) Get(planID string) *Plan {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.plans[planID]
}

func (c *Catalog) All() []*Plan {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]*Plan, 0, len(c.plans))
	for _, p := range c.plans {
		result = append(result, p)
	}
	return result
}
