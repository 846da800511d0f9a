package tenant

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

type tenantsFile struct {
	Tenants []Tenant `json:"tenants"`
}

// Registry is the tenant record store. Domains are kept in a secondary
// index so resolution does not scan every tenant.
type Registry struct {
	mu       sync.RWMutex
	tenants  map[string]*Tenant
	domains  map[string]string // domain -> tenant id
	onRemove []func(tenantID string)
}

func NewRegistry() *Registry {
	return &Registry{
		tenants: make(map[string]*Tenant),
		domains: make(map[string]string),
	}
}

// LoadFromFile reads the tenant store from a JSON file.
func LoadFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tenants config: %w", err)
	}

	var file tenantsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse tenants config: %w", err)
	}

	registry := NewRegistry()
	for i := range file.Tenants {
		registry.Register(&file.Tenants[i])
	}
	return registry, nil
}

func (r *Registry) Register(t *Tenant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tenants[t.ID] = t
	for _, d := range t.Domains {
		r.domains[strings.ToLower(d)] = t.ID
	}
}

func (r *Registry) Get(tenantID string) *Tenant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tenants[tenantID]
}

func (r *Registry) Exists(tenantID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tenants[tenantID]
	return ok
}

// ResolveByDomain finds the tenant serving a domain, nil when no tenant
// claims it.
func (r *Registry) ResolveByDomain(domain string) *Tenant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.domains[strings.ToLower(domain)]
	if !ok {
		return nil
	}
	return r.tenants[id]
}

// OnRemove registers a teardown hook invoked after a tenant is
// deleted. Registered at startup, before the registry serves requests.
func (r *Registry) OnRemove(fn func(tenantID string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onRemove = append(r.onRemove, fn)
}

// Remove deletes a tenant, its domain index entries, and everything
// registered teardown hooks own: the license, usage counters, and the
// tenant's data namespace. Removing an unknown tenant is a no-op.
func (r *Registry) Remove(tenantID string) {
	r.mu.Lock()
	t, ok := r.tenants[tenantID]
	if !ok {
		r.mu.Unlock()
		return
	}
	for _, d := range t.Domains {
		delete(r.domains, strings.ToLower(d))
	}
	delete(r.tenants, tenantID)
	hooks := r.onRemove
	r.mu.Unlock()

	for _, fn := range hooks {
		fn(tenantID)
	}
}

func (r *Registry) All() []*Tenant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*Tenant, 0, len(r.tenants))
	for _, t := range r.tenants {
		result = append(result, t)
	}
	return result
}
