package tenant

import "sync"

// DataManager is a per-tenant isolated key/value store. Isolation is
// the invariant: no key written for one tenant is ever visible to
// another.
type DataManager struct {
	mu   sync.RWMutex
	data map[string]map[string]any
}

func NewDataManager() *DataManager {
	return &DataManager{data: make(map[string]map[string]any)}
}

func (m *DataManager) SetData(tenantID, key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ns, ok := m.data[tenantID]
	if !ok {
		ns = make(map[string]any)
		m.data[tenantID] = ns
	}
	ns[key] = value
}

func (m *DataManager) GetData(tenantID, key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ns, ok := m.data[tenantID]
	if !ok {
		return nil, false
	}
	value, ok := ns[key]
	return value, ok
}

func (m *DataManager) DeleteData(tenantID, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ns, ok := m.data[tenantID]; ok {
		delete(ns, key)
	}
}

// Purge drops a tenant's entire namespace on tenant deletion.
func (m *DataManager) Purge(tenantID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, tenantID)
}
