package billing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"plans": [
			{"id": "starter", "name": "Starter", "price": 4900, "currency": "usd", "interval": "month",
			 "features": ["pos"], "limits": {"orders": 100}},
			{"id": "pro", "name": "Pro", "price": 9900, "currency": "usd", "interval": "month",
			 "features": ["pos", "delivery"], "limits": {"orders": -1}, "popular": true}
		]
	}`), 0o600))

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Len(t, catalog.All(), 2)

	pro := catalog.Get("pro")
	require.NotNil(t, pro)
	assert.True(t, pro.Popular)
	assert.EqualValues(t, -1, pro.Limits["orders"])

	assert.Nil(t, catalog.Get("enterprise"))
}

func TestLoadCatalogErrors(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err = LoadCatalog(path)
	assert.Error(t, err)
}
