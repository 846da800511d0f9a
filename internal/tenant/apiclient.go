package tenant

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNotAuthorized rejects cross-tenant access attempts.
var ErrNotAuthorized = errors.New("not authorized for tenant")

// CallOptions shape an outbound tenant-scoped request.
type CallOptions struct {
	Method  string
	Body    io.Reader
	Headers map[string]string
}

// APIClient makes outbound calls on behalf of a tenant. Every request
// carries an X-Tenant-ID header, and the caller's scope must match the
// tenant it is calling for.
type APIClient struct {
	baseURL string
	client  *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Call performs a tenant-scoped request. ErrNotAuthorized unless the
// scope's tenant is the one being called for.
func (c *APIClient) Call(scope *Scope, tenantID, endpoint string, opts CallOptions) (*http.Response, error) {
	if scope == nil || scope.TenantID() != tenantID {
		return nil, fmt.Errorf("%w: %s", ErrNotAuthorized, tenantID)
	}

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequest(method, c.baseURL+"/"+strings.TrimLeft(endpoint, "/"), opts.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to build tenant request: %w", err)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("X-Tenant-ID", tenantID)

	return c.client.Do(req)
}
