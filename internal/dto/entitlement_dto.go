package dto

type FeatureCheckResponse struct {
	Feature    string `json:"feature"`
	Authorized bool   `json:"authorized"`
	Licensed   bool   `json:"licensed"`
	Enabled    bool   `json:"enabled"` // tenant-settings flag
}

type UsageResponse struct {
	Resource   string  `json:"resource"`
	Current    int64   `json:"current"`
	Allowed    bool    `json:"allowed"`
	Percentage float64 `json:"percentage"`
}

type LicenseStatusResponse struct {
	TenantID      string `json:"tenant_id"`
	Status        string `json:"status"`
	RemainingDays int    `json:"remaining_days"`
	ExpiringSoon  bool   `json:"expiring_soon"`
}

type ValidateRequest struct {
	Value string `json:"value"`
}

type ValidateResponse struct {
	Valid bool `json:"valid"`
}
