package dto

// SetDataRequest writes one value into the tenant's data namespace.
type SetDataRequest struct {
	Value any `json:"value"`
}
