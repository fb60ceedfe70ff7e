package http

import "github.com/fernwerk/orgmatch/internal/matching"

// ResolveRequest is the request body for POST /api/v1/resolve.
type ResolveRequest struct {
	TenantID   string                      `json:"tenantId"`
	UserID     string                      `json:"userId"`
	AutoGlobal bool                        `json:"autoGlobal,omitempty"`
	Variants   []matching.CandidateVariant `json:"variants"`
}

// ResolveResponse is the response body for POST /api/v1/resolve.
type ResolveResponse struct {
	Result *matching.MatchResult `json:"result"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}
