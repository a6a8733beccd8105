// Package api - request and response shapes for the HTTP API
package api

import (
	"github.com/shopspring/decimal"

	"craft-cost/core/cost"
	"craft-cost/core/output"
)

// EstimateRequest is the input to POST /estimate
type EstimateRequest struct {
	// Product id or name
	Product string `json:"product"`

	// SuccessRate in percent; the server default applies when omitted
	SuccessRate *decimal.Decimal `json:"success_rate,omitempty"`

	// Tree asks for the bill-of-materials tree as well
	Tree bool `json:"tree,omitempty"`
}

// EstimateResponse is the output of POST /estimate
type EstimateResponse struct {
	*output.EstimateView
	Tree       *cost.TreeNode `json:"tree,omitempty"`
	DurationMs int64          `json:"duration_ms"`
}

// DiffRequest compares one product at two success rates
type DiffRequest struct {
	Product  string          `json:"product"`
	BaseRate decimal.Decimal `json:"base_rate"`
	HeadRate decimal.Decimal `json:"head_rate"`
}

// DiffResponse is the output of POST /diff
type DiffResponse struct {
	ProductID    string          `json:"product_id"`
	TotalBefore  decimal.Decimal `json:"total_before"`
	TotalAfter   decimal.Decimal `json:"total_after"`
	TotalDelta   decimal.Decimal `json:"total_delta"`
	DeltaPercent decimal.Decimal `json:"delta_percent"`
	Changes      []DiffChange    `json:"changes"`
}

// DiffChange is one material whose consumption changed
type DiffChange struct {
	MaterialID    string          `json:"id"`
	Name          string          `json:"name"`
	Change        string          `json:"change"`
	CostDelta     decimal.Decimal `json:"cost_delta"`
	QuantityDelta decimal.Decimal `json:"qty_delta"`
}

// ProductSummary is one entry of GET /products
type ProductSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Profession  string `json:"profession"`
	Level       string `json:"level"`
	Coefficient int64  `json:"coefficient"`
	Lines       int    `json:"lines"`
}

// OrderResponse is the output of GET /order
type OrderResponse struct {
	Order  []string `json:"order"`
	Cyclic []string `json:"cyclic"`
}

// ErrorBody is the error envelope
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a message
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
