package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CreateBuildupRequest stores a new buildup. Quantity defaults to 1.
type CreateBuildupRequest struct {
	Name           string          `json:"name"`
	Status         string          `json:"status,omitempty"`
	Classification json.RawMessage `json:"classification,omitempty"`
	Comment        string          `json:"comment,omitempty"`
	Description    string          `json:"description,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	Unit           string          `json:"unit,omitempty"`
	MetaData       json.RawMessage `json:"meta_data,omitempty"`
	Products       json.RawMessage `json:"products,omitempty"`
	Results        json.RawMessage `json:"results,omitempty"`
}

// UpdateBuildupRequest partially updates a buildup.
type UpdateBuildupRequest struct {
	Name           *string          `json:"name,omitempty"`
	Status         *string          `json:"status,omitempty"`
	Classification json.RawMessage  `json:"classification,omitempty"`
	Comment        *string          `json:"comment,omitempty"`
	Description    *string          `json:"description,omitempty"`
	Quantity       *decimal.Decimal `json:"quantity,omitempty"`
	Unit           *string          `json:"unit,omitempty"`
	MetaData       json.RawMessage  `json:"meta_data,omitempty"`
	Products       json.RawMessage  `json:"products,omitempty"`
	Results        json.RawMessage  `json:"results,omitempty"`
}

// BuildupResponse returns one buildup.
type BuildupResponse struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	Status         string          `json:"status"`
	Classification json.RawMessage `json:"classification,omitempty"`
	Comment        string          `json:"comment,omitempty"`
	Description    string          `json:"description,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	Unit           string          `json:"unit,omitempty"`
	MetaData       json.RawMessage `json:"meta_data,omitempty"`
	Products       json.RawMessage `json:"products,omitempty"`
	Results        json.RawMessage `json:"results,omitempty"`
}

// BuildupListResponse wraps a paginated buildup list.
type BuildupListResponse struct {
	Items []BuildupResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
