package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CreateProductRequest stores a new EPD snapshot.
type CreateProductRequest struct {
	Status            string              `json:"status,omitempty"`
	EPDName           string              `json:"epd_name"`
	EPDDeclaredUnit   string              `json:"epd_declared_unit"`
	EPDVersion        string              `json:"epd_version"`
	EPDPublishedDate  string              `json:"epd_published_date,omitempty"`
	EPDValidUntil     string              `json:"epd_valid_until,omitempty"`
	EPDStandard       string              `json:"epd_standard,omitempty"`
	EPDComment        string              `json:"epd_comment,omitempty"`
	EPDLocation       string              `json:"epd_location,omitempty"`
	EPDFormatVersion  string              `json:"epd_format_version,omitempty"`
	EPDID             string              `json:"epd_id"`
	EPDx              json.RawMessage     `json:"epdx,omitempty"`
	EPDSourceName     string              `json:"epd_source_name"`
	EPDSourceURL      string              `json:"epd_source_url,omitempty"`
	EPDLinearDensity  decimal.NullDecimal `json:"epd_linear_density,omitempty"`
	EPDGrossDensity   decimal.NullDecimal `json:"epd_gross_density,omitempty"`
	EPDGrammage       decimal.NullDecimal `json:"epd_grammage,omitempty"`
	EPDLayerThickness decimal.NullDecimal `json:"epd_layer_thickness,omitempty"`
	EPDBulkDensity    decimal.NullDecimal `json:"epd_bulk_density,omitempty"`
	EPDSubtype        string              `json:"epd_subtype,omitempty"`
	EPDDescription    string              `json:"epd_description,omitempty"`
}

// UpdateProductRequest partially updates a product.
type UpdateProductRequest struct {
	Status         *string         `json:"status,omitempty"`
	EPDName        *string         `json:"epd_name,omitempty"`
	EPDComment     *string         `json:"epd_comment,omitempty"`
	EPDValidUntil  *string         `json:"epd_valid_until,omitempty"`
	EPDx           json.RawMessage `json:"epdx,omitempty"`
	EPDDescription *string         `json:"epd_description,omitempty"`
}

// ProductResponse returns one product.
type ProductResponse struct {
	ID                int                 `json:"id"`
	Status            string              `json:"status"`
	EPDName           string              `json:"epd_name"`
	EPDDeclaredUnit   string              `json:"epd_declared_unit"`
	EPDVersion        string              `json:"epd_version"`
	EPDPublishedDate  string              `json:"epd_published_date,omitempty"`
	EPDValidUntil     string              `json:"epd_valid_until,omitempty"`
	EPDStandard       string              `json:"epd_standard,omitempty"`
	EPDComment        string              `json:"epd_comment,omitempty"`
	EPDLocation       string              `json:"epd_location,omitempty"`
	EPDFormatVersion  string              `json:"epd_format_version,omitempty"`
	EPDID             string              `json:"epd_id"`
	EPDx              json.RawMessage     `json:"epdx,omitempty"`
	EPDSourceName     string              `json:"epd_source_name"`
	EPDSourceURL      string              `json:"epd_source_url,omitempty"`
	EPDLinearDensity  decimal.NullDecimal `json:"epd_linear_density,omitempty"`
	EPDGrossDensity   decimal.NullDecimal `json:"epd_gross_density,omitempty"`
	EPDGrammage       decimal.NullDecimal `json:"epd_grammage,omitempty"`
	EPDLayerThickness decimal.NullDecimal `json:"epd_layer_thickness,omitempty"`
	EPDBulkDensity    decimal.NullDecimal `json:"epd_bulk_density,omitempty"`
	EPDSubtype        string              `json:"epd_subtype,omitempty"`
	EPDDescription    string              `json:"epd_description,omitempty"`
}

// ProductListResponse wraps a paginated product list.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
