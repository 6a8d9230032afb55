package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Product statuses.
const (
	ProductStatusActive   = "active"
	ProductStatusArchived = "archived"
)

// Product is a stored EPD snapshot: the declaration metadata plus the raw
// epdx document. Impact arithmetic happens outside this service; the record
// is catalog data the category engine can tag.
type Product struct {
	ID                int
	UserIDCreated     *int
	UserIDUpdated     *int
	Status            string
	EPDName           string
	EPDDeclaredUnit   string
	EPDVersion        string
	EPDPublishedDate  string
	EPDValidUntil     string
	EPDStandard       string
	EPDComment        string
	EPDLocation       string
	EPDFormatVersion  string
	EPDID             string
	EPDx              json.RawMessage // full epdx document, stored opaque
	EPDSourceName     string
	EPDSourceURL      string
	EPDLinearDensity  decimal.NullDecimal
	EPDGrossDensity   decimal.NullDecimal
	EPDGrammage       decimal.NullDecimal
	EPDLayerThickness decimal.NullDecimal
	EPDBulkDensity    decimal.NullDecimal
	EPDSubtype        string
	EPDDescription    string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
