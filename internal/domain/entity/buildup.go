package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Buildup statuses.
const (
	BuildupStatusActive   = "active"
	BuildupStatusArchived = "archived"
)

// Buildup is an assembly of products (a wall, a slab) declared per Quantity
// of Unit. Classification, product references and computed results live in
// JSON columns; this service treats them as opaque documents.
type Buildup struct {
	ID             int
	UserIDCreated  *int
	UserIDUpdated  *int
	Name           string
	Status         string
	Classification json.RawMessage // list of {code, name, system}
	Comment        string
	Description    string
	Quantity       decimal.Decimal // defaults to 1
	Unit           string
	MetaData       json.RawMessage
	Products       json.RawMessage // product id -> reference or snapshot
	Results        json.RawMessage // product id -> {quantity}
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
