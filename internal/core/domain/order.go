package domain

import "time"

type OrderKind string

const (
	OrderKindFetch   OrderKind = "FETCH"
	OrderKindRestock OrderKind = "RESTOCK"
)

// Line is one item/quantity pair of an order or task.
type Line struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

type Order struct {
	ID        string
	Kind      OrderKind
	Requester string
	Lines     []Line
	CreatedAt time.Time
}

// LineResult reports what actually happened to one ordered line. Err is
// empty unless the line failed on its own (unknown item), independent of
// how the rest of the order went.
type LineResult struct {
	ItemID    string
	Requested int
	Fulfilled int
	Err       string
}

// Receipt is the coordinator's answer to an order. Partial is set when at
// least one aisle missed the reply window; CostKnown is cleared when the
// pricing service could not be reached.
type Receipt struct {
	OrderID    string
	Kind       OrderKind
	Lines      []LineResult
	TotalCents int64
	CostKnown  bool
	Partial    bool
}
