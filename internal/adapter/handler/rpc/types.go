package rpc

// Line is one item/quantity pair, used in both directions.
type Line struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

type OrderRequest struct {
	Kind      string `json:"kind"`
	Requester string `json:"requester"`
	Lines     []Line `json:"lines"`
}

type LineResult struct {
	ItemID    string `json:"item_id"`
	Requested int    `json:"requested"`
	Fulfilled int    `json:"fulfilled"`
	Err       string `json:"err,omitempty"`
}

type OrderReply struct {
	OrderID    string       `json:"order_id"`
	Lines      []LineResult `json:"lines"`
	TotalCents int64        `json:"total_cents"`
	CostKnown  bool         `json:"cost_known"`
	Partial    bool         `json:"partial"`
}

type AisleReport struct {
	CorrelationID string `json:"correlation_id"`
	Aisle         string `json:"aisle"`
	Status        string `json:"status"`
	Lines         []Line `json:"lines"`
	RobotID       string `json:"robot_id"`
}

type ReportAck struct {
	Accepted bool `json:"accepted"`
}

type QuoteRequest struct {
	Lines []Line `json:"lines"`
}

type QuoteReply struct {
	TotalCents int64    `json:"total_cents"`
	Unknown    []string `json:"unknown,omitempty"`
}
