package http

import "time"

// Error is the uniform error payload of the HTTP API.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ItemRequest is one order line in an intake request.
type ItemRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// CreateOrderRequest is the manual intake payload.
type CreateOrderRequest struct {
	CustomerName   string        `json:"customerName"`
	DropLocation   string        `json:"dropLocation"`
	PickupLocation string        `json:"pickupLocation,omitempty"`
	Zone           *string       `json:"zone,omitempty"`
	Items          []ItemRequest `json:"items"`
	OrderType      string        `json:"orderType,omitempty"`
	RiderID        *string       `json:"riderId,omitempty"`
}

// CreateOrderResponse returns the generated order id.
type CreateOrderResponse struct {
	OrderID string `json:"orderId"`
}

// AssignOrderRequest binds one rider to one order.
type AssignOrderRequest struct {
	RiderID     string `json:"riderId"`
	OverrideSLA bool   `json:"overrideSla,omitempty"`
}

// BatchAssignRequest selects the orders of one dispatch pass.
// An absent orderIds list dispatches the whole pending backlog.
type BatchAssignRequest struct {
	OrderIDs []string `json:"orderIds,omitempty"`
}

// OrderOutcomeResponse is one per-order result of a dispatch pass.
type OrderOutcomeResponse struct {
	OrderID string  `json:"orderId"`
	Status  string  `json:"status"`
	RiderID *string `json:"riderId,omitempty"`
	Reason  string  `json:"reason,omitempty"`
}

// BatchAssignResponse is the full report of one dispatch pass.
type BatchAssignResponse struct {
	BatchID  string                 `json:"batchId"`
	Outcomes []OrderOutcomeResponse `json:"outcomes"`
	Summary  BatchSummaryResponse   `json:"summary"`
}

// BatchSummaryResponse aggregates a dispatch pass.
type BatchSummaryResponse struct {
	Assigned       int `json:"assigned"`
	Failed         int `json:"failed"`
	TotalProcessed int `json:"totalProcessed"`
}

// UnassignedOrder is one backlog row.
type UnassignedOrder struct {
	ID             string    `json:"id"`
	CustomerName   string    `json:"customerName"`
	PickupLocation string    `json:"pickupLocation"`
	DropLocation   string    `json:"dropLocation"`
	Zone           *string   `json:"zone,omitempty"`
	SlaDeadline    time.Time `json:"slaDeadline"`
	Priority       string    `json:"priority"`
}

// UnassignedOrdersPage is one page of the backlog.
type UnassignedOrdersPage struct {
	Orders   []UnassignedOrder `json:"orders"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

// UnassignedOrdersCount is the backlog badge payload.
type UnassignedOrdersCount struct {
	Count int64 `json:"count"`
}

// MapRider is one rider marker on the live map.
type MapRider struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	CurrentLoad int     `json:"currentLoad"`
	MaxLoad     int     `json:"maxLoad"`
	Zone        *string `json:"zone,omitempty"`
}

// MapOrder is one order marker on the live map.
type MapOrder struct {
	ID           string    `json:"id"`
	Status       string    `json:"status"`
	CustomerName string    `json:"customerName"`
	DropLocation string    `json:"dropLocation"`
	Lat          *float64  `json:"lat,omitempty"`
	Lng          *float64  `json:"lng,omitempty"`
	Zone         *string   `json:"zone,omitempty"`
	SlaDeadline  time.Time `json:"slaDeadline"`
	RiderID      *string   `json:"riderId,omitempty"`
}

// MapData is the composed live-map payload.
type MapData struct {
	Riders []MapRider `json:"riders"`
	Orders []MapOrder `json:"orders"`
}

// RecommendedRider is one ranked candidate for an order.
type RecommendedRider struct {
	RiderID       string   `json:"riderId"`
	Name          string   `json:"name"`
	Status        string   `json:"status"`
	Zone          *string  `json:"zone,omitempty"`
	CurrentLoad   int      `json:"currentLoad"`
	MaxLoad       int      `json:"maxLoad"`
	Rating        float64  `json:"rating"`
	DistanceKm    *float64 `json:"distanceKm,omitempty"`
	EtaMinutes    int      `json:"etaMinutes"`
	Score         float64  `json:"score"`
	IsRecommended bool     `json:"isRecommended"`
}

// TimelineEntry is one recorded order status transition.
type TimelineEntry struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
	Note   string    `json:"note"`
}

// AssignedRider summarizes the rider bound to an order.
type AssignedRider struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	CurrentLoad int     `json:"currentLoad"`
	MaxLoad     int     `json:"maxLoad"`
	Rating      float64 `json:"rating"`
	Zone        *string `json:"zone,omitempty"`
}

// OrderAssignmentDetails is the assignment view of one order.
type OrderAssignmentDetails struct {
	ID             string          `json:"id"`
	Status         string          `json:"status"`
	Priority       string          `json:"priority"`
	CustomerName   string          `json:"customerName"`
	PickupLocation string          `json:"pickupLocation"`
	DropLocation   string          `json:"dropLocation"`
	Zone           *string         `json:"zone,omitempty"`
	EtaMinutes     int             `json:"etaMinutes"`
	SlaDeadline    time.Time       `json:"slaDeadline"`
	Timeline       []TimelineEntry `json:"timeline"`
	Rider          *AssignedRider  `json:"rider,omitempty"`
}

// RuleCriteria exposes the tunable knobs of one auto-assign rule.
type RuleCriteria struct {
	MaxRadiusKm       float64 `json:"maxRadiusKm"`
	MaxOrdersPerRider int     `json:"maxOrdersPerRider"`
	PreferSameZone    bool    `json:"preferSameZone"`
	PriorityWeight    float64 `json:"priorityWeight"`
	DistanceWeight    float64 `json:"distanceWeight"`
	EtaWeight         float64 `json:"etaWeight"`
}

// AutoAssignRule is one rule profile.
type AutoAssignRule struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	IsActive  bool         `json:"isActive"`
	Criteria  RuleCriteria `json:"criteria"`
	CreatedBy string       `json:"createdBy"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// UpsertRuleRequest writes one rule profile. An empty id targets the
// "default" rule.
type UpsertRuleRequest struct {
	ID       string       `json:"id,omitempty"`
	Name     string       `json:"name"`
	IsActive bool         `json:"isActive"`
	Criteria RuleCriteria `json:"criteria"`
	Actor    string       `json:"actor,omitempty"`
}
