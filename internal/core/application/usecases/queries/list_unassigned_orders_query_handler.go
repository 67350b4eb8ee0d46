package queries

import (
	"context"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"

	"gorm.io/gorm"
)

// Priority tier windows measured from "now". A pending order is high when its
// deadline is at most 30 minutes out (or already past), medium up to an hour.
const (
	highPriorityWindow   = 30 * time.Minute
	mediumPriorityWindow = 60 * time.Minute
)

// ListUnassignedOrdersQueryHandler reads the pending backlog from the
// database. Uses direct SQL for optimal read performance in the CQRS pattern;
// the priority filter translates the tier windows into sla_deadline bounds.
type ListUnassignedOrdersQueryHandler struct {
	db  *gorm.DB
	now func() time.Time
}

// NewListUnassignedOrdersQueryHandler creates a handler for backlog queries.
// A nil now falls back to time.Now.
func NewListUnassignedOrdersQueryHandler(db *gorm.DB, now func() time.Time) ListUnassignedOrdersQueryHandler {
	if now == nil {
		now = time.Now
	}
	return ListUnassignedOrdersQueryHandler{db: db, now: now}
}

// Handle executes the backlog query. Returns one page of pending orders
// sorted ascending by SLA deadline plus the total match count.
func (h ListUnassignedOrdersQueryHandler) Handle(
	ctx context.Context,
	query ListUnassignedOrdersQuery,
) (ListUnassignedOrdersResponse, error) {
	if err := query.Validate(); err != nil {
		return ListUnassignedOrdersResponse{}, err
	}

	now := h.now().UTC()
	where, args := backlogFilter(query.Priority(), query.Zone(), query.Search(), now)

	var total int64
	err := h.db.WithContext(ctx).
		Raw("SELECT COUNT(*) FROM orders WHERE "+where, args...).
		Scan(&total).Error
	if err != nil {
		return ListUnassignedOrdersResponse{}, err
	}

	offset := (query.Page() - 1) * query.PageSize()
	listArgs := append(append([]any{}, args...), query.PageSize(), offset)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			customer_name,
			pickup_location,
			drop_location,
			zone,
			sla_deadline
		FROM orders
		WHERE `+where+`
		ORDER BY sla_deadline ASC
		LIMIT ? OFFSET ?
	`, listArgs...).Rows()
	if err != nil {
		return ListUnassignedOrdersResponse{}, err
	}
	defer rows.Close()

	orders := make([]UnassignedOrderResponse, 0)
	for rows.Next() {
		var row UnassignedOrderResponse

		err = rows.Scan(
			&row.ID,
			&row.CustomerName,
			&row.PickupLocation,
			&row.DropLocation,
			&row.Zone,
			&row.SlaDeadline,
		)
		if err != nil {
			return ListUnassignedOrdersResponse{}, err
		}

		row.Priority = services.ClassifyPriority(row.SlaDeadline, now).String()
		orders = append(orders, row)
	}

	if err = rows.Err(); err != nil {
		return ListUnassignedOrdersResponse{}, err
	}

	return ListUnassignedOrdersResponse{
		Orders:   orders,
		Total:    total,
		Page:     query.Page(),
		PageSize: query.PageSize(),
	}, nil
}

// backlogFilter builds the shared WHERE clause of the backlog list and count
// queries. The priority tiers map onto sla_deadline intervals relative to now.
func backlogFilter(priority, zone, search string, now time.Time) (string, []any) {
	conditions := []string{"status = ?"}
	args := []any{order.Pending.String()}

	switch services.Priority(priority) {
	case services.PriorityHigh:
		conditions = append(conditions, "sla_deadline <= ?")
		args = append(args, now.Add(highPriorityWindow))
	case services.PriorityMedium:
		conditions = append(conditions, "sla_deadline > ? AND sla_deadline <= ?")
		args = append(args, now.Add(highPriorityWindow), now.Add(mediumPriorityWindow))
	case services.PriorityLow:
		conditions = append(conditions, "sla_deadline > ?")
		args = append(args, now.Add(mediumPriorityWindow))
	}

	if zone != "" {
		conditions = append(conditions, "zone = ?")
		args = append(args, zone)
	}

	if search != "" {
		pattern := "%" + search + "%"
		conditions = append(conditions, "(id ILIKE ? OR customer_name ILIKE ?)")
		args = append(args, pattern, pattern)
	}

	return strings.Join(conditions, " AND "), args
}
