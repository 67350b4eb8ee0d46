package queries

import (
	"context"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"

	"gorm.io/gorm"
)

// MapOrdersQueryHandler reads order markers for the live map. Rows come
// straight from the database; the drop address of each row is resolved to
// coordinates through the injected estimator so the map can place the marker.
type MapOrdersQueryHandler struct {
	db        *gorm.DB
	estimator services.DistanceEstimator
}

// NewMapOrdersQueryHandler creates a handler for map order queries.
func NewMapOrdersQueryHandler(db *gorm.DB, estimator services.DistanceEstimator) MapOrdersQueryHandler {
	return MapOrdersQueryHandler{db: db, estimator: estimator}
}

// Handle executes the query. Returns active orders sorted by SLA deadline;
// unresolvable drop addresses leave the marker position nil rather than
// failing the whole read.
func (h MapOrdersQueryHandler) Handle(
	ctx context.Context,
	query MapOrdersQuery,
) ([]MapOrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	terminal := []any{
		order.Delivered.String(),
		order.RTO.String(),
		order.Returned.String(),
	}
	args := terminal
	where := "status NOT IN (?, ?, ?)"
	if query.Zone() != "" {
		where += " AND zone = ?"
		args = append(args, query.Zone())
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			customer_name,
			drop_location,
			zone,
			sla_deadline,
			rider_id
		FROM orders
		WHERE `+where+`
		ORDER BY sla_deadline ASC
	`, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]MapOrderResponse, 0)
	for rows.Next() {
		var row MapOrderResponse

		err = rows.Scan(
			&row.ID,
			&row.Status,
			&row.CustomerName,
			&row.DropLocation,
			&row.Zone,
			&row.SlaDeadline,
			&row.RiderID,
		)
		if err != nil {
			return nil, err
		}

		if location, resolveErr := h.estimator.ResolveAddress(ctx, row.DropLocation); resolveErr == nil {
			lat, lng := location.Lat(), location.Lng()
			row.Lat, row.Lng = &lat, &lng
		}

		orders = append(orders, row)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
