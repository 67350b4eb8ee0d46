package queries

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

// MapRidersQueryHandler reads rider markers for the live map directly from
// the database. Riders without a known position never appear on the map.
type MapRidersQueryHandler struct {
	db *gorm.DB
}

// NewMapRidersQueryHandler creates a handler for map rider queries.
func NewMapRidersQueryHandler(db *gorm.DB) MapRidersQueryHandler {
	return MapRidersQueryHandler{db: db}
}

// Handle executes the query. Returns located riders sorted by id.
func (h MapRidersQueryHandler) Handle(
	ctx context.Context,
	query MapRidersQuery,
) ([]MapRiderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	conditions := []string{"lat IS NOT NULL", "lng IS NOT NULL"}
	args := make([]any, 0, 2)

	if query.Zone() != "" {
		conditions = append(conditions, "zone = ?")
		args = append(args, query.Zone())
	}
	if query.Status() != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, query.Status())
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			status,
			lat,
			lng,
			current_load,
			max_load,
			zone
		FROM riders
		WHERE `+strings.Join(conditions, " AND ")+`
		ORDER BY id
	`, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	riders := make([]MapRiderResponse, 0)
	for rows.Next() {
		var row MapRiderResponse

		err = rows.Scan(
			&row.ID,
			&row.Name,
			&row.Status,
			&row.Lat,
			&row.Lng,
			&row.CurrentLoad,
			&row.MaxLoad,
			&row.Zone,
		)
		if err != nil {
			return nil, err
		}

		riders = append(riders, row)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return riders, nil
}
