package queries

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// UnassignedOrdersCountQueryHandler counts the pending backlog directly in
// the database, reusing the backlog filter's priority windows.
type UnassignedOrdersCountQueryHandler struct {
	db  *gorm.DB
	now func() time.Time
}

// NewUnassignedOrdersCountQueryHandler creates a handler for backlog counts.
// A nil now falls back to time.Now.
func NewUnassignedOrdersCountQueryHandler(db *gorm.DB, now func() time.Time) UnassignedOrdersCountQueryHandler {
	if now == nil {
		now = time.Now
	}
	return UnassignedOrdersCountQueryHandler{db: db, now: now}
}

// Handle executes the count query.
func (h UnassignedOrdersCountQueryHandler) Handle(
	ctx context.Context,
	query UnassignedOrdersCountQuery,
) (int64, error) {
	if err := query.Validate(); err != nil {
		return 0, err
	}

	where, args := backlogFilter(query.Priority(), "", "", h.now().UTC())

	var total int64
	err := h.db.WithContext(ctx).
		Raw("SELECT COUNT(*) FROM orders WHERE "+where, args...).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}

	return total, nil
}
