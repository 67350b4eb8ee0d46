package services

import "time"

// Priority is the urgency tier derived from time remaining to an order's
// SLA deadline.
type Priority string

const (
	// PriorityHigh: 30 minutes or less remain (including past-due deadlines).
	PriorityHigh Priority = "high"
	// PriorityMedium: more than 30 and up to 60 minutes remain.
	PriorityMedium Priority = "medium"
	// PriorityLow: more than 60 minutes remain.
	PriorityLow Priority = "low"
)

const (
	highPriorityWindow   = 30 * time.Minute
	mediumPriorityWindow = 60 * time.Minute
)

// String implements fmt.Stringer.
func (p Priority) String() string {
	return string(p)
}

// ClassifyPriority derives the urgency tier of an SLA deadline evaluated
// against the given clock reading. Pure and deterministic: identical inputs
// always yield the identical tier. A deadline that has already passed still
// classifies as high.
func ClassifyPriority(slaDeadline, now time.Time) Priority {
	remaining := slaDeadline.Sub(now)
	switch {
	case remaining <= highPriorityWindow:
		return PriorityHigh
	case remaining <= mediumPriorityWindow:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
