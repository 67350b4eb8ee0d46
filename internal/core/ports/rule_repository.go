package ports

import (
	"context"

	"dispatch/internal/core/domain/model/rule"
)

// RuleRepository defines the persistence contract for auto-assign rules.
// The synthetic default rule is not persisted; callers substitute
// rule.Default() when the store is empty.
type RuleRepository interface {
	// GetAll retrieves every persisted rule.
	GetAll(ctx context.Context) ([]*rule.AutoAssignRule, error)

	// Get retrieves a rule by id.
	// Returns errs.ObjectNotFoundError when the rule does not exist.
	Get(ctx context.Context, id string) (*rule.AutoAssignRule, error)

	// Save upserts a rule by id: creates it on first use, otherwise
	// overwrites name, activation flag and criteria.
	Save(ctx context.Context, aggregate *rule.AutoAssignRule) error
}
