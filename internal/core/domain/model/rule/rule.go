// Package rule contains the AutoAssignRule aggregate: named, tunable
// scoring-weight profiles consumed by the rider scorer.
package rule

import (
	"errors"
	"time"

	"dispatch/internal/pkg/errs"
)

// DefaultRuleID identifies the synthetic rule returned when the store is empty
// and the target of upserts that omit an id.
const DefaultRuleID = "default"

// Default knob values. distanceWeight and priorityWeight are the two weights
// the scorer applies directly; the remaining knobs are persisted and surfaced
// but not used to gate candidates.
const (
	defaultMaxRadiusKm       = 10.0
	defaultMaxOrdersPerRider = 3
	defaultPriorityWeight    = 15.0
	defaultDistanceWeight    = 2.0
	defaultEtaWeight         = 1.0
)

// ErrRuleIsNotConstructed is returned when using an improperly initialized rule.
var ErrRuleIsNotConstructed = errors.New("AutoAssignRule must be created via NewAutoAssignRule constructor")

// Criteria holds the tunable knobs of an auto-assign rule.
type Criteria struct {
	MaxRadiusKm       float64
	MaxOrdersPerRider int
	PreferSameZone    bool
	PriorityWeight    float64
	DistanceWeight    float64
	EtaWeight         float64
}

// DefaultCriteria returns the knob values used when no active rule exists.
func DefaultCriteria() Criteria {
	return Criteria{
		MaxRadiusKm:       defaultMaxRadiusKm,
		MaxOrdersPerRider: defaultMaxOrdersPerRider,
		PreferSameZone:    true,
		PriorityWeight:    defaultPriorityWeight,
		DistanceWeight:    defaultDistanceWeight,
		EtaWeight:         defaultEtaWeight,
	}
}

// AutoAssignRule is a named, tunable scoring-weight profile.
// Rules follow upsert-by-id semantics; createdBy is set once on insert and
// updatedAt moves on every write.
type AutoAssignRule struct {
	id        string
	name      string
	isActive  bool
	criteria  Criteria
	createdBy string
	updatedAt time.Time

	isConstructed bool
}

// NewAutoAssignRule creates a rule with the given profile.
func NewAutoAssignRule(
	id string,
	name string,
	isActive bool,
	criteria Criteria,
	createdBy string,
	updatedAt time.Time,
) (*AutoAssignRule, error) {
	r := &AutoAssignRule{
		isConstructed: true,
	}

	if err := errors.Join(
		r.setID(id),
		r.setName(name),
	); err != nil {
		return nil, err
	}

	r.isActive = isActive
	r.criteria = criteria
	r.createdBy = createdBy
	r.updatedAt = updatedAt
	return r, nil
}

// Default returns the synthetic inactive rule the store exposes when no
// rules have been persisted yet.
func Default() *AutoAssignRule {
	return &AutoAssignRule{
		id:            DefaultRuleID,
		name:          "Default",
		isActive:      false,
		criteria:      DefaultCriteria(),
		createdBy:     "system",
		isConstructed: true,
	}
}

// Validate ensures the rule was created through a factory method.
func (r *AutoAssignRule) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRuleIsNotConstructed
	}
	return nil
}

// ID returns the rule's unique identifier.
func (r *AutoAssignRule) ID() string {
	return r.id
}

// Name returns the rule's display name.
func (r *AutoAssignRule) Name() string {
	return r.name
}

// IsActive reports whether this rule's criteria drive auto-assignment.
func (r *AutoAssignRule) IsActive() bool {
	return r.isActive
}

// Criteria returns the rule's tunable knobs.
func (r *AutoAssignRule) Criteria() Criteria {
	return r.criteria
}

// CreatedBy returns the actor who first persisted the rule.
func (r *AutoAssignRule) CreatedBy() string {
	return r.createdBy
}

// UpdatedAt returns the time of the last write.
func (r *AutoAssignRule) UpdatedAt() time.Time {
	return r.updatedAt
}

// Apply overwrites name, activation flag and criteria ($set semantics)
// and moves updatedAt. Identity and createdBy are left untouched.
func (r *AutoAssignRule) Apply(name string, isActive bool, criteria Criteria, now time.Time) error {
	if err := r.setName(name); err != nil {
		return err
	}
	r.isActive = isActive
	r.criteria = criteria
	r.updatedAt = now
	return nil
}

func (r *AutoAssignRule) setID(id string) error {
	if id == "" {
		return errs.NewValueIsRequiredError("rule id")
	}
	r.id = id
	return nil
}

func (r *AutoAssignRule) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("rule name")
	}
	r.name = name
	return nil
}
